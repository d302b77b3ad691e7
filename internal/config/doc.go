// Package config handles parsing and writing of pytk.yaml files.
// The configuration is optional: a workspace with no pytk.yaml gets
// the defaults. Settings are passed by value into discovery and
// resolver calls so those stay pure functions of (path, config).
package config

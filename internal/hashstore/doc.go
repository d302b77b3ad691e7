// Package hashstore implements the content-hash staleness scheme that
// decides whether a venv's installed dependencies still match its declared
// requirements. The at-rest format is a single-line hex digest file inside
// the venv directory.
package hashstore

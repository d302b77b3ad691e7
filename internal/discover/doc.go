// Package discover partitions a multi-project workspace into sub-projects
// using marker files. Discovery is a pure function of the filesystem plus
// the configured exclude patterns; results carry no persistent identity
// and are recomputed on every call.
package discover

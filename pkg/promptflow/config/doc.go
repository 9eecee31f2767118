// Package config provides the untyped configuration map used for node data
// and settings files, with type-safe accessors and YAML/JSON loading.
package config

// Package config loads regtable settings from a YAML file, environment
// variables prefixed with REGTABLE_, and built-in defaults, in increasing
// order of precedence: defaults, then file, then environment.
package config

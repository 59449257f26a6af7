// Package env provides the name registry that resolves commands (and other
// named values) when a serialized value graph is loaded.
package env

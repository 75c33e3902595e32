// Package util holds small helpers shared by the config and HTTP layers:
// human-readable byte sizes and input sanitization.
package util

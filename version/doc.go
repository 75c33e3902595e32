// Package version exposes the build version of the streamscribe binary.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/streamscribe/version.Version=1.0.0" ./cmd/streamscribe
package version

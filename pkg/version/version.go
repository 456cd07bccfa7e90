// Package version holds the build version, overridable at link time with
// -ldflags "-X github.com/velsec/sharescout/pkg/version.Version=...".
package version

var Version = "dev"

// Package common holds metadata shared across auctionet binaries.
package common

// PackageName is used as the metrics namespace and in startup logs.
const PackageName = "auctionet"

// Version is set at build time via -ldflags.
var Version = "dev"

// Package meta holds the application metadata.
package meta

import version "github.com/hashicorp/go-version"

const AppName = "protoorder"

var (
	Version = version.Must(version.NewSemver("0.1.0"))
)

package main

import (
	_ "github.com/frederickw082922/crosscheck/internal/checks/catalog"
	"github.com/frederickw082922/crosscheck/internal/cli"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}

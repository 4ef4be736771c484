// Package main is the single-binary entrypoint for FitCoach.
package main

import "github.com/fitcoach-app/fitcoach/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

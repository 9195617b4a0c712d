// Package log sets up the crawler's zerolog loggers: one named logger per
// package, console output in dev mode and JSON in prod, and a record of
// which packages have created a logger. There is no per-package
// enable/disable switch.
package log

import (
	"io"
	"os"
)

// Out is the log output writer.
var Out io.Writer = os.Stderr

// Mode selects the encoding: "dev" or "" prints console format, anything else prints JSON.
var Mode = "dev"

var pkgs []string

// ListRegisteredPackages returns the names of the packages that have called New.
func ListRegisteredPackages() []string {
	out := make([]string, len(pkgs))
	copy(out, pkgs)
	return out
}

func register(pkg string) {
	pkgs = append(pkgs, pkg)
}

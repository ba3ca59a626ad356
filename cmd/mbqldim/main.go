// Package main is the entry point for the mbqldim binary, a tool for
// inspecting query-builder dimension expressions against a metadata fixture.
package main

import (
	"os"
)

func main() {
	os.Exit(execute())
}

// Package main is the entry point for the mcpsync CLI.
//
// All commands live in internal/cli; this binary only dispatches to the
// root cobra command, which owns configuration loading, engine assembly,
// and exit codes.
package main

import "mcpsync/internal/cli"

func main() {
	cli.Execute()
}

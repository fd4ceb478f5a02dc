// Package main provides the lexibase CLI.
package main

import "github.com/lexibase-labs/lexibase/internal/cli"

func main() {
	cli.Execute()
}

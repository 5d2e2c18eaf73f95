// Package main provides the pursuit CLI.
package main

import "github.com/pursuit-labs/pursuit/internal/cli"

func main() {
	cli.Execute()
}

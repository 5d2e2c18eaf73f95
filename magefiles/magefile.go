//go:build mage

// Package main provides build targets for the pursuit project using Mage.
//
// Usage:
//
//	mage build            Compile the pursuit binary to bin/
//	mage test:all         Run all tests
//	mage test:unit        Run tests excluding the tests/ directory
//	mage test:cover       Run tests with a coverage summary
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install pursuit to GOPATH/bin
//	mage stats            Print Go LOC and documentation word counts
package main

// Binary names and paths.
const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "pursuit"
	binaryDir  = "bin"
	cmdDir     = "./cmd/pursuit"
)

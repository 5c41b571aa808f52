// Package main provides the entry point for the handlescan CLI.
//
// handlescan checks whether a handle (username) is registered across a
// catalog of external sites and reports a per-handle presence score.
//
// Usage:
//
//	handlescan scan <handle> [handle...]
//	handlescan scan --category social alice
//	handlescan serve
//
// See --help for all available options.
package main

// main is the entry point for handlescan.
func main() {
	Execute()
}

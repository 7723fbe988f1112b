// Package main provides the entry point for the RealReach CLI.
//
// RealReach scores the followers of a social media account and flags the
// ones that look fake or inactive.
//
// Usage:
//
//	realreach login twitter
//	realreach analyze
//	realreach results <session-id> --max 49
//	realreach serve
//
// See --help for all available options.
package main

// main is the entry point for RealReach.
func main() {
	Execute()
}

// Package main provides the entry point for the linkscout CLI.
//
// Linkscout crawls a website and inventories every link that points away from
// it, recording which page each outbound link was found on. The result helps
// site owners audit their outbound references for dead, moved, or unwanted
// destinations.
//
// Usage:
//
//	linkscout crawl https://example.com
//	linkscout export --seed https://example.com
//
// See --help for all available options.
package main

// main is the entry point for linkscout.
func main() {
	Execute()
}

// Package main provides the schedviz CLI entry point.
//
// schedviz is the presentation layer for a CPU scheduling simulator. It
// sends a process workload to a scheduling service over HTTP and renders
// the returned schedule as a Gantt timeline with metrics, or compares
// several algorithms side by side, on the command line, in a terminal UI
// or in a browser.
package main

func main() {
	Execute()
}

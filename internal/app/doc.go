// Package app contains the demo binary's application logic: it wires the
// CLI's parsed Config into one of the named scheduler scenarios from
// spec.md §8, runs it to completion, and exposes its post-mortem Debrief
// over an HTTP status endpoint. It is decoupled from any specific
// entrypoint like a CLI or server, the way the teacher's own internal/app
// separates application logic from cmd/cli.
package app

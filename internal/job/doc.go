// Package job defines the Runnable unit of work scheduled by package
// scheduler: a labeled, cooperatively-cancellable computation with a
// monotone lifecycle state and a slot for its eventual outcome.
package job

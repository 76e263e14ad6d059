// Package scheduler implements the runtime engine described in spec.md
// §4.4: it admits a requirement graph of job.Runnables, advances the ready
// set under an optional concurrency window, enforces an optional global
// deadline, drives termination on success, critical failure, timeout, or
// cancellation, and tears every job down deterministically before
// returning.
//
// Scheduler is the pure, non-nestable engine. NestedScheduler composes a
// *Scheduler with the fields a job.Runnable needs, so a scheduler can be
// embedded as one job inside an outer scheduler (spec.md §4.5) — the Go
// answer to the original asynciojobs library's Scheduler(PureScheduler,
// AbstractJob) multiple-inheritance mixin.
package scheduler

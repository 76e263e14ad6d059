// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. It is designed for scenarios where
// the graph topology can fit comfortably in memory and does not require
// persistent storage — the only scenario this repository supports, per
// spec.md's no-persistence Non-goal.
package inmemorytopology

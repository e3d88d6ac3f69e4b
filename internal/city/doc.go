// Package city runs the scripted smart city walkthrough.
//
// Scenario.Run builds every city component, drives it through a fixed
// sequence and narrates each step. Export sinks, lifecycle observers and
// the community store are injected through Deps so the same run can stay
// process-local or feed the journal and message brokers.
package city

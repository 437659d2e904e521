// Package timeouts defines shared timeout constants used across the
// service. Centralizing these values prevents drift between layers and
// makes the durations discoverable.
package timeouts

import "time"

// MoveCommit caps the total time spent retrying an optimistic move
// commit before the request is abandoned.
const MoveCommit = 2 * time.Second

// ReminderDispatch caps a single reminder delivery attempt.
const ReminderDispatch = 5 * time.Second

// Shutdown limits how long the server waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second

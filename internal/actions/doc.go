// Package actions implements the agent's closed set of side-effecting
// leaves: power transitions, media keys, volume and brightness control,
// process and service lifecycle, and hotkey injection. Every executor in
// this package is Windows-only and never retries; retry policy belongs to
// the MQTT session, not here.
//
// The package is Windows-only because the agent itself only runs on
// Windows; no portable stub is provided for other platforms since there
// is no non-Windows target for this agent.
package actions

import "time"

// CaptureTimeout bounds how long an output-capturing spawn waits for the
// child to exit before abandoning (not killing) it.
const CaptureTimeout = 15 * time.Second

// CaptureCap bounds how many bytes of stdout/stderr are retained per
// stream from a captured child process.
const CaptureCap = 8 * 1024

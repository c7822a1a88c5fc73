// Package ad defines the ad history event record and its validity rules.
//
// An Event is one logged interaction with a rendered ad (a placement):
// served, viewed, clicked, dismissed and so on. The same placement id
// recurs once per confirmation fired for that placement.
//
// This package contains types and pure functions only. It imports nothing
// internal so that every other package can depend on it.
//
// Key constraints:
//   - Events are append-only; nothing here mutates a stored record
//   - An invalid event is never persisted nor returned by a read
//   - All JSON tags use snake_case
package ad

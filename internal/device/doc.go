// Package device implements the transactional configuration lifecycle for a
// FortiOS-style appliance reached over an interactive command channel.
//
// A Session owns one command channel exclusively and tracks three
// configuration states:
//   - live: the device's actual configuration, only ever replaced wholesale
//     from a fresh device read
//   - candidate: the desired target configuration, mutated only by explicit
//     loads
//   - snapshot: the pre-change configuration captured at the start of a
//     commit, the fixed point rollback restores to
//
// Commit computes the command diff between live and candidate, pushes it as
// a framed batch ("execute batch start" ... "execute batch end"), reads the
// per-command result log back ("execute batch lastlog"), retries known
// transient failure codes a bounded number of times, and rolls back to the
// snapshot when the commit cannot be made to succeed. The device offers no
// atomic transaction primitive; atomicity is approximated through batching
// plus rollback.
//
// Sessions are single-threaded: one command in flight at a time, no internal
// locking. To manage many devices, run one independent Session per device.
package device

// Package database persists analysis sessions and the logged in user.
//
// Three stores implement the same Store and UserStore interfaces:
//   - SQLiteStore keeps everything in a single realreach.db file under the
//     XDG data directory. It is the default for the CLI.
//   - RedisStore keeps sessions in Redis so several processes can share them.
//   - MemoryStore keeps sessions in process memory and is used by tests and
//     by "realreach serve --memory".
//
// Sessions are stored as JSON documents. Every store recomputes the derived
// aggregates when a session is written or read and validates it on the way
// out, so a hand-edited or stale record can never report counters that
// disagree with its results.
//
// SQLite is accessed through modernc.org/sqlite, which is CGO-free and keeps
// cross-compilation simple.
package database

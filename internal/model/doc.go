// Package model defines the core data structures used throughout RealReach.
//
// This package contains the following main types:
//   - Follower: A single follower account as reported by a follower source
//   - FollowerIssue: One heuristic finding that lowered a follower's score
//   - AnalysisResult: A scored follower plus the user's marks on it
//   - AnalysisSession: A batch of results with aggregate counters
//   - User: The logged in account whose followers are analyzed
//
// Models live in their own package because the scoring, filter, storage
// and report packages all need them.
//
// The models are serializable to JSON for storage and for the HTTP API.
package model

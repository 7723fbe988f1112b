// Package analysis is the application layer of RealReach.
//
// Service ties the logged in user, the follower source, the scoring
// pipeline and the session store together. The CLI and the HTTP server are
// thin adapters over its operations.
package analysis

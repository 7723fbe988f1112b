// Package filter narrows and orders the results of an analysis session.
//
// Apply runs a fixed pipeline: score range, issue tags (any match),
// marked status, hidden flag, then a stable sort. It never mutates its
// input and returns a new slice.
package filter

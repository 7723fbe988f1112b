// Package scoring computes the realness score of a follower.
//
// The score starts at 100 and every heuristic rule that matches subtracts a
// fixed deduction. Rules are independent and additive; the result is
// clamped at 0. The issue list explains every deduction.
//
// Scoring is a pure function of the follower and an explicit reference
// time, so results are reproducible and safe to compute concurrently.
package scoring

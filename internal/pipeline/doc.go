// Package pipeline runs an analysis as a sequence of steps.
//
// An analysis fetches the followers of a user, scores each of them and
// summarizes the scores. Each stage is a Step that receives the shared Run
// and fills in its part. Scoring is the only expensive stage and fans out
// over followers with errgroup, bounded by a concurrency limit.
//
// Steps are executed in order and the context is checked between steps, so
// a cancelled analysis stops at the next step boundary. The scoring stage
// additionally stops scheduling followers once the context is done.
package pipeline

// Package output renders commit sequences for display or machine consumption.
//
// Two formats are supported:
//   - text: git-log style records, written as each commit arrives (default)
//   - json: one document holding the result code and every commit
//
// Use [NewWriter] to obtain a [Writer] for a format string, feed it commits
// with [Writer.Commit], then call [Writer.Finish] with the run's outcome.
// [Open] selects the destination for the --out flag.
package output

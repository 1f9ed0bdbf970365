// Package gitlog resolves a parsed revision range against a repository and
// emits the commits it covers.
//
// The repository itself is reached through the [Host] and [Repository]
// interfaces; [Emitter.Emit] performs the precondition checks, resolves both
// boundaries, selects a traversal mode and streams [CommitRecord] values to
// a [Sink]. Failures are reported as [*Error] values carrying a stable
// [Code].
//
// Inclusion rule: the lower boundary ("from") is exclusive and the upper
// boundary ("to") is inclusive. The "to" commit is always the first record.
package gitlog

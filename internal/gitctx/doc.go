// Package gitctx serves repositories from a base directory using go-git.
//
// A [Host] lists and opens the repositories below its root, the way a code
// review server exposes its git base path: bare repositories named
// "name.git" are listed as "name", working-tree repositories by their
// relative path. An opened [Repo] resolves references (including
// abbreviated ids, which are checked for ambiguity first), materialises
// commits, and walks ancestry newest-first with a lazy iterator.
//
// Both types satisfy the collaborator interfaces of package gitlog.
package gitctx

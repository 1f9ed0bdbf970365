// Gitlog lists the commits of a revision range in a hosted repository.
//
// A range is a single reference, which selects that commit alone, or
// FROM..TO, which selects TO and its ancestors that are not reachable from
// FROM. Output is git-log style text or a single JSON document, and the exit
// status is the stable result code of the request.
//
// Usage:
//
//	gitlog log --project tools/api v1.2..v1.3      # commits after v1.2 up to v1.3
//	gitlog log --project tools/api --from v1.2 --to HEAD --format json
//	gitlog log --project tools/api -n 20 main      # main alone
//	gitlog projects                                # list repositories
//	gitlog config set reposDir /srv/git
package main

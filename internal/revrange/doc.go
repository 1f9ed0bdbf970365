// Package revrange parses revision-range expressions.
//
// Two shapes are accepted: a single reference ("HEAD~2", "a1b2c3d",
// "refs/heads/main") and a two-sided range "from..to". Anything else
// (whitespace, control characters, a dangling or repeated ".." separator)
// is rejected by returning the zero [Range]. Parsing never touches a
// repository and never fails with an error.
package revrange

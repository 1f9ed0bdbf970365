// Package redact scrubs commit records before they are written.
//
// Secret detection uses regex heuristics covering common secret shapes: API
// keys, JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, and provider-specific tokens (GitHub, Slack, OpenAI-style keys).
// Authors' e-mail addresses can be masked independently. A [Policy] wraps a
// [gitlog.Sink] so redaction happens on the way to the output writer.
package redact

// Package config loads and merges gitlog configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GITLOG_REPOS_DIR, GITLOG_FORMAT, GITLOG_MAX_COMMITS, etc.)
//  3. Config file ($XDG_CONFIG_HOME/gitlog/config.toml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file,
// and [SetField] to update a single key.
package config

// Package cli builds the lintfmt root command: it loads layered configuration
// (embedded defaults, config file, LINTFMT_* environment), creates the zap
// logger and delegates to the lint command.
package cli

// Package cli builds the spur command line: flag definitions, the cobra
// root command and viper-backed configuration.
package cli

// Package cli constructs the commitcounter command-line interface, wiring the
// Cobra root command to the commit aggregator, the Viper configuration loader,
// and the zap logger.
package cli

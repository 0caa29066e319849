// Package cli constructs the gitfixture command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging.
package cli

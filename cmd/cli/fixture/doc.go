// Package fixture provides the Cobra commands that build fixture repositories,
// rewrite their origin remotes, run step scripts, and describe the resulting layout.
package fixture

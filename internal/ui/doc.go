// Package ui renders command lifecycle events as concise console messages so
// fixture construction stays readable when console logging is selected.
package ui

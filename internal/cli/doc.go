// Package cli implements the wheelsim commands behind the cobra front-end.
package cli

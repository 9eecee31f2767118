// Package executors provides the built-in node executors: data sources,
// text-processing stages, image stages, and the terminal output sink.
// Register wires all of them into an executor registry; applications may
// register additional types alongside.
package executors

// Package changers provides the concrete StateChanger implementations
// that ship with devrig and the registry the CLI resolves them from.
package changers

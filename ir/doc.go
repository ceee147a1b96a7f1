// Package ir holds the in-memory document model shared by the scanner,
// encoder, path resolver and patch engine.
package ir

// Package tests fetches the external test data the test suites rely on:
// the nes-test-roms collection and the SingleStepTests 6502 vectors.
//
// The rom collection is downloaded on first use. The per-opcode vectors
// are large, fetch them explicitly with:
//
//	go generate ./tests
package tests

//go:generate go run ./gen

package tests

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// Dir returns the absolute path of this package directory.
func Dir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Dir(b)
}

// RomsPath returns the path of the nes-test-roms directory, downloading
// the collection first if necessary.
func RomsPath(tb testing.TB) string {
	return sync.OnceValue(func() string {
		testsDir := Dir()
		romsDir := filepath.Join(testsDir, "nes-test-roms")

		if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
			tb.Log("nes-test-roms directory not found, downloading it...")
			if err := DownloadTestRoms(testsDir); err != nil {
				tb.Fatalf("failed to download test roms: %s", err)
			}
			tb.Log("Test roms downloaded in", romsDir)
		}

		return romsDir
	})()
}

// CPUVectorsPath is where `go generate ./tests` places the per-opcode
// 6502 test vectors, inside the cpu package testdata.
func CPUVectorsPath() string {
	return filepath.Join(Dir(), "..", "cpu", "testdata", "nes6502", "v1")
}

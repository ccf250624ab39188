// Command gen downloads the 6502 per-opcode test vectors into the cpu
// package testdata. Invoked by go generate ./tests.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"nespump/tests"
)

func main() {
	// go generate runs us with the package directory as cwd.
	wd, err := os.Getwd()
	if err != nil {
		fatalf("getwd: %s", err)
	}

	dest := filepath.Join(wd, "..", "cpu", "testdata", "nes6502", "v1")
	if _, err := os.Stat(dest); err == nil {
		fmt.Println("cpu test vectors already present in", dest)
		return
	}

	fmt.Println("downloading cpu test vectors to", dest)
	if err := tests.DownloadCPUVectors(dest); err != nil {
		fatalf("download failed: %s", err)
	}
	fmt.Println("done")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package main

import (
	"testing"
	"unsafe"

	"nespump/emu/hwio"
)

func tcheck(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}

// memToString reads the zero-terminated string at addr.
func memToString(t *hwio.Table, addr uint16) string {
	data := t.FetchPointer(addr)
	i := 0
	for data[i] != 0 {
		i++
	}
	return unsafe.String(&data[0], i)
}

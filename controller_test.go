package main

import (
	"testing"

	"nespump/emu/hwio"
)

func TestControllerProtocol(t *testing.T) {
	bus := hwio.NewTable("cpu")
	pads := &StdControllerPair{Pad1Connected: true, Pad2Connected: true}
	pads.MapInto(bus)

	// Pad 1 holds A, Start and Right. Pad 2 holds B.
	pads.SetState(1<<PadA|1<<PadStart|1<<PadRight, 1<<PadB)

	// Strobe high then low to latch.
	bus.Write8(0x4016, 1)
	bus.Write8(0x4016, 0)

	want1 := []uint8{1, 0, 0, 1, 0, 0, 0, 1} // A B Select Start Up Down Left Right
	want2 := []uint8{0, 1, 0, 0, 0, 0, 0, 0}
	for i := range want1 {
		if got := bus.Read8(0x4016); got != want1[i] {
			t.Errorf("pad1 read %d = %d, want %d", i, got, want1[i])
		}
		if got := bus.Read8(0x4017); got != want2[i] {
			t.Errorf("pad2 read %d = %d, want %d", i, got, want2[i])
		}
	}

	// Exhausted shift registers read 1.
	for i := 0; i < 3; i++ {
		if got := bus.Read8(0x4016); got != 1 {
			t.Errorf("exhausted pad1 read = %d, want 1", got)
		}
	}
}

func TestControllerStrobeHigh(t *testing.T) {
	bus := hwio.NewTable("cpu")
	pads := &StdControllerPair{Pad1Connected: true}
	pads.MapInto(bus)

	pads.SetState(1<<PadA, 0)
	bus.Write8(0x4016, 1)

	// While the strobe is high, reads return the live A button.
	for i := 0; i < 4; i++ {
		if got := bus.Read8(0x4016); got != 1 {
			t.Errorf("strobed read = %d, want 1", got)
		}
	}
	pads.SetState(0, 0)
	if got := bus.Read8(0x4016); got != 0 {
		t.Errorf("strobed read = %d, want 0", got)
	}
}

func TestControllerDisconnected(t *testing.T) {
	bus := hwio.NewTable("cpu")
	pads := &StdControllerPair{Pad1Connected: true} // pad 2 not connected
	pads.MapInto(bus)

	pads.SetState(0, 1<<PadA)
	bus.Write8(0x4016, 1)
	bus.Write8(0x4016, 0)

	if got := bus.Read8(0x4017); got != 0 {
		t.Errorf("disconnected pad read = %d, want 0", got)
	}
}

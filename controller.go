package main

import (
	"sync/atomic"

	"nespump/emu/hwio"
	"nespump/emu/log"
)

type StdPadButton byte

const (
	PadA StdPadButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight
)

// StdControllerPair emulates the two standard controller ports at
// $4016/$4017. Writing 1 then 0 to $4016 latches the current state of both
// pads into shift registers; each subsequent read returns one button bit,
// then 1s once the register is exhausted.
type StdControllerPair struct {
	Pad1Connected bool
	Pad2Connected bool

	// Current buttons held, low byte pad 1, high byte pad 2. Updated from
	// the ui thread, read from the emulation loop.
	state atomic.Uint32

	strobe bool
	shift1 uint16
	shift2 uint16

	JOY1 hwio.Reg8
	JOY2 hwio.Reg8
}

func (c *StdControllerPair) MapInto(bus *hwio.Table) {
	c.JOY1 = hwio.Reg8{Name: "JOY1", ReadCb: c.readJOY1, WriteCb: c.writeJOY1}
	c.JOY2 = hwio.Reg8{Name: "JOY2", ReadCb: c.readJOY2}
	bus.MapReg8(0x4016, &c.JOY1)
	bus.MapReg8(0x4017, &c.JOY2)
}

// SetState updates the buttons currently held on both pads.
func (c *StdControllerPair) SetState(pad1, pad2 uint8) {
	v := uint32(pad1) | uint32(pad2)<<8
	if c.state.Swap(v) != v {
		log.ModInput.DebugZ("input state update").
			Hex8("pad1", pad1).
			Hex8("pad2", pad2).
			End()
	}
}

func (c *StdControllerPair) latch() {
	cur := c.state.Load()
	// Unread bits past the 8th read back as 1.
	c.shift1 = 0xFF00 | uint16(cur&0xFF)
	c.shift2 = 0xFF00 | uint16(cur>>8)
	if !c.Pad1Connected {
		c.shift1 = 0xFF00
	}
	if !c.Pad2Connected {
		c.shift2 = 0xFF00
	}
}

func (c *StdControllerPair) writeJOY1(_, val uint8) {
	strobe := val&1 != 0
	if c.strobe && !strobe {
		c.latch()
	}
	c.strobe = strobe
}

func (c *StdControllerPair) readJOY1(_ uint8) uint8 {
	if c.strobe {
		// While the strobe is high, reads return the live A button.
		return uint8(c.state.Load() & 1)
	}
	bit := uint8(c.shift1 & 1)
	c.shift1 = 0x8000 | c.shift1>>1
	return bit
}

func (c *StdControllerPair) readJOY2(_ uint8) uint8 {
	if c.strobe {
		return uint8((c.state.Load() >> 8) & 1)
	}
	bit := uint8(c.shift2 & 1)
	c.shift2 = 0x8000 | c.shift2>>1
	return bit
}

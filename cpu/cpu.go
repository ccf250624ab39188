package cpu

import (
	"nespump/emu/hwio"
	"nespump/emu/log"
)

// Locations reserved for vector pointers.
const (
	NMIvector   = 0xFFFA // Non-Maskable Interrupt
	ResetVector = 0xFFFC // Reset
	IRQvector   = 0xFFFE // Interrupt Request
)

// A Ticker is called once per PPU dot. The CPU calls it 3 times per CPU
// cycle.
type Ticker interface {
	Tick()
}

type CPU struct {
	Bus *hwio.Table

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Clock int64 // cycles

	t Ticker

	nmiPending bool
	irqPending bool
}

// New creates a CPU at power-up state, connected to the given bus.
func New(bus *hwio.Table, t Ticker) *CPU {
	return &CPU{
		Bus: bus,
		A:   0x00,
		X:   0x00,
		Y:   0x00,
		SP:  0xFD,
		P:   0x00,
		PC:  0x0000,
		t:   t,
	}
}

func (c *CPU) Reset() {
	// The reset sequence takes 7 cycles, like an interrupt with the stack
	// writes suppressed.
	for i := 0; i < 5; i++ {
		c.tick()
	}
	c.PC = c.Read16(ResetVector)
	c.SP = 0xFD
	c.P = 0x34

	log.ModCPU.DebugZ("reset").
		Hex16("PC", c.PC).
		End()
}

// TriggerNMI requests a non-maskable interrupt, serviced before the next
// instruction fetch.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// TriggerIRQ requests a maskable interrupt. While the I flag is set the
// request stays pending and is serviced once the flag clears.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

func (c *CPU) Run(until int64) {
	// Opcode handlers advance PC themselves, PC points at the opcode for
	// the whole duration of an instruction.
	for c.Clock < until {
		c.serveInterrupts()
		opcode := c.Read8(c.PC)
		ops[opcode](c)
	}
}

func (c *CPU) serveInterrupts() {
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(NMIvector)
		return
	}
	// IRQ is level-triggered, a request raised while I is set stays
	// pending until the flag clears.
	if c.irqPending && !c.P.I() {
		c.irqPending = false
		c.interrupt(IRQvector)
	}
}

func (c *CPU) interrupt(vector uint16) {
	c.tick()
	c.tick()
	push16(c, c.PC)
	p := c.P
	p.setBit(pbitU)
	p.clearBit(pbitB)
	push8(c, uint8(p))
	c.P.writeBit(pbitI, true)
	c.PC = c.Read16(vector)
}

func (c *CPU) tick() {
	c.t.Tick()
	c.t.Tick()
	c.t.Tick()
	c.Clock++
}

// Idle burns one CPU cycle without a bus access. Used by DMA for halt and
// alignment cycles.
func (c *CPU) Idle() {
	c.tick()
}

func (c *CPU) Read8(addr uint16) uint8 {
	c.tick()
	return c.Bus.Read8(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.tick()
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) Write16(addr uint16, val uint16) {
	lo := uint8(val & 0xff)
	hi := uint8(val >> 8)
	c.Write8(addr, lo)
	c.Write8(addr+1, hi)
}

// P is the 6502 Processor Status Register.
type P uint8

const (
	pbitN = 7 - iota // Negative flag
	pbitV            // oVerflow flag
	pbitU            // Unused
	pbitB            // Break flag
	pbitD            // Decimal mode flag
	pbitI            // Interrupt disable flag
	pbitZ            // Zero flag
	pbitC            // Carry flag
)

func (p P) N() bool { return p&(1<<pbitN) != 0 }
func (p P) V() bool { return p&(1<<pbitV) != 0 }
func (p P) B() bool { return p&(1<<pbitB) != 0 }
func (p P) D() bool { return p&(1<<pbitD) != 0 }
func (p P) I() bool { return p&(1<<pbitI) != 0 }
func (p P) Z() bool { return p&(1<<pbitZ) != 0 }
func (p P) C() bool { return p&(1<<pbitC) != 0 }

func (p *P) checkNZ(v uint8) {
	p.writeBit(pbitN, v&0x80 != 0)
	p.writeBit(pbitZ, v == 0)
}

// sets Z flag if v == 0, clears it otherwise.
func (p *P) checkZ(v uint8) {
	p.writeBit(pbitZ, v == 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.writeBit(pbitC, sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.writeBit(pbitV, v != 0)
}

func (p *P) writeBit(i int, v bool) {
	if v {
		p.setBit(i)
	} else {
		p.clearBit(i)
	}
}

func (p *P) setBit(i int) {
	*p |= P(1 << i)
}

func (p *P) clearBit(i int) {
	*p &= ^(1 << i) & 0xff
}

func (p *P) ibit(i int) uint8 {
	return (uint8(*p) & (1 << i)) >> i
}

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		s[i] = bits[i+int(8*p.ibit(7-i))]
	}
	return string(s)
}

func b2i(b bool) byte {
	if b {
		return 1
	}
	return 0
}

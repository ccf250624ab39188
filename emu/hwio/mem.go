package hwio

import (
	"nespump/emu/log"
)

type MemFlags int

const (
	MemFlag8         MemFlags = (1 << iota) // 8-bit access is allowed
	MemFlag8ReadOnly                        // 8-bit accesses are read-only (requires MemFlag8)
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory area that can be mapped into a Table.
//
// The backing buffer size must be a power of two; when the virtual size is
// larger than the physical one, accesses wrap around (address mirroring).
type Mem struct {
	Name    string            // name of the memory area (for debugging)
	Data    []byte            // actual memory buffer
	VSize   int               // virtual size of the memory (can be bigger than physical size)
	Flags   MemFlags          // flags determining how the memory can be accessed
	WriteCb func(uint16, int) // optional write callback (receives full address and number of bytes written)
}

func (mem *Mem) bankIO8(base uint16) *memLinear {
	var roflag uint8
	if mem.Flags&MemFlag8ReadOnly != 0 {
		roflag = 1
		if mem.Flags&MemFlagNoROLog != 0 {
			roflag = 2
		}
	}
	return &memLinear{
		buf:  mem.Data,
		base: base,
		mask: uint16(len(mem.Data) - 1),
		wcb:  mem.WriteCb,
		ro:   roflag,
	}
}

// memLinear adapts a Mem for bus access. Mirroring is performed with a mask
// relative to the base mapping address.
type memLinear struct {
	buf  []byte
	base uint16
	mask uint16
	wcb  func(uint16, int)
	ro   uint8 // 0: read/write, 1: readonly, 2: silent readonly (no log)
}

func (m *memLinear) Read8(addr uint16) uint8 {
	return m.buf[(addr-m.base)&m.mask]
}

func (m *memLinear) Peek8(addr uint16) uint8 {
	return m.Read8(addr)
}

func (m *memLinear) Write8(addr uint16, val uint8) {
	if m.ro != 0 {
		if m.ro != 2 {
			log.ModHwIo.ErrorZ("Write8 to readonly memory").
				Hex8("val", val).
				Hex16("addr", addr).
				End()
		}
		return
	}
	m.buf[(addr-m.base)&m.mask] = val
	if m.wcb != nil {
		m.wcb(addr, 1)
	}
}

func (m *memLinear) fetchPointer(addr uint16) []uint8 {
	off := (addr - m.base) & m.mask
	return m.buf[off:]
}

package hwio

import (
	"errors"

	"nespump/emu/log"
)

// BankIO8 is an 8-bit addressable device: a linear memory area, a hardware
// register, etc.
type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	lo := uint8(val & 0xff)
	hi := uint8(val >> 8)
	b.Write8(addr, lo)
	b.Write8(addr+1, hi)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

var ErrOverlappingRange = errors.New("overlapping address range")

// A Table is a 16-bit address bus. Address ranges are mapped to the devices
// that serve them, accesses to unmapped addresses are logged and act as open
// bus (reads return 0, writes are dropped).
type Table struct {
	Name string

	devs [0x10000]BankIO8
}

func NewTable(name string) *Table {
	t := &Table{Name: name}
	t.Reset()
	return t
}

// Reset unmaps every device from the bus.
func (t *Table) Reset() {
	clear(t.devs[:])
}

// InsertRange maps io over [begin, end], both bounds included.
func (t *Table) InsertRange(begin, end uint16, io BankIO8) error {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		if t.devs[addr] != nil {
			return ErrOverlappingRange
		}
	}
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		t.devs[addr] = io
	}
	return nil
}

func (t *Table) Unmap(begin, end uint16) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		t.devs[addr] = nil
	}
}

func (t *Table) MapReg8(addr uint16, reg *Reg8) {
	if err := t.InsertRange(addr, addr, reg); err != nil {
		panic(err)
	}
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data)&(len(mem.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}

	if err := t.InsertRange(addr, addr+uint16(mem.VSize)-1, mem.bankIO8(addr)); err != nil {
		panic(err)
	}
}

func (t *Table) MapMemorySlice(addr, end uint16, mem []uint8, readonly bool) {
	log.ModHwIo.DebugZ("mapping slice").
		Hex16("addr", addr).
		Hex16("end", end).
		String("bus", t.Name).
		Bool("ro", readonly).
		End()

	flags := MemFlag8
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  mem,
		Flags: flags,
		VSize: int(end-addr) + 1,
	})
}

func (t *Table) Read8(addr uint16) uint8 {
	io := t.devs[addr]
	if io == nil {
		log.ModHwIo.ErrorZ("unmapped Read8").
			String("name", t.Name).
			Hex16("addr", addr).
			End()
		return 0
	}
	return io.Read8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.devs[addr]
	if io == nil {
		log.ModHwIo.ErrorZ("unmapped Write8").
			String("name", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	io.Write8(addr, val)
}

// Peek8 reads without triggering side effects (used by the disassembler).
func (t *Table) Peek8(addr uint16) uint8 {
	switch io := t.devs[addr].(type) {
	case nil:
		return 0
	case peeker:
		return io.Peek8(addr)
	default:
		return io.Read8(addr)
	}
}

type peeker interface {
	Peek8(addr uint16) uint8
}

// FetchPointer returns a slice aliasing the memory behind addr, up to the
// end of the mapped area, or nil if addr is not backed by linear memory.
func (t *Table) FetchPointer(addr uint16) []uint8 {
	if mem, ok := t.devs[addr].(*memLinear); ok {
		return mem.fetchPointer(addr)
	}
	return nil
}

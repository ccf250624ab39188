package hwio

import "testing"

func TestReg8Masks(t *testing.T) {
	r := Reg8{Value: 0x11, RoMask: 0xF0}

	if r.Read8(0) != 0x11 {
		t.Errorf("invalid read: %x", r.Read8(0))
	}
	if r.Read8(9999) != 0x11 {
		t.Errorf("invalid read with offset: %x", r.Read8(9999))
	}

	r.Write8(0, 0x77)
	if r.Value != 0x17 {
		t.Errorf("writemask not respected: %x", r.Value)
	}
	r.Write8(9999, 0x88)
	if r.Value != 0x18 {
		t.Errorf("writemask with offset not respected: %x", r.Value)
	}
}

func TestReg8Callbacks(t *testing.T) {
	var gotOld, gotNew uint8
	r := Reg8{
		Value:   0x40,
		ReadCb:  func(val uint8) uint8 { return val | 0x80 },
		WriteCb: func(old, val uint8) { gotOld, gotNew = old, val },
	}

	if v := r.Read8(0); v != 0xC0 {
		t.Errorf("read callback not applied: %x", v)
	}
	if v := r.Peek8(0); v != 0x40 {
		t.Errorf("peek went through callback: %x", v)
	}

	r.Write8(0, 0x12)
	if gotOld != 0x40 || gotNew != 0x12 {
		t.Errorf("write callback args: old=%x new=%x", gotOld, gotNew)
	}
}

func TestMemMirroring(t *testing.T) {
	mem := Mem{Data: make([]byte, 0x800), VSize: 0x2000}

	tbl := NewTable("test")
	tbl.MapMem(0x0000, &mem)

	tbl.Write8(0x0123, 0xAB)
	for _, addr := range []uint16{0x0123, 0x0923, 0x1123, 0x1923} {
		if v := tbl.Read8(addr); v != 0xAB {
			t.Errorf("mirror at %04x: %x", addr, v)
		}
	}
}

func TestMemReadonly(t *testing.T) {
	mem := Mem{Data: make([]byte, 0x100), VSize: 0x100, Flags: MemFlag8ReadOnly | MemFlagNoROLog}

	tbl := NewTable("test")
	tbl.MapMem(0x8000, &mem)

	tbl.Write8(0x8010, 0xFF)
	if v := tbl.Read8(0x8010); v != 0 {
		t.Errorf("write to readonly went through: %x", v)
	}
}

func TestTableOverlap(t *testing.T) {
	var r1, r2 Reg8

	tbl := NewTable("test")
	if err := tbl.InsertRange(0x0000, 0x00FF, &r1); err != nil {
		t.Fatal(err)
	}
	if err := tbl.InsertRange(0x0080, 0x017F, &r2); err != ErrOverlappingRange {
		t.Errorf("overlap not detected: %v", err)
	}
}

func TestTableUnmapped(t *testing.T) {
	tbl := NewTable("test")
	if v := tbl.Read8(0x1234); v != 0 {
		t.Errorf("unmapped read: %x", v)
	}
}

func TestTableUnmapRemap(t *testing.T) {
	r1 := Reg8{Value: 0x11}
	r2 := Reg8{Value: 0x22}

	tbl := NewTable("test")
	tbl.MapReg8(0x4000, &r1)

	tbl.Unmap(0x4000, 0x4000)
	if v := tbl.Read8(0x4000); v != 0 {
		t.Errorf("read after unmap: %x", v)
	}

	// The freed range can be mapped again.
	tbl.MapReg8(0x4000, &r2)
	if v := tbl.Read8(0x4000); v != 0x22 {
		t.Errorf("read after remap: %x", v)
	}
}

func TestTableReset(t *testing.T) {
	mem := Mem{Data: make([]byte, 0x100), VSize: 0x100}

	tbl := NewTable("test")
	tbl.MapMem(0x0000, &mem)
	tbl.Write8(0x0042, 0x42)

	tbl.Reset()
	if v := tbl.Read8(0x0042); v != 0 {
		t.Errorf("read after reset: %x", v)
	}
	if err := tbl.InsertRange(0x0000, 0x00FF, mem.bankIO8(0x0000)); err != nil {
		t.Errorf("remap after reset: %v", err)
	}
}

func TestRead16Write16(t *testing.T) {
	mem := Mem{Data: make([]byte, 0x100), VSize: 0x100}

	tbl := NewTable("test")
	tbl.MapMem(0x0000, &mem)

	Write16(tbl, 0x0010, 0xBEEF)
	if mem.Data[0x10] != 0xEF || mem.Data[0x11] != 0xBE {
		t.Errorf("write16 not little-endian: % x", mem.Data[0x10:0x12])
	}
	if v := Read16(tbl, 0x0010); v != 0xBEEF {
		t.Errorf("read16: %04x", v)
	}
}

func TestFetchPointer(t *testing.T) {
	mem := Mem{Data: make([]byte, 0x100), VSize: 0x100}
	mem.Data[0x42] = 0x99

	tbl := NewTable("test")
	tbl.MapMem(0x4000, &mem)

	ptr := tbl.FetchPointer(0x4042)
	if ptr == nil || ptr[0] != 0x99 {
		t.Errorf("fetchpointer: %v", ptr)
	}
}

package ines

import (
	"bytes"
	"strings"
	"testing"
)

// buildRom assembles an in-memory iNES image.
func buildRom(tb testing.TB, nprg, nchr int, flags6, flags7 uint8, trainer bool) []byte {
	tb.Helper()

	hdr := make([]byte, 16)
	copy(hdr, Magic)
	hdr[4] = uint8(nprg)
	hdr[5] = uint8(nchr)
	hdr[6] = flags6
	hdr[7] = flags7

	img := hdr
	if trainer {
		img = append(img, make([]byte, 512)...)
	}
	prg := make([]byte, nprg*PRGBankSize)
	for i := range prg {
		prg[i] = uint8(i)
	}
	img = append(img, prg...)
	img = append(img, make([]byte, nchr*CHRBankSize)...)
	return img
}

func TestReadFrom(t *testing.T) {
	img := buildRom(t, 2, 1, 0x01, 0x00, false)

	var rom Rom
	n, err := rom.ReadFrom(bytes.NewReader(img))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(img)) {
		t.Errorf("read %d bytes, want %d", n, len(img))
	}
	if len(rom.PRG) != 2*PRGBankSize {
		t.Errorf("PRG size = %d, want %d", len(rom.PRG), 2*PRGBankSize)
	}
	if len(rom.CHR) != CHRBankSize {
		t.Errorf("CHR size = %d, want %d", len(rom.CHR), CHRBankSize)
	}
	if rom.Mapper() != 0 {
		t.Errorf("mapper = %d, want 0", rom.Mapper())
	}
	if rom.Mirroring() != VerticalMirroring {
		t.Errorf("mirroring = %s, want vertical", rom.Mirroring())
	}
	if rom.HasTrainer() {
		t.Error("trainer reported present")
	}
}

func TestTrainer(t *testing.T) {
	img := buildRom(t, 1, 1, 0x04, 0x00, true)

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	if len(rom.Trainer) != 512 {
		t.Errorf("trainer size = %d, want 512", len(rom.Trainer))
	}
	// PRG starts after the trainer
	if rom.PRG[0] != 0 || rom.PRG[1] != 1 {
		t.Errorf("PRG misaligned: % x", rom.PRG[:2])
	}
}

func TestMapperNibbles(t *testing.T) {
	img := buildRom(t, 1, 1, 0x40, 0x20, false)

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	if rom.Mapper() != 0x24 {
		t.Errorf("mapper = %02x, want 24", rom.Mapper())
	}
}

func TestMirroring(t *testing.T) {
	tests := []struct {
		flags6 uint8
		want   Mirroring
	}{
		{0x00, HorizontalMirroring},
		{0x01, VerticalMirroring},
		{0x08, FourScreenMirroring},
		{0x09, FourScreenMirroring},
	}
	for _, tt := range tests {
		var rom Rom
		img := buildRom(t, 1, 1, tt.flags6, 0x00, false)
		if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
			t.Fatal(err)
		}
		if got := rom.Mirroring(); got != tt.want {
			t.Errorf("flags6=%02x: mirroring = %s, want %s", tt.flags6, got, tt.want)
		}
	}
}

func TestBadImages(t *testing.T) {
	tests := []struct {
		name string
		img  []byte
	}{
		{"empty", nil},
		{"badmagic", []byte("NOPE0000000000000")},
		{"truncated-prg", buildRom(t, 2, 1, 0x00, 0x00, false)[:16+100]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rom Rom
			if _, err := rom.ReadFrom(bytes.NewReader(tt.img)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPrintInfos(t *testing.T) {
	img := buildRom(t, 2, 1, 0x01, 0x00, false)

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	rom.PrintInfos(&sb)
	out := sb.String()
	for _, want := range []string{"mapper    : 000", "vertical", "2 x 16KiB", "1 x 8KiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not mention %q:\n%s", want, out)
		}
	}
}

// Package ines implements a reader for roms in the iNES file format, used
// for the distribution of NES binary programs.
package ines

import (
	"fmt"
	"io"
	"os"
)

const Magic = "NES\x1a"

// Sizes of the PRG and CHR banks the header counts.
const (
	PRGBankSize = 16384
	CHRBankSize = 8192
)

// Mirroring is the nametable mirroring arrangement requested by the
// cartridge.
type Mirroring uint8

const (
	HorizontalMirroring Mirroring = iota
	VerticalMirroring
	FourScreenMirroring
)

func (m Mirroring) String() string {
	switch m {
	case HorizontalMirroring:
		return "horizontal"
	case VerticalMirroring:
		return "vertical"
	case FourScreenMirroring:
		return "four-screen"
	}
	return "unknown"
}

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR     []byte // CHR is CHR ROM data (length is multiples of 8k)
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return fmt.Errorf("invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * PRGBankSize
	hdr.chrsz = int(hdr.raw[5]) * CHRBankSize
	return nil
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mapper returns the mapper number, assembled from the two header nibbles.
func (hdr *header) Mapper() uint8 {
	return hdr.raw[7]&0xF0 | hdr.raw[6]>>4
}

// Mirroring returns the nametable arrangement. The four-screen bit takes
// precedence over the horizontal/vertical one.
func (hdr *header) Mirroring() Mirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreenMirroring
	case hdr.raw[6]&0x01 != 0:
		return VerticalMirroring
	default:
		return HorizontalMirroring
	}
}

// PrintInfos writes a human-readable description of the rom header to w.
func (rom *Rom) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "mapper    : %03d\n", rom.Mapper())
	fmt.Fprintf(w, "mirroring : %s\n", rom.Mirroring())
	fmt.Fprintf(w, "PRG ROM   : %d x 16KiB\n", len(rom.PRG)/PRGBankSize)
	fmt.Fprintf(w, "CHR ROM   : %d x 8KiB\n", len(rom.CHR)/CHRBankSize)
	fmt.Fprintf(w, "trainer   : %t\n", rom.HasTrainer())
	fmt.Fprintf(w, "persistent: %t\n", rom.HasPersistent())
}

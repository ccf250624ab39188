package cpu

import "testing"

func TestPString(t *testing.T) {
	tests := []struct {
		p    P
		want string
	}{
		{0x00, "nvubdizc"},
		{0xFF, "NVUBDIZC"},
		{0x34, "nvUBdIzc"},
		{0xB0, "NvUBdizc"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("P(%02X) = %q, want %q", uint8(tt.p), got, tt.want)
		}
	}
}

func TestCPx(t *testing.T) {
	t.Run("40 - 41", func(t *testing.T) {
		// LDX #$40
		// CPX #$41
		cpu := loadCPUWith(t, `0600: a2 40 e0 41`)
		cpu.Clock = 0
		cpu.PC = 0x0600
		cpu.P = 0b00110000
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x00),
			"X", uint8(0x40),
			"Y", uint8(0x00),
			"P", uint8(0b10110000),
		)
	})
	t.Run("40 - 40", func(t *testing.T) {
		// LDX #$40
		// CPX #$40
		cpu := loadCPUWith(t, `0600: a2 40 e0 40`)
		cpu.Clock = 0
		cpu.PC = 0x0600
		cpu.P = 0b00110000
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x00),
			"X", uint8(0x40),
			"Y", uint8(0x00),
			"P", uint8(0b00110011),
		)
	})
	t.Run("40 - 39", func(t *testing.T) {
		// LDX #$40
		// CPX #$39
		cpu := loadCPUWith(t, `0600: a2 40 e0 39`)
		cpu.Clock = 0
		cpu.PC = 0x0600
		cpu.P = 0b00110000
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x00),
			"X", uint8(0x40),
			"Y", uint8(0x00),
			"P", uint8(0b00110001),
		)
	})
}

func TestLDA_STA(t *testing.T) {
	dump := `0600: a9 01 8d 00 02 a9 05 8d 01 02 a9 08 8d 02 02`
	cpu := loadCPUWith(t, dump)
	cpu.Clock = 0
	cpu.PC = 0x0600
	cpu.P = 0x30
	runAndCheckState(t, cpu, 6*3,
		"A", uint8(0x08),
		"Pb", uint8(1),
		"PC", uint16(0x060F),
		"SP", uint8(0xfd),
	)
}

func TestEOR(t *testing.T) {
	t.Run("zeropage", func(t *testing.T) {
		dump := `
0000: 06
0100: 45 00`
		cpu := loadCPUWith(t, dump)
		cpu.Clock = 0
		cpu.PC = 0x0100
		cpu.A = 0x80
		runAndCheckState(t, cpu, 3,
			"A", uint8(0x86),
			"Pn", uint8(1),
			"Pz", uint8(0),
		)
	})
}

func TestROR(t *testing.T) {
	t.Run("zeropage", func(t *testing.T) {
		dump := `
0000: 55
0100: 66 00
# reset vector
FFFC: 00 01`
		cpu := loadCPUWith(t, dump)
		cpu.Clock = 0
		cpu.A = 0x80
		cpu.P.writeBit(pbitC, true)
		runAndCheckState(t, cpu, 5,
			"Pn", uint8(1),
			"Pc", uint8(1),
			"Pz", uint8(0),
		)
		wantMem8(t, cpu, 0x0000, 0xAA)
	})
}

func TestStack(t *testing.T) {
	dump := `
# upper stack
01E0: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
01F0: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
# ram
0200: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
0210: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
# instructions
0600: a2 00 a0 00 8a 99 00 02 48 e8 c8 c0 10 d0 f5 68
0610: 99 00 02 c8 c0 20 d0 f7
# reset vector
FFFC: 00 06
`
	cpu := loadCPUWith(t, dump)
	cpu.Clock = 0
	cpu.P = 0x30
	cpu.SP = 0xFF
	runAndCheckState(t, cpu, 562,
		"PC", uint16(0x0618),
		"A", uint8(0x00),
		"X", uint8(0x10),
		"Y", uint8(0x20),
		"SP", uint8(0xFF),
		"mem", `
01f0: 0f 0e 0d 0c 0b 0a 09 08 07 06 05 04 03 02 01 00
0200: 00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f
0210: 0f 0e 0d 0c 0b 0a 09 08 07 06 05 04 03 02 01 00`,
	)
}

func TestJSR_RTS(t *testing.T) {
	dump := `
# upper stack
01F0: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
# JSR $0620
# LDA #$FF
0600: 20 20 06 A9 FF
# LDA #$88
# RTS
0620: A9 88 60`
	cpu := loadCPUWith(t, dump)
	cpu.Clock = 0
	cpu.PC = 0x0600
	cpu.P = 0x30
	runAndCheckState(t, cpu, 6, "PC", uint16(0x0620))
	runAndCheckState(t, cpu, 6+2, "A", uint8(0x88))
	runAndCheckState(t, cpu, 6+2+6, "PC", uint16(0x0603))
	runAndCheckState(t, cpu, 6+2+6+2, "A", uint8(0xFF))
}

func TestNMI(t *testing.T) {
	dump := `
# upper stack
01F0: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
# main: LDA #$01, then spin
0600: a9 01 4c 02 06
# handler: LDA #$42
0700: a9 42
# nmi vector
FFFA: 00 07`
	cpu := loadCPUWith(t, dump)
	cpu.Clock = 0
	cpu.PC = 0x0600
	cpu.P = 0x24

	// LDA (2) + one JMP loop (3)
	runAndCheckState(t, cpu, 5, "A", uint8(0x01))

	cpu.TriggerNMI()
	// interrupt sequence (7) + handler LDA (2)
	runAndCheckState(t, cpu, 5+7+2,
		"A", uint8(0x42),
		"PC", uint16(0x0702),
		"SP", uint8(0xFA),
	)
}

func TestIRQMasked(t *testing.T) {
	dump := `
0600: a9 01 4c 02 06
0700: a9 42
FFFE: 00 07`
	cpu := loadCPUWith(t, dump)
	cpu.Clock = 0
	cpu.PC = 0x0600
	cpu.P = 0x24 // I flag set

	cpu.TriggerIRQ()
	runAndCheckState(t, cpu, 5, "A", uint8(0x01), "SP", uint8(0xFD))
}

func TestIRQPendingWhileMasked(t *testing.T) {
	dump := `
01F0: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
# main: LDA #$01, CLI, then spin
0600: a9 01 58 4c 03 06
# handler: LDA #$42
0700: a9 42
FFFE: 00 07`
	cpu := loadCPUWith(t, dump)
	cpu.Clock = 0
	cpu.PC = 0x0600
	cpu.P = 0x24 // I flag set

	// The request stays pending across the masked LDA and is serviced
	// as soon as CLI drops the flag.
	cpu.TriggerIRQ()
	runAndCheckState(t, cpu, 2, "A", uint8(0x01), "SP", uint8(0xFD))
	// CLI (2) + interrupt sequence (7) + handler LDA (2)
	runAndCheckState(t, cpu, 2+2+7+2,
		"A", uint8(0x42),
		"PC", uint16(0x0702),
		"SP", uint8(0xFA),
	)
}

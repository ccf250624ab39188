package cpu

// The opcode table combines an addressing mode factory (r_: read, m_: read
// modify write, w_: store) with the instruction kernel. Kernels never tick
// the clock themselves, cycle accounting lives in the factories.
var ops = [256]func(cpu *CPU){
	0x00: BRK,
	0x01: r_izx(ora),
	0x02: JAM,
	0x03: m_izx(slo),
	0x04: r_zp(nopr),
	0x05: r_zp(ora),
	0x06: m_zp(asl),
	0x07: m_zp(slo),
	0x08: PHP,
	0x09: r_imm(ora),
	0x0A: m_acc(asl),
	0x0B: ANC,
	0x0C: r_abs(nopr),
	0x0D: r_abs(ora),
	0x0E: m_abs(asl),
	0x0F: m_abs(slo),
	0x10: BPL,
	0x11: r_izy(ora),
	0x12: JAM,
	0x13: m_izy(slo),
	0x14: r_zpx(nopr),
	0x15: r_zpx(ora),
	0x16: m_zpx(asl),
	0x17: m_zpx(slo),
	0x18: CLC,
	0x19: r_aby(ora),
	0x1A: NOPimp,
	0x1B: m_aby(slo),
	0x1C: r_abx(nopr),
	0x1D: r_abx(ora),
	0x1E: m_abx(asl),
	0x1F: m_abx(slo),
	0x20: JSR,
	0x21: r_izx(and),
	0x22: JAM,
	0x23: m_izx(rla),
	0x24: r_zp(bit),
	0x25: r_zp(and),
	0x26: m_zp(rol),
	0x27: m_zp(rla),
	0x28: PLP,
	0x29: r_imm(and),
	0x2A: m_acc(rol),
	0x2B: ANC,
	0x2C: r_abs(bit),
	0x2D: r_abs(and),
	0x2E: m_abs(rol),
	0x2F: m_abs(rla),
	0x30: BMI,
	0x31: r_izy(and),
	0x32: JAM,
	0x33: m_izy(rla),
	0x34: r_zpx(nopr),
	0x35: r_zpx(and),
	0x36: m_zpx(rol),
	0x37: m_zpx(rla),
	0x38: SEC,
	0x39: r_aby(and),
	0x3A: NOPimp,
	0x3B: m_aby(rla),
	0x3C: r_abx(nopr),
	0x3D: r_abx(and),
	0x3E: m_abx(rol),
	0x3F: m_abx(rla),
	0x40: RTI,
	0x41: r_izx(eor),
	0x42: JAM,
	0x43: m_izx(sre),
	0x44: r_zp(nopr),
	0x45: r_zp(eor),
	0x46: m_zp(lsr),
	0x47: m_zp(sre),
	0x48: PHA,
	0x49: r_imm(eor),
	0x4A: m_acc(lsr),
	0x4B: r_imm(alr),
	0x4C: JMPabs,
	0x4D: r_abs(eor),
	0x4E: m_abs(lsr),
	0x4F: m_abs(sre),
	0x50: BVC,
	0x51: r_izy(eor),
	0x52: JAM,
	0x53: m_izy(sre),
	0x54: r_zpx(nopr),
	0x55: r_zpx(eor),
	0x56: m_zpx(lsr),
	0x57: m_zpx(sre),
	0x58: CLI,
	0x59: r_aby(eor),
	0x5A: NOPimp,
	0x5B: m_aby(sre),
	0x5C: r_abx(nopr),
	0x5D: r_abx(eor),
	0x5E: m_abx(lsr),
	0x5F: m_abx(sre),
	0x60: RTS,
	0x61: r_izx(adc),
	0x62: JAM,
	0x63: m_izx(rra),
	0x64: r_zp(nopr),
	0x65: r_zp(adc),
	0x66: m_zp(ror),
	0x67: m_zp(rra),
	0x68: PLA,
	0x69: r_imm(adc),
	0x6A: m_acc(ror),
	0x6B: r_imm(arr),
	0x6C: JMPind,
	0x6D: r_abs(adc),
	0x6E: m_abs(ror),
	0x6F: m_abs(rra),
	0x70: BVS,
	0x71: r_izy(adc),
	0x72: JAM,
	0x73: m_izy(rra),
	0x74: r_zpx(nopr),
	0x75: r_zpx(adc),
	0x76: m_zpx(ror),
	0x77: m_zpx(rra),
	0x78: SEI,
	0x79: r_aby(adc),
	0x7A: NOPimp,
	0x7B: m_aby(rra),
	0x7C: r_abx(nopr),
	0x7D: r_abx(adc),
	0x7E: m_abx(ror),
	0x7F: m_abx(rra),
	0x80: r_imm(nopr),
	0x81: w_izx(acc),
	0x82: r_imm(nopr),
	0x83: w_izx(anx),
	0x84: w_zp(yreg),
	0x85: w_zp(acc),
	0x86: w_zp(xreg),
	0x87: w_zp(anx),
	0x88: DEY,
	0x89: r_imm(nopr),
	0x8A: TXA,
	0x8B: r_imm(ane),
	0x8C: w_abs(yreg),
	0x8D: w_abs(acc),
	0x8E: w_abs(xreg),
	0x8F: w_abs(anx),
	0x90: BCC,
	0x91: w_izy(acc),
	0x92: JAM,
	0x93: SHAizy,
	0x94: w_zpx(yreg),
	0x95: w_zpx(acc),
	0x96: w_zpy(xreg),
	0x97: w_zpy(anx),
	0x98: TYA,
	0x99: w_aby(acc),
	0x9A: TXS,
	0x9B: TAS,
	0x9C: SHY,
	0x9D: w_abx(acc),
	0x9E: SHX,
	0x9F: SHAaby,
	0xA0: r_imm(ldy),
	0xA1: r_izx(lda),
	0xA2: r_imm(ldx),
	0xA3: r_izx(lax),
	0xA4: r_zp(ldy),
	0xA5: r_zp(lda),
	0xA6: r_zp(ldx),
	0xA7: r_zp(lax),
	0xA8: TAY,
	0xA9: r_imm(lda),
	0xAA: TAX,
	0xAB: r_imm(lxa),
	0xAC: r_abs(ldy),
	0xAD: r_abs(lda),
	0xAE: r_abs(ldx),
	0xAF: r_abs(lax),
	0xB0: BCS,
	0xB1: r_izy(lda),
	0xB2: JAM,
	0xB3: r_izy(lax),
	0xB4: r_zpx(ldy),
	0xB5: r_zpx(lda),
	0xB6: r_zpy(ldx),
	0xB7: r_zpy(lax),
	0xB8: CLV,
	0xB9: r_aby(lda),
	0xBA: TSX,
	0xBB: r_aby(las),
	0xBC: r_abx(ldy),
	0xBD: r_abx(lda),
	0xBE: r_aby(ldx),
	0xBF: r_aby(lax),
	0xC0: r_imm(cpy),
	0xC1: r_izx(cmp_),
	0xC2: r_imm(nopr),
	0xC3: m_izx(dcp),
	0xC4: r_zp(cpy),
	0xC5: r_zp(cmp_),
	0xC6: m_zp(dec),
	0xC7: m_zp(dcp),
	0xC8: INY,
	0xC9: r_imm(cmp_),
	0xCA: DEX,
	0xCB: r_imm(sbx),
	0xCC: r_abs(cpy),
	0xCD: r_abs(cmp_),
	0xCE: m_abs(dec),
	0xCF: m_abs(dcp),
	0xD0: BNE,
	0xD1: r_izy(cmp_),
	0xD2: JAM,
	0xD3: m_izy(dcp),
	0xD4: r_zpx(nopr),
	0xD5: r_zpx(cmp_),
	0xD6: m_zpx(dec),
	0xD7: m_zpx(dcp),
	0xD8: CLD,
	0xD9: r_aby(cmp_),
	0xDA: NOPimp,
	0xDB: m_aby(dcp),
	0xDC: r_abx(nopr),
	0xDD: r_abx(cmp_),
	0xDE: m_abx(dec),
	0xDF: m_abx(dcp),
	0xE0: r_imm(cpx),
	0xE1: r_izx(sbc),
	0xE2: r_imm(nopr),
	0xE3: m_izx(isb),
	0xE4: r_zp(cpx),
	0xE5: r_zp(sbc),
	0xE6: m_zp(inc),
	0xE7: m_zp(isb),
	0xE8: INX,
	0xE9: r_imm(sbc),
	0xEA: NOPimp,
	0xEB: r_imm(sbc),
	0xEC: r_abs(cpx),
	0xED: r_abs(sbc),
	0xEE: m_abs(inc),
	0xEF: m_abs(isb),
	0xF0: BEQ,
	0xF1: r_izy(sbc),
	0xF2: JAM,
	0xF3: m_izy(isb),
	0xF4: r_zpx(nopr),
	0xF5: r_zpx(sbc),
	0xF6: m_zpx(inc),
	0xF7: m_zpx(isb),
	0xF8: SED,
	0xF9: r_aby(sbc),
	0xFA: NOPimp,
	0xFB: m_aby(isb),
	0xFC: r_abx(nopr),
	0xFD: r_abx(sbc),
	0xFE: m_abx(inc),
	0xFF: m_abx(isb),
}

/* addressing mode factories */

// read from memory, pass the value to the kernel.

func r_imm(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, cpu.imm())
		cpu.PC += 2
	}
}

func r_zp(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, cpu.Read8(uint16(cpu.zp())))
		cpu.PC += 2
	}
}

func r_zpx(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, cpu.Read8(uint16(cpu.zpx())))
		cpu.PC += 2
	}
}

func r_zpy(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, cpu.Read8(uint16(cpu.zpy())))
		cpu.PC += 2
	}
}

func r_abs(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, cpu.Read8(cpu.abs()))
		cpu.PC += 3
	}
}

func r_abx(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		addr, _ := cpu.abx()
		op(cpu, cpu.Read8(addr))
		cpu.PC += 3
	}
}

func r_aby(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		addr, _ := cpu.aby()
		op(cpu, cpu.Read8(addr))
		cpu.PC += 3
	}
}

func r_izx(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, cpu.Read8(cpu.izx()))
		cpu.PC += 2
	}
}

func r_izy(op func(*CPU, uint8)) func(*CPU) {
	return func(cpu *CPU) {
		addr, crossed := cpu.izy()
		if crossed == 1 {
			cpu.tick()
		}
		op(cpu, cpu.Read8(addr))
		cpu.PC += 2
	}
}

// read, modify in place, write back.

func m_acc(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		op(cpu, &cpu.A)
		cpu.tick()
		cpu.PC += 1
	}
}

func m_zp(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper := uint16(cpu.zp())
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 2
	}
}

func m_zpx(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper := uint16(cpu.zpx())
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 2
	}
}

func m_abs(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper := cpu.abs()
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 3
	}
}

func m_abx(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper, crossed := cpu.abx()
		if crossed == 0 {
			cpu.tick()
		}
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 3
	}
}

func m_aby(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper, crossed := cpu.aby()
		if crossed == 0 {
			cpu.tick()
		}
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 3
	}
}

func m_izx(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper := cpu.izx()
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 2
	}
}

func m_izy(op func(*CPU, *uint8)) func(*CPU) {
	return func(cpu *CPU) {
		oper, _ := cpu.izy()
		cpu.tick()
		val := cpu.Read8(oper)
		op(cpu, &val)
		cpu.tick()
		cpu.Write8(oper, val)
		cpu.PC += 2
	}
}

// store a register (or register combination) to memory.

func w_zp(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		cpu.Write8(uint16(cpu.zp()), src(cpu))
		cpu.PC += 2
	}
}

func w_zpx(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		cpu.Write8(uint16(cpu.zpx()), src(cpu))
		cpu.PC += 2
	}
}

func w_zpy(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		cpu.Write8(uint16(cpu.zpy()), src(cpu))
		cpu.PC += 2
	}
}

func w_abs(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		cpu.Write8(cpu.abs(), src(cpu))
		cpu.PC += 3
	}
}

func w_abx(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		addr, crossed := cpu.abx()
		if crossed == 0 {
			cpu.tick()
		}
		cpu.Write8(addr, src(cpu))
		cpu.PC += 3
	}
}

func w_aby(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		addr, crossed := cpu.aby()
		if crossed == 0 {
			cpu.tick()
		}
		cpu.Write8(addr, src(cpu))
		cpu.PC += 3
	}
}

func w_izx(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		cpu.Write8(cpu.izx(), src(cpu))
		cpu.PC += 2
	}
}

func w_izy(src func(*CPU) uint8) func(*CPU) {
	return func(cpu *CPU) {
		cpu.tick()
		addr, _ := cpu.izy()
		cpu.Write8(addr, src(cpu))
		cpu.PC += 2
	}
}

// store sources

func acc(cpu *CPU) uint8  { return cpu.A }
func xreg(cpu *CPU) uint8 { return cpu.X }
func yreg(cpu *CPU) uint8 { return cpu.Y }
func anx(cpu *CPU) uint8  { return cpu.A & cpu.X }

/* instruction kernels */

// add memory to accumulator with carry.
func adc(cpu *CPU, val uint8) {
	carry := cpu.P.ibit(pbitC)
	sum := uint16(cpu.A) + uint16(val) + uint16(carry)

	cpu.P.checkCV(cpu.A, val, sum)
	cpu.A = uint8(sum)
	cpu.P.checkNZ(cpu.A)
}

// substract memory from accumulator with borrow.
func sbc(cpu *CPU, val uint8) {
	adc(cpu, val^0xff)
}

func and(cpu *CPU, val uint8) {
	cpu.A &= val
	cpu.P.checkNZ(cpu.A)
}

func ora(cpu *CPU, val uint8) {
	cpu.A |= val
	cpu.P.checkNZ(cpu.A)
}

func eor(cpu *CPU, val uint8) {
	cpu.A ^= val
	cpu.P.checkNZ(cpu.A)
}

// rotate one bit left, carry goes into bit 0.
func rol(cpu *CPU, val *uint8) {
	carry := *val & 0x80
	*val <<= 1
	if cpu.P.C() {
		*val |= 1 << 0
	}
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// rotate one bit right, carry goes into bit 7.
func ror(cpu *CPU, val *uint8) {
	carry := *val & 0x01
	*val >>= 1
	if cpu.P.C() {
		*val |= 1 << 7
	}
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// shift one bit left, bit 7 goes into carry.
func asl(cpu *CPU, val *uint8) {
	carry := *val & 0x80
	*val <<= 1
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// shift one bit right, bit 0 goes into carry.
func lsr(cpu *CPU, val *uint8) {
	carry := *val & 0x01
	*val >>= 1
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// test bits in memory with accumulator.
func bit(cpu *CPU, val uint8) {
	// Copy bits 7 and 6 (N and V)
	cpu.P &= 0b00111111
	cpu.P |= P(val & 0b11000000)
	cpu.P.checkZ(cpu.A & val)
}

func cmp_(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.A - val)
	cpu.P.writeBit(pbitC, val <= cpu.A)
}

func cpx(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.X - val)
	cpu.P.writeBit(pbitC, val <= cpu.X)
}

func cpy(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.Y - val)
	cpu.P.writeBit(pbitC, val <= cpu.Y)
}

func inc(cpu *CPU, val *uint8) {
	*val++
	cpu.P.checkNZ(*val)
}

func dec(cpu *CPU, val *uint8) {
	*val--
	cpu.P.checkNZ(*val)
}

func lda(cpu *CPU, val uint8) {
	cpu.A = val
	cpu.P.checkNZ(cpu.A)
}

func ldx(cpu *CPU, val uint8) {
	cpu.X = val
	cpu.P.checkNZ(cpu.X)
}

func ldy(cpu *CPU, val uint8) {
	cpu.Y = val
	cpu.P.checkNZ(cpu.Y)
}

// read kernel for the various NOP variants, drops the value.
func nopr(cpu *CPU, val uint8) {}

/* unofficial instruction kernels */

func lax(cpu *CPU, val uint8) {
	lda(cpu, val)
	ldx(cpu, val)
}

func slo(cpu *CPU, val *uint8) {
	asl(cpu, val)
	ora(cpu, *val)
}

func rla(cpu *CPU, val *uint8) {
	rol(cpu, val)
	and(cpu, *val)
}

func sre(cpu *CPU, val *uint8) {
	lsr(cpu, val)
	eor(cpu, *val)
}

func rra(cpu *CPU, val *uint8) {
	ror(cpu, val)
	adc(cpu, *val)
}

func dcp(cpu *CPU, val *uint8) {
	*val--
	cmp_(cpu, *val)
}

func isb(cpu *CPU, val *uint8) {
	*val++
	sbc(cpu, *val)
}

func alr(cpu *CPU, val uint8) {
	cpu.A &= val
	carry := cpu.A & 0x01
	cpu.A >>= 1
	cpu.P.checkNZ(cpu.A)
	cpu.P.writeBit(pbitC, carry != 0)
}

func arr(cpu *CPU, val uint8) {
	cpu.A &= val
	cpu.A >>= 1
	cpu.P.writeBit(pbitV, (cpu.A>>6)^(cpu.A>>5)&0x01 != 0)

	// bit 7 is set to prev carry
	if cpu.P.C() {
		cpu.A |= 1 << 7
	}

	cpu.P.checkNZ(cpu.A)
	cpu.P.writeBit(pbitC, cpu.A&(1<<6) != 0)
}

func las(cpu *CPU, val uint8) {
	cpu.A = cpu.SP & val
	cpu.X = cpu.A
	cpu.SP = cpu.A
	cpu.P.checkNZ(cpu.A)
}

func sbx(cpu *CPU, val uint8) {
	v := (int16(cpu.A) & int16(cpu.X)) - int16(val)
	cpu.X = uint8(v)
	cpu.P.checkNZ(uint8(v))
	cpu.P.writeBit(pbitC, v >= 0)
}

// ANE and LXA involve an unstable bus value, 0xEE is the commonly observed
// magic constant.

func ane(cpu *CPU, val uint8) {
	cpu.A = (cpu.A | 0xEE) & cpu.X & val
	cpu.P.checkNZ(cpu.A)
}

func lxa(cpu *CPU, val uint8) {
	v := (cpu.A | 0xEE) & val
	cpu.A = v
	cpu.X = v
	cpu.P.checkNZ(v)
}

/* single-form instructions */

// 00
func BRK(cpu *CPU) {
	cpu.tick()
	push16(cpu, cpu.PC+2)
	p := cpu.P
	p.setBit(pbitB)
	push8(cpu, uint8(p))
	cpu.P.writeBit(pbitI, true)
	cpu.PC = cpu.Read16(IRQvector)
}

// 08
func PHP(cpu *CPU) {
	cpu.tick()
	p := cpu.P
	p |= (1 << pbitB) | (1 << pbitU)
	push8(cpu, uint8(p))
	cpu.PC += 1
}

// 28
func PLP(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	p := pull8(cpu)
	const mask = 0b11001111 // ignore B and U bits
	cpu.P = P(copybits(uint8(cpu.P), p, mask))
	cpu.PC += 1
}

// 48
func PHA(cpu *CPU) {
	cpu.tick()
	push8(cpu, cpu.A)
	cpu.PC += 1
}

// 68
func PLA(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.A = pull8(cpu)
	cpu.P.checkNZ(cpu.A)
	cpu.PC += 1
}

// 40
func RTI(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	p := pull8(cpu)
	const mask = 0b11001111 // ignore B and U bits
	cpu.P = P(copybits(uint8(cpu.P), p, mask))
	cpu.PC = pull16(cpu)
}

// 60
func RTS(cpu *CPU) {
	cpu.tick()
	cpu.tick()
	cpu.PC = pull16(cpu)
	cpu.PC++
	cpu.tick()
}

// 20
func JSR(cpu *CPU) {
	oper := cpu.Read16(cpu.PC + 1)
	cpu.tick()
	// Push return address on the stack
	push16(cpu, cpu.PC+2)
	cpu.PC = oper
}

// 4C
func JMPabs(cpu *CPU) {
	cpu.PC = cpu.abs()
}

// 6C
func JMPind(cpu *CPU) {
	cpu.PC = cpu.ind()
}

// 0B, 2B
func ANC(cpu *CPU) {
	and(cpu, cpu.imm())
	cpu.P.writeBit(pbitC, cpu.P.N())
	cpu.PC += 2
}

// CB
// (SBX goes through r_imm)

// 1A, 3A, 5A, 7A, DA, EA, FA
func NOPimp(cpu *CPU) {
	_ = cpu.Read8(cpu.PC + 1)
	cpu.PC += 1
}

// flag and register transfer instructions

// 18
func CLC(cpu *CPU) {
	cpu.P.clearBit(pbitC)
	cpu.tick()
	cpu.PC += 1
}

// 38
func SEC(cpu *CPU) {
	cpu.P.setBit(pbitC)
	cpu.tick()
	cpu.PC += 1
}

// 58
func CLI(cpu *CPU) {
	cpu.P.clearBit(pbitI)
	cpu.tick()
	cpu.PC += 1
}

// 78
func SEI(cpu *CPU) {
	cpu.P.setBit(pbitI)
	cpu.tick()
	cpu.PC += 1
}

// B8
func CLV(cpu *CPU) {
	cpu.P.clearBit(pbitV)
	cpu.tick()
	cpu.PC += 1
}

// D8
func CLD(cpu *CPU) {
	cpu.P.clearBit(pbitD)
	cpu.tick()
	cpu.PC += 1
}

// F8
func SED(cpu *CPU) {
	cpu.P.setBit(pbitD)
	cpu.tick()
	cpu.PC += 1
}

// 8A
func TXA(cpu *CPU) {
	cpu.A = cpu.X
	cpu.P.checkNZ(cpu.A)
	cpu.tick()
	cpu.PC += 1
}

// 98
func TYA(cpu *CPU) {
	cpu.A = cpu.Y
	cpu.P.checkNZ(cpu.A)
	cpu.tick()
	cpu.PC += 1
}

// 9A
func TXS(cpu *CPU) {
	cpu.SP = cpu.X
	cpu.tick()
	cpu.PC += 1
}

// A8
func TAY(cpu *CPU) {
	cpu.Y = cpu.A
	cpu.P.checkNZ(cpu.Y)
	cpu.tick()
	cpu.PC += 1
}

// AA
func TAX(cpu *CPU) {
	cpu.X = cpu.A
	cpu.P.checkNZ(cpu.X)
	cpu.tick()
	cpu.PC += 1
}

// BA
func TSX(cpu *CPU) {
	cpu.X = cpu.SP
	cpu.P.checkNZ(cpu.X)
	cpu.tick()
	cpu.PC += 1
}

// 88
func DEY(cpu *CPU) {
	cpu.Y--
	cpu.P.checkNZ(cpu.Y)
	cpu.tick()
	cpu.PC += 1
}

// C8
func INY(cpu *CPU) {
	cpu.Y++
	cpu.P.checkNZ(cpu.Y)
	cpu.tick()
	cpu.PC += 1
}

// CA
func DEX(cpu *CPU) {
	cpu.X--
	cpu.P.checkNZ(cpu.X)
	cpu.tick()
	cpu.PC += 1
}

// E8
func INX(cpu *CPU) {
	cpu.X++
	cpu.P.checkNZ(cpu.X)
	cpu.tick()
	cpu.PC += 1
}

// branches

// 10
func BPL(cpu *CPU) { branch(cpu, !cpu.P.N()) }

// 30
func BMI(cpu *CPU) { branch(cpu, cpu.P.N()) }

// 50
func BVC(cpu *CPU) { branch(cpu, !cpu.P.V()) }

// 70
func BVS(cpu *CPU) { branch(cpu, cpu.P.V()) }

// 90
func BCC(cpu *CPU) { branch(cpu, !cpu.P.C()) }

// B0
func BCS(cpu *CPU) { branch(cpu, cpu.P.C()) }

// D0
func BNE(cpu *CPU) { branch(cpu, !cpu.P.Z()) }

// F0
func BEQ(cpu *CPU) { branch(cpu, cpu.P.Z()) }

// unstable high-byte stores
//
// These write reg & (high byte of the target address + 1), and corrupt the
// target address itself when indexing crosses a page.

func shwrite(cpu *CPU, addr, dst uint16, val uint8) {
	var waddr uint16
	if pagecrossed(addr, dst) {
		waddr = (uint16(val) << 8) | dst&0xff
	} else {
		waddr = (addr & 0xff00) | dst&0xff
	}
	cpu.tick()
	cpu.Write8(waddr, val)
}

// 9E
func SHX(cpu *CPU) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.Y)
	shwrite(cpu, addr, dst, cpu.X&(uint8(addr>>8)+1))
	cpu.PC += 3
}

// 9C
func SHY(cpu *CPU) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.X)
	shwrite(cpu, addr, dst, cpu.Y&(uint8(addr>>8)+1))
	cpu.PC += 3
}

// 9F
func SHAaby(cpu *CPU) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.Y)
	shwrite(cpu, addr, dst, cpu.A&cpu.X&(uint8(addr>>8)+1))
	cpu.PC += 3
}

// 93
func SHAizy(cpu *CPU) {
	addr := cpu.zpr16(uint16(cpu.zp()))
	dst := addr + uint16(cpu.Y)
	shwrite(cpu, addr, dst, cpu.A&cpu.X&(uint8(addr>>8)+1))
	cpu.PC += 2
}

// 9B
func TAS(cpu *CPU) {
	cpu.SP = cpu.A & cpu.X
	addr := cpu.abs()
	dst := addr + uint16(cpu.Y)
	shwrite(cpu, addr, dst, cpu.SP&(uint8(addr>>8)+1))
	cpu.PC += 3
}

// 02, 12, 22, 32, 42, 52, 62, 72, 92, B2, D2, F2
func JAM(cpu *CPU) {
	panic("Halt and catch fire!")
}

/* helpers */

func pagecrossed(a, b uint16) bool {
	return 0xFF00&a != 0xFF00&b
}

// push 8-bit onto the stack
func push8(cpu *CPU, val uint8) {
	top := uint16(cpu.SP) + 0x0100
	cpu.Write8(top, val)
	cpu.SP -= 1
}

// push a 16-bit value onto the stack
func push16(cpu *CPU, val uint16) {
	push8(cpu, uint8(val>>8))
	push8(cpu, uint8(val&0xFF))
}

// pull a 8-bit value from the stack
func pull8(cpu *CPU) uint8 {
	cpu.SP += 1
	top := uint16(cpu.SP) + 0x0100
	return cpu.Read8(top)
}

// pull a 16-bit value from the stack
func pull16(cpu *CPU) uint16 {
	lo := pull8(cpu)
	hi := pull8(cpu)
	return uint16(hi)<<8 | uint16(lo)
}

// reladdr returns the destination address for a branch, that is the address
// at PC+2 plus the signed offset at PC+1.
func reladdr(cpu *CPU) uint16 {
	off := int8(cpu.Read8(cpu.PC + 1))
	return uint16(int16(cpu.PC+2) + int16(off))
}

func branch(cpu *CPU, cond bool) {
	addr := reladdr(cpu)
	if cond {
		if pagecrossed(cpu.PC+2, addr) {
			cpu.tick()
		}
		cpu.tick()
		cpu.PC = addr
		return
	}

	cpu.PC += 2
}

// Copy bits from src to dst, using mask to select which bits to copy.
func copybits(dst uint8, src uint8, mask uint8) uint8 {
	return (dst & ^mask) | (src & mask)
}

// read 16 bits from the zero page, handling page wrap.
func (cpu *CPU) zpr16(addr uint16) uint16 {
	lo := cpu.Read8(addr)
	hi := cpu.Read8(uint16(uint8(addr) + 1))
	return uint16(hi)<<8 | uint16(lo)
}

/* addressing modes */

func (cpu *CPU) imm() uint8  { return cpu.Read8(cpu.PC + 1) }
func (cpu *CPU) abs() uint16 { return cpu.Read16(cpu.PC + 1) }
func (cpu *CPU) zp() uint8   { return cpu.Read8(cpu.PC + 1) }

func (cpu *CPU) zpx() uint8 {
	cpu.tick()
	return cpu.zp() + cpu.X
}

func (cpu *CPU) zpy() uint8 {
	cpu.tick()
	return cpu.zp() + cpu.Y
}

// absolute indexed x. returns the destination address and an integer set to
// 1 if a page boundary was crossed.
func (cpu *CPU) abx() (uint16, uint8) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.X)
	crossed := pagecrossed(addr, dst)
	if crossed {
		cpu.tick()
	}
	return dst, b2i(crossed)
}

// absolute indexed y. returns the destination address and an integer set to
// 1 if a page boundary was crossed.
func (cpu *CPU) aby() (uint16, uint8) {
	addr := cpu.abs()
	dst := addr + uint16(cpu.Y)
	crossed := pagecrossed(addr, dst)
	if crossed {
		cpu.tick()
	}
	return dst, b2i(crossed)
}

// zeropage indexed indirect (zp,x)
func (cpu *CPU) izx() uint16 {
	cpu.tick()
	oper := cpu.zp() + cpu.X
	return cpu.zpr16(uint16(oper))
}

// zeropage indirect indexed (zp),y. returns the destination address and an
// integer set to 1 if a page boundary was crossed.
func (cpu *CPU) izy() (uint16, uint8) {
	oper := cpu.zp()
	addr := cpu.zpr16(uint16(oper))
	dst := addr + uint16(cpu.Y)
	return dst, b2i(pagecrossed(addr, dst))
}

func (cpu *CPU) ind() uint16 {
	oper := cpu.Read16(cpu.PC + 1)
	lo := cpu.Read8(oper)
	// 2 bytes address wrap around
	hi := cpu.Read8((0xff00 & oper) | (0x00ff & (oper + 1)))
	return uint16(hi)<<8 | uint16(lo)
}

package cpu

// instrFunc implements one opcode's full effect, including every memory
// access and internal cycle its timing requires; the CPU's cycle counter
// accrues automatically as the function performs those accesses.
type instrFunc func(c *CPU) error

var primaryOpcodes [256]instrFunc

// aluOp is one of the eight ALU row operations shared by the register
// block (0x80-0xBF) and the immediate block (0xC6,CE,D6,DE,E6,EE,F6,FE).
type aluOp func(c *CPU, v uint8)

var aluOps = [8]aluOp{
	func(c *CPU, v uint8) { c.a = c.add8(c.a, v, false) },
	func(c *CPU, v uint8) { c.a = c.add8(c.a, v, true) },
	func(c *CPU, v uint8) { c.a = c.sub8(c.a, v, false) },
	func(c *CPU, v uint8) { c.a = c.sub8(c.a, v, true) },
	func(c *CPU, v uint8) { c.a = c.and8(c.a, v) },
	func(c *CPU, v uint8) { c.a = c.xor8(c.a, v) },
	func(c *CPU, v uint8) { c.a = c.or8(c.a, v) },
	func(c *CPU, v uint8) { c.sub8(c.a, v, false) }, // CP discards the result
}

func init() {
	// INC r / DEC r / LD r,d8 at strides of 8, rows 0..7 mapping directly
	// onto regIndex's B,C,D,E,H,L,(HL),A order.
	for i := 0; i < 8; i++ {
		reg := regIndex(i)
		primaryOpcodes[0x04+i*8] = func(c *CPU) error {
			c.writeReg(reg, c.inc8(c.readReg(reg)))
			return nil
		}
		primaryOpcodes[0x05+i*8] = func(c *CPU) error {
			c.writeReg(reg, c.dec8(c.readReg(reg)))
			return nil
		}
		primaryOpcodes[0x06+i*8] = func(c *CPU) error {
			c.writeReg(reg, c.fetch())
			return nil
		}
	}

	// LD r,r' block: every combination except (HL),(HL) which is HALT.
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			if dst == int(regHLInd) && src == int(regHLInd) {
				continue
			}
			d, s := regIndex(dst), regIndex(src)
			primaryOpcodes[0x40+dst*8+src] = func(c *CPU) error {
				c.writeReg(d, c.readReg(s))
				return nil
			}
		}
	}
	primaryOpcodes[0x76] = opHALT

	// ALU A,r block.
	for row := 0; row < 8; row++ {
		op := aluOps[row]
		for src := 0; src < 8; src++ {
			s := regIndex(src)
			primaryOpcodes[0x80+row*8+src] = func(c *CPU) error {
				op(c, c.readReg(s))
				return nil
			}
		}
	}

	// ALU A,d8 immediate block.
	immOpcodes := [8]uint16{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for row, opcode := range immOpcodes {
		op := aluOps[row]
		primaryOpcodes[opcode] = func(c *CPU) error {
			op(c, c.fetch())
			return nil
		}
	}

	registerIrregularPrimaryOpcodes()
}

func opNOP(c *CPU) error { return nil }

func opHALT(c *CPU) error {
	c.halted = true
	return nil
}

func opSTOP(c *CPU) error {
	c.stopped = true
	return StopRequest{}
}

func opDI(c *CPU) error {
	c.ime = false
	c.eiPending = false
	return nil
}

func opEI(c *CPU) error {
	c.eiPending = true
	return nil
}

func opRLCA(c *CPU) error {
	c.a = c.rlc(c.a)
	c.setFlag(flagZ, false)
	return nil
}

func opRRCA(c *CPU) error {
	c.a = c.rrc(c.a)
	c.setFlag(flagZ, false)
	return nil
}

func opRLA(c *CPU) error {
	c.a = c.rl(c.a)
	c.setFlag(flagZ, false)
	return nil
}

func opRRA(c *CPU) error {
	c.a = c.rr(c.a)
	c.setFlag(flagZ, false)
	return nil
}

func opDAA(c *CPU) error {
	c.daa()
	return nil
}

func opCPL(c *CPU) error {
	c.a = ^c.a
	c.setFlag(flagN, true)
	c.setFlag(flagH, true)
	return nil
}

func opSCF(c *CPU) error {
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, true)
	return nil
}

func opCCF(c *CPU) error {
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, !c.flag(flagC))
	return nil
}

func jr(c *CPU, cc condition, conditional bool) error {
	offset := int8(c.fetch())
	if conditional && !c.testCondition(cc) {
		return nil
	}
	c.internalTick()
	c.pc = uint16(int32(c.pc) + int32(offset))
	return nil
}

func jp(c *CPU, cc condition, conditional bool) error {
	target := c.fetch16()
	if conditional && !c.testCondition(cc) {
		return nil
	}
	c.internalTick()
	c.pc = target
	return nil
}

func call(c *CPU, cc condition, conditional bool) error {
	target := c.fetch16()
	if conditional && !c.testCondition(cc) {
		return nil
	}
	c.internalTick()
	c.push(c.pc)
	c.pc = target
	return nil
}

func ret(c *CPU, cc condition, conditional bool) error {
	if conditional {
		c.internalTick()
		if !c.testCondition(cc) {
			return nil
		}
	}
	c.pc = c.pop()
	c.internalTick()
	return nil
}

func rst(vector uint16) instrFunc {
	return func(c *CPU) error {
		c.internalTick()
		c.push(c.pc)
		c.pc = vector
		return nil
	}
}

func registerIrregularPrimaryOpcodes() {
	primaryOpcodes[0x00] = opNOP
	primaryOpcodes[0x01] = func(c *CPU) error { c.setBC(c.fetch16()); return nil }
	primaryOpcodes[0x02] = func(c *CPU) error { c.writeByte(c.bc(), c.a); return nil }
	primaryOpcodes[0x03] = func(c *CPU) error { c.internalTick(); c.setBC(c.bc() + 1); return nil }
	primaryOpcodes[0x07] = opRLCA
	primaryOpcodes[0x08] = func(c *CPU) error {
		target := c.fetch16()
		lo, hi := uint8(c.sp), uint8(c.sp>>8)
		c.writeByte(target, lo)
		c.writeByte(target+1, hi)
		return nil
	}
	primaryOpcodes[0x09] = func(c *CPU) error { c.addHL16(c.bc()); return nil }
	primaryOpcodes[0x0A] = func(c *CPU) error { c.a = c.readByte(c.bc()); return nil }
	primaryOpcodes[0x0B] = func(c *CPU) error { c.internalTick(); c.setBC(c.bc() - 1); return nil }
	primaryOpcodes[0x0F] = opRRCA

	primaryOpcodes[0x10] = opSTOP
	primaryOpcodes[0x11] = func(c *CPU) error { c.setDE(c.fetch16()); return nil }
	primaryOpcodes[0x12] = func(c *CPU) error { c.writeByte(c.de(), c.a); return nil }
	primaryOpcodes[0x13] = func(c *CPU) error { c.internalTick(); c.setDE(c.de() + 1); return nil }
	primaryOpcodes[0x17] = opRLA
	primaryOpcodes[0x18] = func(c *CPU) error { return jr(c, 0, false) }
	primaryOpcodes[0x19] = func(c *CPU) error { c.addHL16(c.de()); return nil }
	primaryOpcodes[0x1A] = func(c *CPU) error { c.a = c.readByte(c.de()); return nil }
	primaryOpcodes[0x1B] = func(c *CPU) error { c.internalTick(); c.setDE(c.de() - 1); return nil }
	primaryOpcodes[0x1F] = opRRA

	primaryOpcodes[0x20] = func(c *CPU) error { return jr(c, condNZ, true) }
	primaryOpcodes[0x21] = func(c *CPU) error { c.setHL(c.fetch16()); return nil }
	primaryOpcodes[0x22] = func(c *CPU) error { c.writeByte(c.hl(), c.a); c.setHL(c.hl() + 1); return nil }
	primaryOpcodes[0x23] = func(c *CPU) error { c.internalTick(); c.setHL(c.hl() + 1); return nil }
	primaryOpcodes[0x27] = opDAA
	primaryOpcodes[0x28] = func(c *CPU) error { return jr(c, condZ, true) }
	primaryOpcodes[0x29] = func(c *CPU) error { c.addHL16(c.hl()); return nil }
	primaryOpcodes[0x2A] = func(c *CPU) error { c.a = c.readByte(c.hl()); c.setHL(c.hl() + 1); return nil }
	primaryOpcodes[0x2B] = func(c *CPU) error { c.internalTick(); c.setHL(c.hl() - 1); return nil }
	primaryOpcodes[0x2F] = opCPL

	primaryOpcodes[0x30] = func(c *CPU) error { return jr(c, condNC, true) }
	primaryOpcodes[0x31] = func(c *CPU) error { c.sp = c.fetch16(); return nil }
	primaryOpcodes[0x32] = func(c *CPU) error { c.writeByte(c.hl(), c.a); c.setHL(c.hl() - 1); return nil }
	primaryOpcodes[0x33] = func(c *CPU) error { c.internalTick(); c.sp++; return nil }
	primaryOpcodes[0x37] = opSCF
	primaryOpcodes[0x38] = func(c *CPU) error { return jr(c, condCarry, true) }
	primaryOpcodes[0x39] = func(c *CPU) error { c.addHL16(c.sp); return nil }
	primaryOpcodes[0x3A] = func(c *CPU) error { c.a = c.readByte(c.hl()); c.setHL(c.hl() - 1); return nil }
	primaryOpcodes[0x3B] = func(c *CPU) error { c.internalTick(); c.sp--; return nil }
	primaryOpcodes[0x3F] = opCCF

	primaryOpcodes[0xC0] = func(c *CPU) error { return ret(c, condNZ, true) }
	primaryOpcodes[0xC1] = func(c *CPU) error { c.setBC(c.pop()); return nil }
	primaryOpcodes[0xC2] = func(c *CPU) error { return jp(c, condNZ, true) }
	primaryOpcodes[0xC3] = func(c *CPU) error { return jp(c, 0, false) }
	primaryOpcodes[0xC4] = func(c *CPU) error { return call(c, condNZ, true) }
	primaryOpcodes[0xC5] = func(c *CPU) error { c.internalTick(); c.push(c.bc()); return nil }
	primaryOpcodes[0xC7] = rst(0x00)
	primaryOpcodes[0xC8] = func(c *CPU) error { return ret(c, condZ, true) }
	primaryOpcodes[0xC9] = func(c *CPU) error { return ret(c, 0, false) }
	primaryOpcodes[0xCA] = func(c *CPU) error { return jp(c, condZ, true) }
	primaryOpcodes[0xCC] = func(c *CPU) error { return call(c, condZ, true) }
	primaryOpcodes[0xCD] = func(c *CPU) error { return call(c, 0, false) }
	primaryOpcodes[0xCF] = rst(0x08)

	primaryOpcodes[0xD0] = func(c *CPU) error { return ret(c, condNC, true) }
	primaryOpcodes[0xD1] = func(c *CPU) error { c.setDE(c.pop()); return nil }
	primaryOpcodes[0xD2] = func(c *CPU) error { return jp(c, condNC, true) }
	primaryOpcodes[0xD4] = func(c *CPU) error { return call(c, condNC, true) }
	primaryOpcodes[0xD5] = func(c *CPU) error { c.internalTick(); c.push(c.de()); return nil }
	primaryOpcodes[0xD7] = rst(0x10)
	primaryOpcodes[0xD8] = func(c *CPU) error { return ret(c, condCarry, true) }
	primaryOpcodes[0xD9] = func(c *CPU) error {
		c.pc = c.pop()
		c.internalTick()
		c.ime = true
		c.eiPending = false
		return nil
	}
	primaryOpcodes[0xDA] = func(c *CPU) error { return jp(c, condCarry, true) }
	primaryOpcodes[0xDC] = func(c *CPU) error { return call(c, condCarry, true) }
	primaryOpcodes[0xDF] = rst(0x18)

	primaryOpcodes[0xE0] = func(c *CPU) error {
		offset := c.fetch()
		c.writeByte(0xFF00+uint16(offset), c.a)
		return nil
	}
	primaryOpcodes[0xE1] = func(c *CPU) error { c.setHL(c.pop()); return nil }
	primaryOpcodes[0xE2] = func(c *CPU) error { c.writeByte(0xFF00+uint16(c.c), c.a); return nil }
	primaryOpcodes[0xE5] = func(c *CPU) error { c.internalTick(); c.push(c.hl()); return nil }
	primaryOpcodes[0xE7] = rst(0x20)
	primaryOpcodes[0xE8] = func(c *CPU) error {
		result := c.addSPSigned()
		c.internalTick()
		c.internalTick()
		c.sp = result
		return nil
	}
	primaryOpcodes[0xE9] = func(c *CPU) error { c.pc = c.hl(); return nil }
	primaryOpcodes[0xEA] = func(c *CPU) error { c.writeByte(c.fetch16(), c.a); return nil }
	primaryOpcodes[0xEF] = rst(0x28)

	primaryOpcodes[0xF0] = func(c *CPU) error {
		offset := c.fetch()
		c.a = c.readByte(0xFF00 + uint16(offset))
		return nil
	}
	primaryOpcodes[0xF1] = func(c *CPU) error { c.setAF(c.pop()); return nil }
	primaryOpcodes[0xF2] = func(c *CPU) error { c.a = c.readByte(0xFF00 + uint16(c.c)); return nil }
	primaryOpcodes[0xF3] = opDI
	primaryOpcodes[0xF5] = func(c *CPU) error { c.internalTick(); c.push(c.af()); return nil }
	primaryOpcodes[0xF7] = rst(0x30)
	primaryOpcodes[0xF8] = func(c *CPU) error {
		result := c.addSPSigned()
		c.internalTick()
		c.setHL(result)
		return nil
	}
	primaryOpcodes[0xF9] = func(c *CPU) error { c.internalTick(); c.sp = c.hl(); return nil }
	primaryOpcodes[0xFA] = func(c *CPU) error { c.a = c.readByte(c.fetch16()); return nil }
	primaryOpcodes[0xFB] = opEI
	primaryOpcodes[0xFF] = rst(0x38)

	// Undefined opcodes: left nil, Step() turns a nil lookup into
	// IllegalOpcode.
}

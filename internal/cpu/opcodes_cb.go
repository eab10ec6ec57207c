package cpu

import "github.com/kensho-dmg/dmgcore/internal/bit"

var cbOpcodes [256]instrFunc

// cbOp is one of the eight CB-prefixed rotate/shift row operations
// (0x00-0x3F): unlike the accumulator forms, each sets Z from its result.
type cbOp func(c *CPU, v uint8) uint8

var cbShiftOps = [8]cbOp{
	func(c *CPU, v uint8) uint8 { return c.rlc(v) },
	func(c *CPU, v uint8) uint8 { return c.rrc(v) },
	func(c *CPU, v uint8) uint8 { return c.rl(v) },
	func(c *CPU, v uint8) uint8 { return c.rr(v) },
	func(c *CPU, v uint8) uint8 { return c.sla(v) },
	func(c *CPU, v uint8) uint8 { return c.sra(v) },
	func(c *CPU, v uint8) uint8 { return c.swap(v) },
	func(c *CPU, v uint8) uint8 { return c.srl(v) },
}

func init() {
	for row := 0; row < 8; row++ {
		op := cbShiftOps[row]
		for regIdx := 0; regIdx < 8; regIdx++ {
			reg := regIndex(regIdx)
			cbOpcodes[row*8+regIdx] = func(c *CPU) error {
				result := op(c, c.readReg(reg))
				c.shiftResultFlags(result)
				c.writeReg(reg, result)
				return nil
			}
		}
	}

	for bitIdx := 0; bitIdx < 8; bitIdx++ {
		n := uint8(bitIdx)
		for regIdx := 0; regIdx < 8; regIdx++ {
			reg := regIndex(regIdx)
			cbOpcodes[0x40+bitIdx*8+regIdx] = func(c *CPU) error {
				c.bit(n, c.readReg(reg))
				return nil
			}
			cbOpcodes[0x80+bitIdx*8+regIdx] = func(c *CPU) error {
				c.writeReg(reg, bit.Clear(n, c.readReg(reg)))
				return nil
			}
			cbOpcodes[0xC0+bitIdx*8+regIdx] = func(c *CPU) error {
				c.writeReg(reg, bit.Set(n, c.readReg(reg)))
				return nil
			}
		}
	}
}

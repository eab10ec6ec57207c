// Package cpu implements the SM83 instruction decoder/executor: the
// register file, ALU, the full primary and 0xCB-prefixed opcode tables,
// and interrupt dispatch.
package cpu

import (
	"github.com/kensho-dmg/dmgcore/internal/addr"
	"github.com/kensho-dmg/dmgcore/internal/memory"
)

// CPU holds SM83 execution state: the register bank, the interrupt master
// enable latch (and its one-instruction EI delay), HALT/STOP state, and
// the Bus it executes against.
type CPU struct {
	registers

	bus *memory.Bus

	ime       bool
	eiPending bool

	halted   bool
	haltBug  bool
	stopped  bool

	cycles uint64

	currentOpcode uint16
}

// New returns a CPU wired to bus, with the power-on register state:
// PC=0, SP=0, all registers zero, IME=0.
func New(bus *memory.Bus) *CPU {
	return &CPU{bus: bus}
}

// Snapshot is a read-only copy of CPU execution state, for status displays
// and diagnostics. It is not a debugger interface: there is no breakpoint
// or single-step control here beyond what Step already offers.
type Snapshot struct {
	A, F    uint8
	B, C    uint8
	D, E    uint8
	H, L    uint8
	SP, PC  uint16
	IME     bool
	Halted  bool
	Stopped bool
	Cycles  uint64
}

// Snapshot returns the CPU's current register and execution state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.a, F: c.f & 0xF0,
		B: c.b, C: c.c,
		D: c.d, E: c.e,
		H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
		IME:     c.ime,
		Halted:  c.halted,
		Stopped: c.stopped,
		Cycles:  c.cycles,
	}
}

func (c *CPU) readByte(address uint16) uint8 {
	v := c.bus.Read(address)
	c.cycles++
	return v
}

func (c *CPU) writeByte(address uint16, v uint8) {
	c.bus.Write(address, v)
	c.cycles++
}

// internalTick charges one M-cycle with no associated memory access, for
// opcodes whose timing includes internal-only steps (16-bit ALU, taken
// branches, PUSH's setup cycle, interrupt dispatch's wait cycles).
func (c *CPU) internalTick() {
	c.bus.Tick(1)
	c.cycles++
}

// fetch reads the byte at PC and advances PC, except immediately after the
// HALT bug has been armed, when the read is repeated without advancing PC.
func (c *CPU) fetch() uint8 {
	v := c.readByte(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return pair(hi, lo)
}

// push implements the CALL/PUSH/interrupt-dispatch push order: high byte
// to SP-1, low byte to SP-2, SP -= 2.
func (c *CPU) push(v uint16) {
	hi, lo := splitPair(v)
	c.sp--
	c.writeByte(c.sp, hi)
	c.sp--
	c.writeByte(c.sp, lo)
}

func (c *CPU) pop() uint16 {
	lo := c.readByte(c.sp)
	c.sp++
	hi := c.readByte(c.sp)
	c.sp++
	return pair(hi, lo)
}

// Step executes exactly one instruction (or one waiting M-cycle while
// halted) and samples interrupts at the following instruction boundary.
func (c *CPU) Step() error {
	if c.halted {
		c.internalTick()
		c.handleInterrupts()
		return nil
	}

	applyEI := c.eiPending
	c.eiPending = false

	pc := c.pc
	opcode := uint16(c.fetch())
	c.currentOpcode = opcode
	if opcode == 0xCB {
		opcode = 0xCB00 | uint16(c.fetch())
		c.currentOpcode = opcode
	}

	fn := c.lookup(opcode)
	if fn == nil {
		return &IllegalOpcode{Opcode: opcode, PC: pc}
	}

	if err := fn(c); err != nil {
		return err
	}

	if applyEI {
		c.ime = true
	}

	c.handleInterrupts()
	return nil
}

func (c *CPU) lookup(opcode uint16) instrFunc {
	if opcode > 0xFF {
		return cbOpcodes[opcode&0xFF]
	}
	return primaryOpcodes[opcode]
}

// handleInterrupts samples IE/IF between instructions. It wakes the CPU
// from HALT whenever an enabled interrupt is pending (regardless of IME),
// dispatches the highest-priority one when IME=1, and arms the HALT bug
// when waking with IME=0.
func (c *CPU) handleInterrupts() bool {
	src, ok := addr.Pending(c.bus.IE(), c.bus.IF())
	if !ok {
		return false
	}

	if c.halted {
		c.halted = false
		if !c.ime {
			c.haltBug = true
		}
	}

	if c.ime {
		c.dispatchInterrupt(src)
	}

	return true
}

// dispatchInterrupt spends 2 internal M-cycles plus the 2 M-cycles of a
// push, then sets PC to the vector and clears the IF bit.
func (c *CPU) dispatchInterrupt(src addr.Interrupt) {
	c.ime = false
	c.internalTick()
	c.internalTick()
	c.push(c.pc)
	c.pc = src.Vector()
	c.bus.ClearInterrupt(src)
}

// Package memory implements the 16-bit address space the CPU executes
// against: a Bus that decodes addresses into ROM/SRAM (routed through a
// cartridge controller), WRAM, HRAM, and the raw byte storage backing the
// memory-mapped I/O ranges owned by peripherals outside the core.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/kensho-dmg/dmgcore/internal/addr"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnused
	regionIO
	regionHRAM
	regionIE
)

// Clock is the cooperative time source a Bus reports its cost to. It is
// satisfied by *clock.Domain; kept as an interface here so memory does not
// import clock.
type Clock interface {
	Advance(mCycles int)
}

type noopClock struct{}

func (noopClock) Advance(int) {}

// Bus is the memory map: it owns WRAM/HRAM/IO storage directly and
// delegates ROM/SRAM addresses to the active cartridge controller. Every
// Read/Write costs one M-cycle, charged to the attached clock.
type Bus struct {
	mbc MBC

	wram [0x2000]uint8
	vram [0x2000]uint8
	oam  [0x100]uint8 // covers OAM (0xFE00-FE9F) and the unusable tail
	io   [0x80]uint8
	hram [0x7F]uint8
	ie   uint8

	regionMap [256]region

	clock Clock
}

// New creates a Bus with no cartridge loaded (reads from ROM/SRAM return
// 0xFF, writes are dropped).
func New() *Bus {
	b := &Bus{clock: noopClock{}}
	b.initRegionMap()
	return b
}

// NewWithCartridge creates a Bus backed by the given controller.
func NewWithCartridge(mbc MBC) *Bus {
	b := New()
	b.mbc = mbc
	return b
}

// Tick charges n M-cycles to the attached clock with no associated memory
// access, for CPU-internal steps (16-bit ALU, taken branches, interrupt
// dispatch wait cycles).
func (b *Bus) Tick(n int) {
	b.clock.Advance(n)
}

// AttachClock wires the Bus to the clock domain it should charge for every
// access. A Bus with no attached clock silently drops cycle accounting,
// which is convenient for constructing fixtures in tests.
func (b *Bus) AttachClock(c Clock) {
	b.clock = c
}

func (b *Bus) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		b.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		b.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		b.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		b.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		b.regionMap[i] = regionEcho
	}
	b.regionMap[0xFE] = regionOAM
	b.regionMap[0xFF] = regionIO
}

// Read returns the byte at addr and charges one M-cycle to the clock.
func (b *Bus) Read(address uint16) uint8 {
	value := b.readNoCost(address)
	b.clock.Advance(1)
	return value
}

func (b *Bus) readNoCost(address uint16) uint8 {
	switch b.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if b.mbc == nil {
			slog.Warn("read from ROM/SRAM with no cartridge loaded", "addr", fmt.Sprintf("0x%04X", address))
			return 0xFF
		}
		return b.mbc.Read(address)
	case regionVRAM:
		return b.vram[address-addr.VRAMStart]
	case regionWRAM:
		return b.wram[address-addr.WRAMStart]
	case regionEcho:
		return b.wram[address-addr.EchoStart]
	case regionOAM:
		return b.oam[address-addr.OAMStart]
	case regionIO:
		return b.readIO(address)
	default:
		return 0xFF
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.IE:
		return b.ie
	case address == addr.IF:
		// The top three bits of IF are unused and always read back set.
		return b.io[address-addr.IOStart] | 0xE0
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return b.hram[address-addr.HRAMStart]
	default:
		return b.io[address-addr.IOStart]
	}
}

// Write stores value at addr and charges one M-cycle to the clock.
func (b *Bus) Write(address uint16, value uint8) {
	b.writeNoCost(address, value)
	b.clock.Advance(1)
}

func (b *Bus) writeNoCost(address uint16, value uint8) {
	switch b.regionMap[address>>8] {
	case regionROM:
		if b.mbc == nil {
			slog.Warn("write to ROM control registers with no cartridge loaded", "addr", fmt.Sprintf("0x%04X", address))
			return
		}
		b.mbc.Write(address, value)
	case regionVRAM:
		b.vram[address-addr.VRAMStart] = value
	case regionExtRAM:
		if b.mbc == nil {
			return
		}
		b.mbc.Write(address, value)
	case regionWRAM:
		b.wram[address-addr.WRAMStart] = value
	case regionEcho:
		b.wram[address-addr.EchoStart] = value
	case regionOAM:
		b.oam[address-addr.OAMStart] = value
	case regionIO:
		b.writeIO(address, value)
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.IE:
		b.ie = value
	case address == addr.IF:
		b.io[address-addr.IOStart] = value | 0xE0
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		b.hram[address-addr.HRAMStart] = value
	default:
		b.io[address-addr.IOStart] = value
	}
}

// RequestInterrupt ORs the given source into IF. It never clears a bit;
// only interrupt dispatch does that.
func (b *Bus) RequestInterrupt(source addr.Interrupt) {
	current := b.readNoCost(addr.IF)
	b.writeNoCost(addr.IF, current|uint8(source))
}

// ClearInterrupt clears a single bit in IF; used by the CPU after it
// dispatches the corresponding ISR.
func (b *Bus) ClearInterrupt(source addr.Interrupt) {
	current := b.readNoCost(addr.IF)
	b.writeNoCost(addr.IF, current&^uint8(source))
}

// IE and IF expose the two interrupt registers directly, without charging a
// cycle, for the CPU's inter-instruction sampling and for tests. IF returns
// only the five request bits; the always-set top three bits appear only on a
// bus Read of 0xFF0F.
func (b *Bus) IE() uint8 { return b.ie }
func (b *Bus) IF() uint8 { return b.io[addr.IF-addr.IOStart] & 0x1F }

package memory

import (
	"github.com/kensho-dmg/dmgcore/internal/bit"
	"github.com/kensho-dmg/dmgcore/internal/rng"
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// MBC is the interface every cartridge controller implements: a banked view
// over ROM (and, for MBC1, SRAM) addressed through the CPU's 16-bit space.
type MBC interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Flat is the controller for cartridges with no banking hardware: the whole
// ROM (at most 32KiB) sits directly at 0x0000-0x7FFF and there is no SRAM.
type Flat struct {
	rom []uint8
}

// NewFlat wraps a ROM-only cartridge image.
func NewFlat(rom []uint8) *Flat {
	return &Flat{rom: rom}
}

func (f *Flat) Read(addr uint16) uint8 {
	if int(addr) >= len(f.rom) {
		return 0xFF
	}
	return f.rom[addr]
}

// Write is a no-op: a flat cartridge has no control registers and no SRAM.
func (f *Flat) Write(addr uint16, value uint8) {}

// MBC1 implements the banking scheme: a 5-bit BANK1
// register selects the ROM bank mapped at 0x4000-0x7FFF, a 2-bit BANK2
// register extends it (or selects a SRAM bank), MODE chooses whether BANK2
// also applies to the low ROM region and to SRAM, and RAMG gates SRAM
// access entirely.
type MBC1 struct {
	rom []uint8
	ram []uint8

	romBanks int
	ramSize  int

	bank1 uint8
	bank2 uint8
	mode  uint8
	ramg  bool

	openBus *rng.Source
}

// NewMBC1 builds an MBC1 controller. It rejects ROM/RAM sizes outside the
// documented envelope and the "large ROM with large RAM" combination that
// no real MBC1 cartridge ships.
func NewMBC1(rom []uint8, ramSize int, seed int64) (*MBC1, error) {
	romSize := len(rom)
	if romSize < 32*1024 || romSize > 2*1024*1024 || romSize&(romSize-1) != 0 {
		return nil, &ConfigError{Reason: "MBC1 ROM size must be a power of two between 32KiB and 2MiB"}
	}
	if ramSize != 0 && ramSize != 8*1024 && ramSize != 32*1024 {
		return nil, &ConfigError{Reason: "MBC1 RAM size must be 0, 8KiB or 32KiB"}
	}
	if romSize >= 1024*1024 && ramSize > 8*1024 {
		return nil, &ConfigError{Reason: "MBC1 cannot pair >=1MiB ROM with >8KiB RAM"}
	}

	return &MBC1{
		rom:      rom,
		ram:      make([]uint8, ramSize),
		romBanks: romSize / romBankSize,
		ramSize:  ramSize,
		bank1:    1,
		openBus:  rng.New(seed),
	}, nil
}

func (m *MBC1) lowROMBank() int {
	if m.mode == 1 {
		return int(m.bank2) << 5
	}
	return 0
}

func (m *MBC1) highROMBank() int {
	return (int(m.bank2) << 5) | int(m.bank1)
}

func (m *MBC1) sramBank() int {
	if m.mode == 1 && m.ramSize > 8*1024 {
		return int(m.bank2)
	}
	return 0
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		bank := m.lowROMBank() % m.romBanks
		return m.rom[bank*romBankSize+int(addr)]
	case addr >= 0x4000 && addr <= 0x7FFF:
		bank := m.highROMBank() % m.romBanks
		return m.rom[bank*romBankSize+int(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramg || m.ramSize == 0 {
			return m.openBus.Byte()
		}
		offset := m.sramBank()*ramBankSize + int(addr-0xA000)
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramg = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := bit.ExtractBits(value, 4, 0)
		if bank == 0 {
			bank = 1
		}
		m.bank1 = bank
	case addr <= 0x5FFF:
		m.bank2 = bit.ExtractBits(value, 1, 0)
	case addr <= 0x7FFF:
		m.mode = bit.ExtractBits(value, 0, 0)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramg || m.ramSize == 0 {
			return
		}
		offset := m.sramBank()*ramBankSize + int(addr-0xA000)
		m.ram[offset] = value
	}
}

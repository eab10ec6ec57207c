package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillBanked(size int) []uint8 {
	rom := make([]uint8, size)
	for i := range rom {
		rom[i] = uint8(i / romBankSize)
	}
	return rom
}

func TestMBC1_ROMBank0IsFixed(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(128*1024), 0, 1)
	assert.NoError(t, err)

	for a := uint16(0x0000); a < 0x4000; a += 0x1000 {
		assert.Equal(t, uint8(0), mbc.Read(a))
	}
}

func TestMBC1_BankSwitching(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(128*1024), 0, 1)
	assert.NoError(t, err)

	mbc.Write(0x2000, 3)
	assert.Equal(t, uint8(3), mbc.Read(0x4000))

	mbc.Write(0x2000, 1)
	assert.Equal(t, uint8(1), mbc.Read(0x4000))
}

// Writing 0 to BANK1 coerces to 1.
func TestMBC1_BankZeroCoercion(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(512*1024), 0, 1)
	assert.NoError(t, err)

	mbc.Write(0x2100, 0x00)
	mbc.Write(0x4100, 0x00)

	assert.Equal(t, uint8(1), mbc.Read(0x4000))
}

// MODE=1 maps BANK2 into the low ROM region.
func TestMBC1_Mode1LowROMMapping(t *testing.T) {
	rom := fillBanked(1024 * 1024)
	mbc, err := NewMBC1(rom, 0, 1)
	assert.NoError(t, err)

	mbc.Write(0x4000, 0x01) // BANK2 = 1
	mbc.Write(0x6000, 0x01) // MODE = 1

	assert.Equal(t, uint8(0x20), mbc.Read(0x0000))
}

func TestMBC1_BankWrapsModuloPhysicalBankCount(t *testing.T) {
	rom := fillBanked(8 * romBankSize) // 8 banks
	mbc, err := NewMBC1(rom, 0, 1)
	assert.NoError(t, err)

	mbc.Write(0x2000, 5)
	mbc.Write(0x4000, 1) // requests bank (1<<5)|5 = 37, wraps to 37%8 = 5

	assert.Equal(t, uint8(5), mbc.Read(0x4000))
}

func TestMBC1_RAMDisabledByDefault(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(32*1024), 8*1024, 7)
	assert.NoError(t, err)

	mbc.Write(0xA000, 0x42) // ignored, RAM disabled
	assert.NotEqual(t, uint8(0x42), readDisabledSRAM(mbc))
}

func readDisabledSRAM(mbc *MBC1) uint8 {
	// With RAMG=0 the byte is noise, but it must never reflect a write that
	// was made while disabled.
	return mbc.Read(0xA000)
}

func TestMBC1_RAMEnableAndPersist(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(32*1024), 8*1024, 3)
	assert.NoError(t, err)

	mbc.Write(0x0000, 0x0A) // RAMG on
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), mbc.Read(0xA000))

	mbc.Write(0x0000, 0x00) // RAMG off
	assert.NotEqual(t, uint8(0x42), mbc.Read(0xA000))

	mbc.Write(0x0000, 0x0A) // RAMG on again: the stored byte survived
	assert.Equal(t, uint8(0x42), mbc.Read(0xA000))
}

func TestMBC1_RAMBanking(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(32*1024), 32*1024, 9)
	assert.NoError(t, err)

	mbc.Write(0x0000, 0x0A) // RAMG on
	mbc.Write(0x6000, 0x01) // MODE=1, BANK2 selects SRAM bank

	for bank := uint8(0); bank < 4; bank++ {
		mbc.Write(0x4000, bank)
		mbc.Write(0xA000, 0x10+bank)
	}
	for bank := uint8(0); bank < 4; bank++ {
		mbc.Write(0x4000, bank)
		assert.Equal(t, 0x10+bank, mbc.Read(0xA000))
	}
}

func TestMBC1_ConfigErrors(t *testing.T) {
	_, err := NewMBC1(make([]uint8, 3*1024*1024), 0, 1)
	assert.Error(t, err)

	_, err = NewMBC1(make([]uint8, 48*1024), 0, 1) // not a power of two
	assert.Error(t, err)

	_, err = NewMBC1(make([]uint8, 32*1024), 16*1024, 1)
	assert.Error(t, err)

	_, err = NewMBC1(make([]uint8, 2*1024*1024), 32*1024, 1)
	assert.Error(t, err)
}

func TestFlat_ReadOnlyNoBanking(t *testing.T) {
	rom := make([]uint8, 32*1024)
	rom[0x100] = 0xAB
	flat := NewFlat(rom)

	assert.Equal(t, uint8(0xAB), flat.Read(0x100))

	flat.Write(0x100, 0xFF)
	assert.Equal(t, uint8(0xAB), flat.Read(0x100), "writes to a flat cartridge are ignored")
}

package dmgcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// minimalFlatROM builds a 32KiB ROM-only cartridge header (cart type 0x00,
// ROM size code 0x00, RAM size code 0x00) long enough for ParseHeader, with
// program bytes staged at 0x0000 where the CPU starts executing at
// power-on (PC=0, not the post-bootrom 0x0100 real hardware lands on).
func minimalFlatROM(program ...uint8) []byte {
	rom := make([]byte, 32*1024)
	copy(rom, program)
	rom[0x147] = 0x00
	rom[0x148] = 0x00
	rom[0x149] = 0x00
	return rom
}

func TestNew_RejectsTruncatedROM(t *testing.T) {
	_, err := New(make([]byte, 0x10), 1)
	assert.Error(t, err)
}

func TestRun_StopsCleanlyOnSTOP(t *testing.T) {
	emu, err := New(minimalFlatROM(0x10), 1) // STOP
	assert.NoError(t, err)

	assert.NoError(t, emu.Run())
	assert.True(t, emu.Registers().Stopped)
}

func TestRun_PropagatesIllegalOpcode(t *testing.T) {
	emu, err := New(minimalFlatROM(0xD3), 1) // undefined
	assert.NoError(t, err)

	err = emu.Run()
	assert.Error(t, err)
}

func TestStep_AdvancesCyclesAndRegisters(t *testing.T) {
	emu, err := New(minimalFlatROM(0x3C), 1) // INC A
	assert.NoError(t, err)

	assert.NoError(t, emu.Step())
	assert.Equal(t, uint8(1), emu.Registers().A)
	assert.Equal(t, uint16(1), emu.Registers().PC)
	assert.Equal(t, uint64(1), emu.Cycles())
}

func TestNew_SelectsMBC1FromCartridgeHeader(t *testing.T) {
	rom := make([]byte, 128*1024)
	rom[0x147] = 0x01 // MBC1
	rom[0x148] = 0x02 // 128KiB
	rom[0x149] = 0x00

	emu, err := New(rom, 42)
	assert.NoError(t, err)
	assert.NotNil(t, emu.Bus())
}

package memory

import (
	"testing"

	"github.com/kensho-dmg/dmgcore/internal/addr"
	"github.com/stretchr/testify/assert"
)

func TestBus_EchoRAMMirrorsWRAM(t *testing.T) {
	bus := New()

	bus.Write(0xC010, 0x55)
	assert.Equal(t, uint8(0x55), bus.Read(0xE010))

	bus.Write(0xE020, 0xAA)
	assert.Equal(t, uint8(0xAA), bus.Read(0xC020))
}

func TestBus_HRAMAndVRAMRoundTrip(t *testing.T) {
	bus := New()

	bus.Write(0xFF80, 0x12)
	assert.Equal(t, uint8(0x12), bus.Read(0xFF80))

	bus.Write(0x8123, 0x34)
	assert.Equal(t, uint8(0x34), bus.Read(0x8123))
}

func TestBus_IFTopBitsAlwaysRead1(t *testing.T) {
	bus := New()

	bus.Write(addr.IF, 0x01)
	assert.Equal(t, uint8(0xE1), bus.Read(addr.IF))
}

func TestBus_RequestInterruptOnlySetsBits(t *testing.T) {
	bus := New()

	bus.RequestInterrupt(addr.Timer)
	bus.RequestInterrupt(addr.VBlank)

	assert.Equal(t, uint8(addr.Timer|addr.VBlank), bus.IF())

	bus.ClearInterrupt(addr.Timer)
	assert.Equal(t, uint8(addr.VBlank), bus.IF())
}

func TestBus_NoCartridgeReadsFF(t *testing.T) {
	bus := New()

	assert.Equal(t, uint8(0xFF), bus.Read(0x0000))
	assert.Equal(t, uint8(0xFF), bus.Read(0xA000))
}

func TestBus_ROMWritesRouteToMBC(t *testing.T) {
	mbc, err := NewMBC1(fillBanked(128*1024), 0, 1)
	assert.NoError(t, err)
	bus := NewWithCartridge(mbc)

	bus.Write(0x2000, 3)
	assert.Equal(t, uint8(3), bus.Read(0x4000))
}

type countingClock struct{ cycles int }

func (c *countingClock) Advance(n int) { c.cycles += n }

func TestBus_ChargesOneMCyclePerAccess(t *testing.T) {
	bus := New()
	clk := &countingClock{}
	bus.AttachClock(clk)

	bus.Read(0xC000)
	bus.Write(0xC000, 1)

	assert.Equal(t, 2, clk.cycles)
}

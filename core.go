// Package dmgcore is the emulator core: it wires the SM83 CPU, the
// cartridge-backed memory bus, and the M-cycle clock domain into a single
// cooperative run loop. Everything outside that triple, graphics, audio,
// joypad, serial, the timer peripheral, and the program that reads a ROM
// file off disk, is an external collaborator; the core only exposes the
// memory-mapped addresses and interrupt-request hook they need.
package dmgcore

import (
	"errors"
	"fmt"
	"log/slog"

	clock "github.com/kensho-dmg/dmgcore/internal/clock"
	"github.com/kensho-dmg/dmgcore/internal/cpu"
	"github.com/kensho-dmg/dmgcore/internal/memory"
)

// Emulator is the constructed core: a CPU executing against a Bus, with a
// clock domain charged for every memory access and internal step.
type Emulator struct {
	cpu    *cpu.CPU
	bus    *memory.Bus
	domain *clock.Domain
}

// New parses romBytes' cartridge header, builds the matching controller
// (Flat or MBC1), and returns a core ready to Step or Run. seed drives the
// PRNG standing in for reads of disabled external SRAM; two cores built
// with the same seed over the same ROM execute identically.
func New(romBytes []byte, seed int64) (*Emulator, error) {
	header, err := memory.ParseHeader(romBytes)
	if err != nil {
		return nil, err
	}

	var mbc memory.MBC
	switch header.Controller {
	case memory.ControllerFlat:
		mbc = memory.NewFlat(romBytes)
	case memory.ControllerMBC1:
		mbc, err = memory.NewMBC1(romBytes, header.RAMSize, seed)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &memory.ConfigError{Reason: "unrecognized cartridge controller"}
	}

	bus := memory.NewWithCartridge(mbc)
	domain := clock.NewDomain()
	bus.AttachClock(domain)

	slog.Debug("cartridge loaded",
		"title", header.Title,
		"rom_size", header.ROMSize,
		"ram_size", header.RAMSize,
	)

	return &Emulator{
		cpu:    cpu.New(bus),
		bus:    bus,
		domain: domain,
	}, nil
}

// Step executes exactly one CPU instruction (or one HALT-waiting M-cycle)
// per cpu.CPU.Step, and samples interrupts at the following boundary.
func (e *Emulator) Step() error {
	return e.cpu.Step()
}

// Run loops Step until the program executes STOP or a fatal error occurs.
// A StopRequest ends the loop cleanly and is not returned to the caller;
// any other error (an IllegalOpcode) is.
func (e *Emulator) Run() error {
	for {
		err := e.Step()
		if err == nil {
			continue
		}

		var stop cpu.StopRequest
		if errors.As(err, &stop) {
			slog.Info("emulation stopped", "cycles", e.domain.Cycles())
			return nil
		}

		var illegal *cpu.IllegalOpcode
		if errors.As(err, &illegal) {
			slog.Error("illegal opcode", "opcode", fmt.Sprintf("0x%02X", illegal.Opcode), "pc", fmt.Sprintf("0x%04X", illegal.PC))
		}
		return err
	}
}

// Bus exposes the memory map so external collaborators (PPU/APU/joypad/
// serial/timer) can read and write their memory-mapped I/O ranges and
// request interrupts. It is not part of the core's own behavior.
func (e *Emulator) Bus() *memory.Bus {
	return e.bus
}

// Registers returns a read-only snapshot of CPU execution state, for
// status displays and diagnostics.
func (e *Emulator) Registers() cpu.Snapshot {
	return e.cpu.Snapshot()
}

// Cycles returns the total M-cycles elapsed since power-on.
func (e *Emulator) Cycles() uint64 {
	return e.domain.Cycles()
}

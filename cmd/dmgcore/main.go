// Command dmgcore is the CLI entry point around the core: reading a ROM
// file off disk and looping the emulator is outside the core's own scope,
// so that plumbing (flag parsing, the status display and its quit keys)
// lives here instead of in the dmgcore package.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/kensho-dmg/dmgcore"
	clock "github.com/kensho-dmg/dmgcore/internal/clock"
	"github.com/kensho-dmg/dmgcore/internal/cpu"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) CPU/MBC1/bus core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "PRNG seed for reads of disabled external SRAM",
			Value: 1,
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Enable debug-level logging",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run to completion (STOP or a fatal error) without a status display",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("trace") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	emu, err := dmgcore.New(data, c.Int64("seed"))
	if err != nil {
		return fmt.Errorf("constructing core: %w", err)
	}

	if c.Bool("headless") {
		return emu.Run()
	}

	return runWithStatusDisplay(emu)
}

// runWithStatusDisplay steps the core one frame's worth of M-cycles at a
// time, redrawing a register/status panel between frames and pacing itself
// to the Game Boy's frame rate. This is a convenience for human observation,
// not something the core's own correctness depends on.
func runWithStatusDisplay(emu *dmgcore.Emulator) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	limiter := clock.NewAdaptiveLimiter()

	quit := make(chan struct{})
	go pollQuit(screen, quit)

	startCycles := emu.Cycles()
	for {
		select {
		case <-quit:
			return nil
		default:
		}

		// CyclesPerFrame counts master clocks; Cycles() counts M-cycles
		// (4 master clocks each).
		for emu.Cycles()-startCycles < clock.CyclesPerFrame/4 {
			if err := emu.Step(); err != nil {
				var stop cpu.StopRequest
				if errors.As(err, &stop) {
					return nil
				}
				return err
			}
		}
		startCycles = emu.Cycles()

		drawStatus(screen, emu)
		limiter.WaitForNextFrame()
	}
}

func pollQuit(screen tcell.Screen, quit chan struct{}) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				close(quit)
				return
			}
		case nil:
			return
		}
	}
}

func drawStatus(screen tcell.Screen, emu *dmgcore.Emulator) {
	screen.Clear()
	r := emu.Registers()
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	lines := []string{
		fmt.Sprintf("PC=%04X SP=%04X  cycles=%d", r.PC, r.SP, emu.Cycles()),
		fmt.Sprintf("A=%02X F=%02X  B=%02X C=%02X  D=%02X E=%02X  H=%02X L=%02X", r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L),
		fmt.Sprintf("IME=%v halted=%v", r.IME, r.Halted),
		"",
		"press q / Esc / Ctrl-C to quit",
	}
	for y, line := range lines {
		for x, ch := range line {
			screen.SetContent(x, y, ch, nil, style)
		}
	}
	screen.Show()
}

package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/fittysix/oxidenes/internal/audio"
	"github.com/fittysix/oxidenes/internal/bus"
	"github.com/fittysix/oxidenes/internal/cartridge"
	"github.com/fittysix/oxidenes/internal/cpu"
	"github.com/fittysix/oxidenes/internal/graphics"
)

// Application owns the console, the sample queue toward the audio
// device, and the presentation backend.
type Application struct {
	config *Config

	bus      *bus.Bus
	emulator *Emulator

	queue  *audio.SampleQueue
	player *audio.Player

	romPath string
}

// New builds an application from the config at path.
func New(configPath string) (*Application, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	app := &Application{config: cfg}
	app.bus = bus.New(cfg.Audio.SampleRate)
	app.emulator = NewEmulator(app.bus)

	// Four host callback buffers of headroom keeps jitter from
	// underrunning the device.
	app.queue = audio.NewSampleQueue(cfg.Audio.BufferSize * 4)
	if cfg.Audio.Enabled {
		app.bus.APU.SetSink(app.queue)
	}
	return app, nil
}

// Config returns the active configuration.
func (app *Application) Config() *Config { return app.config }

// EnableTrace logs every executed instruction in a nestest-style
// format. It is far too slow for play; it exists for debugging.
func (app *Application) EnableTrace() {
	app.bus.CPU.SetTrace(func(pc uint16, opcode uint8, in cpu.Instruction) {
		c := app.bus.CPU
		fmt.Printf("%04X  %02X %-4s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%3d SL:%d\n",
			pc, opcode, in.Name, c.A, c.X, c.Y, c.Status(), c.SP,
			app.bus.PPU.Dot(), app.bus.PPU.Scanline())
	})
}

// Emulator returns the core wrapper, mainly for tests.
func (app *Application) Emulator() *Emulator { return app.emulator }

// LoadROM inserts the cartridge at path into the console.
func (app *Application) LoadROM(path string) error {
	cart, err := cartridge.LoadFromFile(path)
	if err != nil {
		return err
	}
	app.bus.InsertCartridge(cart)
	app.romPath = path
	log.Printf("loaded %s (mapper %d, battery=%v)", path, cart.MapperID(), cart.HasBattery())
	return nil
}

// Run opens the audio device and the selected backend and drives the
// console until quit. Internal invariant violations are caught here
// and surfaced with a state dump.
func (app *Application) Run() (err error) {
	if app.romPath == "" {
		return fmt.Errorf("app: no ROM loaded")
	}

	if app.config.Audio.Enabled && app.config.Video.Backend != "headless" {
		player, audioErr := audio.NewPlayer(
			app.queue,
			app.config.Audio.SampleRate,
			app.config.Audio.Volume,
			time.Duration(app.config.Audio.LatencyMS)*time.Millisecond,
		)
		if audioErr != nil {
			// A missing audio device is not fatal; run muted.
			log.Printf("audio unavailable: %v", audioErr)
		} else {
			app.player = player
		}
	}

	backend, err := graphics.New(app.config.Video.Backend, app.backendConfig())
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal fault: %v\n", r)
			fmt.Fprint(os.Stderr, spew.Sdump(app.bus.CPU))
			err = fmt.Errorf("app: internal fault: %v", r)
		}
	}()

	log.Printf("running with %s backend", backend.Name())
	if err := backend.Run(app.emulator); err != nil {
		return err
	}
	return nil
}

// Cleanup persists battery saves and releases the audio device.
func (app *Application) Cleanup() error {
	var first error
	if cart := app.bus.Cartridge(); cart != nil {
		if err := cart.SaveBattery(); err != nil {
			first = err
			log.Printf("battery save failed: %v", err)
		}
	}
	if app.player != nil {
		if err := app.player.Close(); err != nil && first == nil {
			first = err
		}
	}
	if dropped := app.queue.Dropped(); dropped > 0 {
		log.Printf("audio overrun dropped %d samples", dropped)
	}
	return first
}

func (app *Application) backendConfig() graphics.Config {
	title := "oxidenes"
	if app.romPath != "" {
		title = fmt.Sprintf("oxidenes - %s", app.romPath)
	}
	return graphics.Config{
		Title:      title,
		Scale:      app.config.Window.Scale,
		Fullscreen: app.config.Window.Fullscreen,
		VSync:      app.config.Video.VSync,
		Keys: [2]graphics.KeyMap{
			keyMap(app.config.Input.Player1),
			keyMap(app.config.Input.Player2),
		},
	}
}

func keyMap(k KeyBindings) graphics.KeyMap {
	return graphics.KeyMap{
		A: k.A, B: k.B, Select: k.Select, Start: k.Start,
		Up: k.Up, Down: k.Down, Left: k.Left, Right: k.Right,
	}
}

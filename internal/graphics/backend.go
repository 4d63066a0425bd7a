// Package graphics abstracts the presentation layer: a backend drives
// the emulation core once per display frame and shows the result.
package graphics

import (
	"fmt"

	"github.com/fittysix/oxidenes/internal/ppu"
)

// Core is the surface the backends drive. SetButtons feeds the
// controller state polled from the host; RunFrame advances emulation
// to the next frame boundary; Screen exposes the finished raster.
type Core interface {
	RunFrame() error
	Screen() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32
	SetButtons(port int, buttons [8]bool)
}

// KeyMap names the host keys bound to the eight controller buttons,
// ordered A, B, Select, Start, Up, Down, Left, Right.
type KeyMap struct {
	A      string
	B      string
	Select string
	Start  string
	Up     string
	Down   string
	Left   string
	Right  string
}

// Config selects and parameterizes a backend.
type Config struct {
	Title      string
	Scale      int
	Fullscreen bool
	VSync      bool

	Keys [2]KeyMap

	// FrameLimit stops the headless backend after this many frames;
	// zero means run forever.
	FrameLimit uint64
}

// Backend presents frames and polls input until the core stops or the
// user quits.
type Backend interface {
	Name() string
	Run(core Core) error
}

// New picks a backend by name: "ebitengine", "terminal" or
// "headless".
func New(name string, cfg Config) (Backend, error) {
	switch name {
	case "", "ebitengine":
		return NewEbitengineBackend(cfg), nil
	case "terminal":
		return NewTerminalBackend(cfg), nil
	case "headless":
		return NewHeadlessBackend(cfg), nil
	default:
		return nil, fmt.Errorf("graphics: unknown backend %q", name)
	}
}

// DefaultKeyMaps returns the stock two-player keyboard layout.
func DefaultKeyMaps() [2]KeyMap {
	return [2]KeyMap{
		{A: "Z", B: "X", Select: "RightShift", Start: "Enter",
			Up: "Up", Down: "Down", Left: "Left", Right: "Right"},
		{A: "N", B: "M", Select: "Comma", Start: "Period",
			Up: "I", Down: "K", Left: "J", Right: "L"},
	}
}

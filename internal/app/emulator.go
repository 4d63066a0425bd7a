package app

import (
	"github.com/fittysix/oxidenes/internal/bus"
	"github.com/fittysix/oxidenes/internal/ppu"
)

// Emulator adapts the console bus to the presentation layer's Core
// contract, latching controller input once per frame.
type Emulator struct {
	bus     *bus.Bus
	buttons [2][8]bool
}

// NewEmulator wraps a booted console.
func NewEmulator(b *bus.Bus) *Emulator {
	return &Emulator{bus: b}
}

// Bus exposes the underlying console.
func (e *Emulator) Bus() *bus.Bus { return e.bus }

// SetButtons records the host's view of one controller. It takes
// effect at the next frame boundary.
func (e *Emulator) SetButtons(port int, buttons [8]bool) {
	e.buttons[port&0x01] = buttons
}

// RunFrame applies the latched input and advances the console to the
// next completed frame.
func (e *Emulator) RunFrame() error {
	e.bus.Input.Pad(0).SetButtons(e.buttons[0])
	e.bus.Input.Pad(1).SetButtons(e.buttons[1])
	return e.bus.RunFrame()
}

// Screen returns the last completed raster.
func (e *Emulator) Screen() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32 {
	return e.bus.PPU.Screen()
}

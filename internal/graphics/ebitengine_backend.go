package graphics

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/fittysix/oxidenes/internal/ppu"
)

// keyNames resolves the config key names onto ebiten key codes.
var keyNames = map[string]ebiten.Key{
	"A": ebiten.KeyA, "B": ebiten.KeyB, "C": ebiten.KeyC, "D": ebiten.KeyD,
	"E": ebiten.KeyE, "F": ebiten.KeyF, "G": ebiten.KeyG, "H": ebiten.KeyH,
	"I": ebiten.KeyI, "J": ebiten.KeyJ, "K": ebiten.KeyK, "L": ebiten.KeyL,
	"M": ebiten.KeyM, "N": ebiten.KeyN, "O": ebiten.KeyO, "P": ebiten.KeyP,
	"Q": ebiten.KeyQ, "R": ebiten.KeyR, "S": ebiten.KeyS, "T": ebiten.KeyT,
	"U": ebiten.KeyU, "V": ebiten.KeyV, "W": ebiten.KeyW, "X": ebiten.KeyX,
	"Y": ebiten.KeyY, "Z": ebiten.KeyZ,
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"Enter": ebiten.KeyEnter, "Space": ebiten.KeySpace, "Tab": ebiten.KeyTab,
	"LeftShift": ebiten.KeyShiftLeft, "RightShift": ebiten.KeyShiftRight,
	"Comma": ebiten.KeyComma, "Period": ebiten.KeyPeriod,
}

// EbitengineBackend shows the raster in a window and reads the
// keyboard, both through ebitengine.
type EbitengineBackend struct {
	cfg Config
}

// NewEbitengineBackend creates the windowed backend.
func NewEbitengineBackend(cfg Config) *EbitengineBackend {
	return &EbitengineBackend{cfg: cfg}
}

func (b *EbitengineBackend) Name() string { return "ebitengine" }

// Run opens the window and hands control to ebitengine's game loop,
// which calls back at display rate.
func (b *EbitengineBackend) Run(core Core) error {
	scale := b.cfg.Scale
	if scale < 1 {
		scale = 2
	}
	ebiten.SetWindowTitle(b.cfg.Title)
	ebiten.SetWindowSize(ppu.ScreenWidth*scale, ppu.ScreenHeight*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.cfg.VSync)
	ebiten.SetFullscreen(b.cfg.Fullscreen)

	game := &ebitenGame{
		core:  core,
		image: ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
		pix:   make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4),
		keys:  resolveKeys(b.cfg.Keys),
	}
	err := ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func resolveKeys(maps [2]KeyMap) [2][8]ebiten.Key {
	var out [2][8]ebiten.Key
	for port, m := range maps {
		names := [8]string{m.A, m.B, m.Select, m.Start, m.Up, m.Down, m.Left, m.Right}
		for i, name := range names {
			key, ok := keyNames[name]
			if !ok {
				key = -1
			}
			out[port][i] = key
		}
	}
	return out
}

// ebitenGame adapts the core to ebiten.Game. Update runs at the fixed
// 60Hz tick, which doubles as the frame pacer.
type ebitenGame struct {
	core  Core
	image *ebiten.Image
	pix   []byte
	keys  [2][8]ebiten.Key
}

func (g *ebitenGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for port := 0; port < 2; port++ {
		var buttons [8]bool
		for i, key := range g.keys[port] {
			buttons[i] = key >= 0 && ebiten.IsKeyPressed(key)
		}
		g.core.SetButtons(port, buttons)
	}

	return g.core.RunFrame()
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	frame := g.core.Screen()
	for i, rgb := range frame {
		g.pix[i*4] = byte(rgb >> 16)
		g.pix[i*4+1] = byte(rgb >> 8)
		g.pix[i*4+2] = byte(rgb)
		g.pix[i*4+3] = 0xFF
	}
	g.image.WritePixels(g.pix)
	screen.DrawImage(g.image, nil)
}

func (g *ebitenGame) Layout(int, int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

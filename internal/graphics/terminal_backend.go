package graphics

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fittysix/oxidenes/internal/ppu"
)

// Terminal cell grid: every character cell shows a 4x8 pixel block
// using the half-block glyph, so the 256x240 raster becomes 64x30
// cells of foreground over background color.
const (
	termCols   = 64
	termRows   = 30
	termBlockW = ppu.ScreenWidth / termCols
	termBlockH = ppu.ScreenHeight / (termRows * 2)
)

// TerminalBackend renders a coarse view of the raster as ANSI half
// blocks. It reads no input; it exists for quick smoke runs over SSH.
type TerminalBackend struct {
	cfg Config
	out *os.File
}

// NewTerminalBackend creates the ANSI backend writing to stdout.
func NewTerminalBackend(cfg Config) *TerminalBackend {
	return &TerminalBackend{cfg: cfg, out: os.Stdout}
}

func (b *TerminalBackend) Name() string { return "terminal" }

// Run drives the core at the NTSC cadence, repainting every few
// frames, until interrupted or the frame limit is hit.
func (b *TerminalBackend) Run(core Core) error {
	const frameDuration = 16667 * time.Microsecond

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	fmt.Fprint(b.out, "\033[2J") // clear once; repaints home the cursor

	var frames uint64
	last := time.Now()
	for {
		select {
		case <-quit:
			return nil
		default:
		}

		if err := core.RunFrame(); err != nil {
			return err
		}
		frames++
		if b.cfg.FrameLimit > 0 && frames >= b.cfg.FrameLimit {
			return nil
		}

		// A terminal cannot keep up with 60 repaints a second.
		if frames%6 == 0 {
			b.paint(core.Screen())
		}

		elapsed := time.Since(last)
		if elapsed < frameDuration {
			time.Sleep(frameDuration - elapsed)
		}
		last = time.Now()
	}
}

// paint draws the downsampled raster, one styled half-block per cell.
func (b *TerminalBackend) paint(frame *[ppu.ScreenWidth * ppu.ScreenHeight]uint32) {
	var sb strings.Builder
	sb.WriteString("\033[H")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(b.cfg.Title))
	sb.WriteByte('\n')

	for row := 0; row < termRows; row++ {
		for col := 0; col < termCols; col++ {
			top := averageBlock(frame, col, row*2)
			bottom := averageBlock(frame, col, row*2+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bottom)))
			sb.WriteString(style.Render("▀"))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(b.out, sb.String())
}

// averageBlock averages the pixels of one half-cell block.
func averageBlock(frame *[ppu.ScreenWidth * ppu.ScreenHeight]uint32, col, halfRow int) uint32 {
	var r, g, bl, n uint32
	x0 := col * termBlockW
	y0 := halfRow * termBlockH
	for y := y0; y < y0+termBlockH; y++ {
		for x := x0; x < x0+termBlockW; x++ {
			rgb := frame[y*ppu.ScreenWidth+x]
			r += rgb >> 16 & 0xFF
			g += rgb >> 8 & 0xFF
			bl += rgb & 0xFF
			n++
		}
	}
	return (r/n)<<16 | (g/n)<<8 | bl/n
}

func hexColor(rgb uint32) string {
	return fmt.Sprintf("#%06X", rgb&0xFFFFFF)
}

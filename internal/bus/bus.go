// Package bus wires the CPU, PPU, APU, cartridge and controllers
// together and drives them in lockstep: for every CPU cycle the PPU
// advances three dots and the APU one cycle.
package bus

import (
	"fmt"

	"github.com/fittysix/oxidenes/internal/apu"
	"github.com/fittysix/oxidenes/internal/cartridge"
	"github.com/fittysix/oxidenes/internal/cpu"
	"github.com/fittysix/oxidenes/internal/input"
	"github.com/fittysix/oxidenes/internal/memory"
	"github.com/fittysix/oxidenes/internal/ppu"
)

// Bus owns the full console state.
type Bus struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Memory    *memory.Memory
	PPUMemory *memory.PPUMemory
	Input     *input.Ports

	cart *cartridge.Cartridge

	cpuCycles uint64
	ppuCycles uint64
	frames    uint64

	// dmaStall holds OAM DMA cycles to charge against the current
	// instruction; pendingStall holds DMC fetch cycles charged before
	// the next one.
	dmaStall     uint64
	pendingStall uint64

	frameReady bool
}

// New assembles a console. A cartridge must be inserted before
// stepping.
func New(sampleRate int) *Bus {
	b := &Bus{
		APU:   apu.New(sampleRate),
		Input: input.NewPorts(),
	}
	b.PPUMemory = memory.NewPPUMemory(nil)
	b.PPU = ppu.New(b.PPUMemory)
	b.Memory = memory.New(b.PPU, b.APU, b.Input, nil)
	b.Memory.SetDMAHandler(b.oamDMA)
	b.APU.SetMemory(b.Memory)
	b.CPU = cpu.New(b.Memory)
	return b
}

// InsertCartridge attaches a cartridge and resets the console.
func (b *Bus) InsertCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.Memory.SetCartridge(cart)
	b.PPUMemory.SetCartridge(cart)
	b.Reset()
}

// Cartridge returns the inserted cartridge, or nil.
func (b *Bus) Cartridge() *cartridge.Cartridge { return b.cart }

// Reset cold-boots every unit.
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.CPU.Reset()
	b.cpuCycles = 0
	b.ppuCycles = 0
	b.frames = 0
	b.dmaStall = 0
	b.pendingStall = 0
	b.frameReady = false
}

// CPUCycles returns total CPU cycles executed.
func (b *Bus) CPUCycles() uint64 { return b.cpuCycles }

// PPUCycles returns total PPU dots executed.
func (b *Bus) PPUCycles() uint64 { return b.ppuCycles }

// Frames returns the number of completed frames.
func (b *Bus) Frames() uint64 { return b.frames }

// Step executes one CPU instruction, catches the PPU and APU up, and
// services any interrupt that became pending. It returns the cycles of
// the instruction plus any OAM DMA it triggered; DMC stall and
// interrupt entry cycles are ticked as well but not included.
func (b *Bus) Step() (uint64, error) {
	// Cycles the DMC stole from the previous window are burned before
	// the next fetch.
	if b.pendingStall > 0 {
		stall := b.pendingStall
		b.pendingStall = 0
		b.tick(stall)
	}

	cycles, err := b.CPU.Step()
	if err != nil {
		return 0, fmt.Errorf("bus: halted after %d cycles: %w", b.cpuCycles, err)
	}

	// OAM DMA triggered inside the instruction suspends the CPU.
	cycles += b.dmaStall
	b.dmaStall = 0

	b.tick(cycles)

	// PPU side effects land before the CPU observes interrupts; NMI
	// outranks IRQ, and taking it masks the level-held IRQ line.
	if b.PPU.TakeNMI() {
		b.tick(b.CPU.NMI())
	}
	if b.irqAsserted() {
		b.tick(b.CPU.IRQ())
	}

	if b.ppuCycles != 3*b.cpuCycles {
		panic(fmt.Sprintf("bus: clock skew, %d PPU dots vs %d CPU cycles", b.ppuCycles, b.cpuCycles))
	}

	if b.PPU.TakeFrame() {
		b.frames++
		b.frameReady = true
	}
	return cycles, nil
}

// RunFrame steps until the PPU completes the visible raster.
func (b *Bus) RunFrame() error {
	for {
		if _, err := b.Step(); err != nil {
			return err
		}
		if b.frameReady {
			b.frameReady = false
			return nil
		}
	}
}

// tick advances the PPU and APU for a window of CPU cycles.
func (b *Bus) tick(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		b.PPU.Step()
		b.PPU.Step()
		b.PPU.Step()
		b.APU.Step()
	}
	b.cpuCycles += cycles
	b.ppuCycles += cycles * 3
	b.pendingStall += b.APU.TakeStall()
}

func (b *Bus) irqAsserted() bool {
	if b.APU.IRQPending() {
		return true
	}
	return b.cart != nil && b.cart.IRQPending()
}

// oamDMA copies a 256-byte page into OAM. The transfer takes 513
// cycles, 514 when it starts on an odd CPU cycle.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		b.PPU.WriteOAM(b.Memory.Read(base + i))
	}
	b.dmaStall += 513
	if b.cpuCycles&0x01 != 0 {
		b.dmaStall++
	}
}

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestROM writes a minimal NROM image whose program enables NMI
// and spins.
func writeTestROM(t *testing.T, battery bool) string {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x05, 0x80, // JMP $8005
	})
	prg[0x3FFA], prg[0x3FFB] = 0x10, 0x80 // NMI -> RTI below
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0x80
	prg[0x3FFE], prg[0x3FFF] = 0x10, 0x80
	prg[0x0010] = 0x40 // RTI

	header := make([]byte, 16)
	copy(header, "NES\x1a")
	header[4] = 1
	header[5] = 1
	if battery {
		header[6] = 0x02
	}

	rom := append(header, prg...)
	rom = append(rom, make([]byte, 0x2000)...)

	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	application, err := New(cfgPath)
	require.NoError(t, err)
	application.Config().Video.Backend = "headless"
	return application
}

func TestRunWithoutROMFails(t *testing.T) {
	application := newTestApp(t)
	assert.Error(t, application.Run())
}

func TestLoadROMRejectsGarbage(t *testing.T) {
	application := newTestApp(t)
	path := filepath.Join(t.TempDir(), "bad.nes")
	require.NoError(t, os.WriteFile(path, []byte("not a rom"), 0o644))
	assert.Error(t, application.LoadROM(path))
}

func TestEmulatorRunsFrames(t *testing.T) {
	application := newTestApp(t)
	require.NoError(t, application.LoadROM(writeTestROM(t, false)))

	emu := application.Emulator()
	for i := 0; i < 3; i++ {
		require.NoError(t, emu.RunFrame())
	}
	assert.Equal(t, uint64(3), emu.Bus().Frames())
	assert.Equal(t, emu.Bus().CPUCycles()*3, emu.Bus().PPUCycles())
}

func TestEmulatorLatchesButtonsPerFrame(t *testing.T) {
	application := newTestApp(t)
	require.NoError(t, application.LoadROM(writeTestROM(t, false)))

	emu := application.Emulator()
	emu.SetButtons(0, [8]bool{true}) // A pressed
	require.NoError(t, emu.RunFrame())

	b := emu.Bus()
	b.Memory.Write(0x4016, 0x01)
	b.Memory.Write(0x4016, 0x00)
	assert.Equal(t, uint8(1), b.Memory.Read(0x4016)&0x01)
}

func TestCleanupWritesBatterySave(t *testing.T) {
	application := newTestApp(t)
	romPath := writeTestROM(t, true)
	require.NoError(t, application.LoadROM(romPath))

	application.Emulator().Bus().Memory.Write(0x6000, 0x5A)
	require.NoError(t, application.Cleanup())

	data, err := os.ReadFile(romPath + ".sav")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x5A), data[0])
}

func TestAudioSamplesReachQueue(t *testing.T) {
	application := newTestApp(t)
	require.NoError(t, application.LoadROM(writeTestROM(t, false)))

	require.NoError(t, application.Emulator().RunFrame())
	require.NoError(t, application.Emulator().RunFrame())
	// ~734 samples per full frame at 44.1kHz (the first frame out of
	// reset is a little short); the queue holds 4 callback buffers
	// (1764) so nothing drops.
	assert.Greater(t, application.queue.Len(), 1300)
	assert.Zero(t, application.queue.Dropped())
}

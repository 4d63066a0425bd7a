package audio

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// queueReader adapts a SampleQueue to the 16-bit little-endian stereo
// stream the playback context consumes.
type queueReader struct {
	queue *SampleQueue
}

func (r *queueReader) Read(p []byte) (int, error) {
	// 4 bytes per frame: left and right int16.
	n := len(p) / 4 * 4
	for i := 0; i < n; i += 4 {
		sample := r.queue.Pop()
		v := int16(clamp(sample) * math.MaxInt16)
		p[i] = byte(v)
		p[i+1] = byte(v >> 8)
		p[i+2] = byte(v)
		p[i+3] = byte(v >> 8)
	}
	return n, nil
}

func clamp(s float32) float64 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return float64(s)
}

// Player streams queue contents to the host audio device.
type Player struct {
	player *audio.Player
}

// NewPlayer opens the playback device at the given rate and starts
// draining the queue. The underlying context is process-wide; only one
// player stack may exist at a time.
func NewPlayer(queue *SampleQueue, sampleRate int, volume float64, latency time.Duration) (*Player, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}

	player, err := ctx.NewPlayer(&queueReader{queue: queue})
	if err != nil {
		return nil, err
	}
	if latency > 0 {
		player.SetBufferSize(latency)
	}
	player.SetVolume(volume)
	player.Play()
	return &Player{player: player}, nil
}

// SetVolume adjusts playback volume in [0,1].
func (p *Player) SetVolume(volume float64) {
	p.player.SetVolume(volume)
}

// Close stops playback and releases the device player.
func (p *Player) Close() error {
	return p.player.Close()
}

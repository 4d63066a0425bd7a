package graphics

import "time"

// HeadlessBackend runs the core with no presentation at all, pacing
// frames against the NTSC cadence. Tests and benchmarks use it.
type HeadlessBackend struct {
	cfg Config

	// Throttle can be disabled for run-as-fast-as-possible tests.
	Throttle bool
}

// NewHeadlessBackend creates the windowless backend.
func NewHeadlessBackend(cfg Config) *HeadlessBackend {
	return &HeadlessBackend{cfg: cfg, Throttle: true}
}

func (b *HeadlessBackend) Name() string { return "headless" }

// Run drives the core until the frame limit is hit or it fails.
func (b *HeadlessBackend) Run(core Core) error {
	const frameDuration = 16667 * time.Microsecond

	var frames uint64
	last := time.Now()
	for {
		if err := core.RunFrame(); err != nil {
			return err
		}
		frames++
		if b.cfg.FrameLimit > 0 && frames >= b.cfg.FrameLimit {
			return nil
		}

		if b.Throttle {
			elapsed := time.Since(last)
			if elapsed < frameDuration {
				time.Sleep(frameDuration - elapsed)
			}
			last = time.Now()
		}
	}
}

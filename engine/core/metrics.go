package core

import (
	"sync"

	"github.com/spaghettifunk/softraster/engine/containers"
)

const AVG_COUNT int = 30

// Metrics tracks frame timings. Safe for concurrent use: frames complete on
// worker goroutines while readers (the HUD, the application) poll.
type Metrics struct {
	mu                 sync.Mutex
	frameTimes         *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{
		frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records one frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameMS := frameElapsedTime * 1000.0
	m.frameTimes.Push(frameMS)

	sum := 0.0
	for _, v := range m.frameTimes.Values() {
		sum += v
	}
	m.msAvg = sum / float64(m.frameTimes.Len())

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames) * 1000 / m.accumulatedFrameMS
		m.accumulatedFrameMS = 0
		m.frames = 0
	} else if m.fps == 0 && frameMS > 0 {
		m.fps = 1000 / frameMS
	}
	m.totalFrames++
}

func (m *Metrics) FPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msAvg
}

func (m *Metrics) TotalFrames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalFrames
}

func (m *Metrics) Frame() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps, m.msAvg
}

package audio

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"step-synth/debug"
)

const (
	// DefaultSampleRate is the engine render rate in Hz
	DefaultSampleRate = 44100

	channelCount     = 2
	bytesPerSample   = 2 // int16
	bytesPerFrame    = channelCount * bytesPerSample
	otoBufferSeconds = 0.05
)

// Engine owns the audio clock, the scheduled-task queue, and the render
// graph. It renders all live voices into the EffectsBus and feeds the result
// to the output device as 16-bit stereo PCM.
//
// Time inside the engine is sample time: Now() is the number of rendered
// samples divided by the sample rate. Voice lifecycle steps are tasks keyed
// by absolute engine time and drained sample-accurately during Read.
type Engine struct {
	sampleRate float64
	bus        *EffectsBus

	mu       sync.Mutex
	voices   []*voice
	tasks    taskQueue
	taskSeq  uint64
	rendered int64 // samples rendered so far

	// onDispose is called after the engine lock is released when a voice's
	// disposal task runs; the Manager uses it to clear the busy registry.
	// Guarded by mu: the render goroutine may already be pulling samples
	// when the hook is installed.
	onDispose func(pitch int, stopAt float64)

	otoCtx *oto.Context
	player oto.Player

	mix []float64 // scratch mono block
}

// NewEngine creates an engine and its effects bus. No audio device is opened
// until Start; tests drive Read directly.
func NewEngine(sampleRate float64) (*Engine, error) {
	bus, err := NewEffectsBus(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("effects bus: %w", err)
	}
	return &Engine{
		sampleRate: sampleRate,
		bus:        bus,
	}, nil
}

// SampleRate returns the render rate in Hz
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Bus returns the shared effects bus
func (e *Engine) Bus() *EffectsBus { return e.bus }

// Now returns the current audio-clock time in seconds
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.rendered) / e.sampleRate
}

// Start opens the output device and begins pulling samples
func (e *Engine) Start() error {
	ctx, ready, err := oto.NewContext(int(e.sampleRate), channelCount, bytesPerSample)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	e.otoCtx = ctx
	e.player = ctx.NewPlayer(e)
	if p, ok := e.player.(oto.BufferSizeSetter); ok {
		p.SetBufferSize(int(otoBufferSeconds*e.sampleRate) * bytesPerFrame)
	}
	e.player.Play()
	debug.Log("engine", "started, sampleRate=%v", e.sampleRate)
	return nil
}

// Close stops the output device. Voices already triggered finish their
// scheduled teardown the next time samples are pulled; nothing is cut short.
func (e *Engine) Close() error {
	if e.player != nil {
		return e.player.Close()
	}
	return nil
}

// startVoice registers a voice and schedules its full lifetime:
// attack at start, release at start+duration, then the click-safe teardown
// (gain zero-ramp, oscillator stop, disposal), each strictly after the last.
func (e *Engine) startVoice(v *voice, duration float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.voices = append(e.voices, v)
	e.schedule(v.startTime, taskAttack, v)
	e.schedule(v.startTime+duration, taskRelease, v)
	e.schedule(v.stopAt, taskZeroRamp, v)
	// one extra sample after the ramp so rounding can never stop the
	// oscillator on the sample the gain is still reaching zero
	pad := 1.0 / e.sampleRate
	e.schedule(v.stopAt+zeroRampSeconds+pad, taskStopOsc, v)
	e.schedule(v.stopAt+zeroRampSeconds+pad+disposeLagSeconds, taskDispose, v)
}

// setDisposeHook installs the voice-disposal callback
func (e *Engine) setDisposeHook(fn func(pitch int, stopAt float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDispose = fn
}

// schedule pushes a task; caller holds e.mu
func (e *Engine) schedule(at float64, kind taskKind, v *voice) {
	e.taskSeq++
	e.tasks.push(&task{at: at, seq: e.taskSeq, kind: kind, voice: v})
}

// ActiveVoices returns how many voices are registered (for the UI)
func (e *Engine) ActiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.voices)
}

// Read implements io.Reader for the output device: it renders the next
// len(p)/4 frames of 16-bit stereo PCM. It never returns an error; silence is
// valid output.
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	e.mu.Lock()
	if cap(e.mix) < frames {
		e.mix = make([]float64, frames)
	}
	mix := e.mix[:frames]

	var disposed []*voice
	for i := 0; i < frames; i++ {
		now := float64(e.rendered) / e.sampleRate

		// run every lifecycle step due at this sample, in scheduled order
		for t := e.tasks.popDue(now); t != nil; t = e.tasks.popDue(now) {
			if d := e.runTask(t); d != nil {
				disposed = append(disposed, d)
			}
		}

		s := 0.0
		for _, v := range e.voices {
			s += v.sample()
		}
		mix[i] = s
		e.rendered++
	}

	if len(disposed) > 0 {
		e.sweep()
	}
	notify := e.onDispose
	e.mu.Unlock()

	// the bus guards itself; parameter setters may run concurrently
	if e.bus != nil {
		e.bus.Process(mix)
	}

	for i, s := range mix {
		v := int16(clamp(s, -1, 1) * 32767)
		p[i*4+0] = byte(v)
		p[i*4+1] = byte(v >> 8)
		p[i*4+2] = byte(v)
		p[i*4+3] = byte(v >> 8)
	}

	// notify the manager after the lock is released (lock order: the
	// manager's registry lock is never held while waiting on e.mu)
	if notify != nil {
		for _, v := range disposed {
			notify(v.pitch, v.stopAt)
		}
	}

	return frames * bytesPerFrame, nil
}

// runTask applies one lifecycle step; returns the voice if it was disposed.
// Caller holds e.mu.
func (e *Engine) runTask(t *task) *voice {
	v := t.voice
	switch t.kind {
	case taskAttack:
		v.env.gateOn()
	case taskRelease:
		v.env.gateOff()
	case taskZeroRamp:
		v.beginZeroRamp(e.sampleRate)
	case taskStopOsc:
		v.stopped = true
	case taskDispose:
		v.disposed = true
		return v
	}
	return nil
}

// sweep drops disposed voices; caller holds e.mu
func (e *Engine) sweep() {
	kept := e.voices[:0]
	for _, v := range e.voices {
		if !v.disposed {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(e.voices); i++ {
		e.voices[i] = nil
	}
	e.voices = kept
}

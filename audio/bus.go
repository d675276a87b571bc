package audio

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"
)

// EffectsBus is the shared signal path every voice feeds into:
// reverb -> compressor -> master gain -> limiter. Built once per process;
// parameter setters apply live without rebuilding the chain.
type EffectsBus struct {
	mu sync.Mutex

	reverb     *reverb.Reverb
	compressor *dynamics.Compressor
	limiter    *dynamics.Limiter

	reverbMix  float64
	roomSize   float64
	masterGain float64
}

// NewEffectsBus constructs the chain for the given sample rate
func NewEffectsBus(sampleRate float64) (*EffectsBus, error) {
	compressor, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("compressor: %w", err)
	}
	limiter, err := dynamics.NewLimiter(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("limiter: %w", err)
	}
	b := &EffectsBus{
		reverb:     reverb.NewReverb(),
		compressor: compressor,
		limiter:    limiter,
		reverbMix:  0.3,
		roomSize:   0.6,
		masterGain: 0.8,
	}

	b.reverb.SetWet(b.reverbMix)
	b.reverb.SetDry(1 - b.reverbMix)
	b.reverb.SetRoomSize(b.roomSize)
	b.reverb.SetDamp(0.4)

	if err := b.compressor.SetSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("compressor sample rate: %w", err)
	}
	if err := b.compressor.SetThreshold(-18); err != nil {
		return nil, fmt.Errorf("compressor threshold: %w", err)
	}
	if err := b.compressor.SetRatio(4); err != nil {
		return nil, fmt.Errorf("compressor ratio: %w", err)
	}
	if err := b.compressor.SetAttack(5); err != nil {
		return nil, fmt.Errorf("compressor attack: %w", err)
	}
	if err := b.compressor.SetRelease(120); err != nil {
		return nil, fmt.Errorf("compressor release: %w", err)
	}

	if err := b.limiter.SetSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("limiter sample rate: %w", err)
	}
	if err := b.limiter.SetThreshold(-1); err != nil {
		return nil, fmt.Errorf("limiter threshold: %w", err)
	}
	if err := b.limiter.SetRelease(50); err != nil {
		return nil, fmt.Errorf("limiter release: %w", err)
	}

	return b, nil
}

// SetReverbMix sets the wet/dry balance (0 = dry, 1 = fully wet)
func (b *EffectsBus) SetReverbMix(mix float64) {
	mix = clamp(mix, 0, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reverbMix = mix
	b.reverb.SetWet(mix)
	b.reverb.SetDry(1 - mix)
}

// ReverbMix returns the current wet/dry balance
func (b *EffectsBus) ReverbMix() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reverbMix
}

// SetRoomSize sets the reverb room size (0..1)
func (b *EffectsBus) SetRoomSize(size float64) {
	size = clamp(size, 0, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roomSize = size
	b.reverb.SetRoomSize(size)
}

// RoomSize returns the current reverb room size
func (b *EffectsBus) RoomSize() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.roomSize
}

// SetMasterGain sets the output gain (0..1)
func (b *EffectsBus) SetMasterGain(gain float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.masterGain = clamp(gain, 0, 1)
}

// MasterGain returns the current output gain
func (b *EffectsBus) MasterGain() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.masterGain
}

// Process runs one block of mixed voice output through the chain, in place
func (b *EffectsBus) Process(buf []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reverb.ProcessInPlace(buf)
	b.compressor.ProcessInPlace(buf)
	for i := range buf {
		buf[i] *= b.masterGain
	}
	b.limiter.ProcessInPlace(buf)
}

package audio

import (
	"math"
	"testing"
)

const testRate = 1000 // low rate keeps rendered sample counts small

// newTestEngine renders without an output device or effects chain
func newTestEngine() *Engine {
	return &Engine{sampleRate: testRate}
}

// renderSeconds pulls d seconds of audio through the engine
func renderSeconds(e *Engine, d float64) {
	frames := int(d * e.sampleRate)
	buf := make([]byte, frames*bytesPerFrame)
	e.Read(buf)
}

func testParams() SynthParams {
	p := DefaultParams()
	p.Attack = 0.01
	p.Decay = 0.01
	p.Sustain = 0.8
	p.Release = 0.2
	p.CleanupEpsilon = 0.03
	return p
}

func TestTriggerBusyGuard(t *testing.T) {
	e := newTestEngine()
	m := NewManager(e)
	p := testParams()

	// trigger(60, 0.25) at t=0: stopAt = 0 + 0.25 + 0.2 + 0.03 = 0.48
	if !m.Trigger(60, 0.25, p) {
		t.Fatal("first trigger rejected")
	}

	renderSeconds(e, 0.3)
	if m.Trigger(60, 0.25, p) {
		t.Error("retrigger at t=0.3 accepted, want rejection until near 0.48")
	}

	renderSeconds(e, 0.2) // t = 0.5
	if !m.Trigger(60, 0.25, p) {
		t.Error("trigger at t=0.5 rejected, busy window should have expired")
	}
}

func TestTriggerIndependentPitches(t *testing.T) {
	e := newTestEngine()
	m := NewManager(e)
	p := testParams()

	if !m.Trigger(60, 0.25, p) {
		t.Fatal("pitch 60 rejected")
	}
	if !m.Trigger(64, 0.25, p) {
		t.Error("pitch 64 rejected while 60 busy; pitches must be independent")
	}
	if !m.Trigger(67, 0.25, p) {
		t.Error("pitch 67 rejected while 60 and 64 busy")
	}
	if got := m.BusyCount(); got != 3 {
		t.Errorf("busy count = %d, want 3", got)
	}
}

func TestGainReachesZeroBeforeOscillatorStop(t *testing.T) {
	e := newTestEngine()
	m := NewManager(e)
	p := testParams()

	m.Trigger(60, 0.1, p)
	stopAt := 0.1 + p.Release + p.CleanupEpsilon // 0.33

	// the oscillator stops at 0.336 and disposal runs at 0.341; render to
	// the middle of that window
	renderSeconds(e, stopAt+zeroRampSeconds+4.5/testRate)

	e.mu.Lock()
	if len(e.voices) != 1 {
		e.mu.Unlock()
		t.Fatalf("voice count = %d, want 1 (not yet disposed)", len(e.voices))
	}
	v := e.voices[0]
	gain, stopped := v.gain, v.stopped
	e.mu.Unlock()

	if !stopped {
		t.Fatal("oscillator not stopped after teardown window")
	}
	if gain != 0 {
		t.Errorf("per-voice gain = %v at oscillator stop, want exactly 0", gain)
	}
}

func TestDisposalClearsBusyAndVoice(t *testing.T) {
	e := newTestEngine()
	m := NewManager(e)
	p := testParams()

	m.Trigger(60, 0.1, p)
	renderSeconds(e, 1.0)

	if got := e.ActiveVoices(); got != 0 {
		t.Errorf("voices alive after full lifetime = %d, want 0", got)
	}
	if got := m.BusyCount(); got != 0 {
		t.Errorf("busy entries after disposal = %d, want 0", got)
	}
}

func TestLateDisposalKeepsNewerBusyWindow(t *testing.T) {
	e := newTestEngine()
	m := NewManager(e)
	p := testParams()

	// voice 1: stopAt=0.33, stopped at 0.336, disposed at 0.341
	m.Trigger(60, 0.1, p)
	renderSeconds(e, 0.335)

	// retrigger before voice 1's disposal runs; its busy window has expired
	if !m.Trigger(60, 0.1, p) {
		t.Fatal("retrigger after busy window rejected")
	}
	wantStop := 0.335 + 0.1 + p.Release + p.CleanupEpsilon

	// run voice 1's disposal; it must not clobber voice 2's busy entry
	renderSeconds(e, 0.1)

	m.mu.Lock()
	got, ok := m.busy[60]
	m.mu.Unlock()
	if !ok {
		t.Fatal("busy entry for pitch 60 missing; late disposal clobbered it")
	}
	if math.Abs(got-wantStop) > 0.002 {
		t.Errorf("busy stop time = %v, want about %v", got, wantStop)
	}
}

func TestManagerAttachDuringRender(t *testing.T) {
	e := newTestEngine()

	// the output device starts pulling samples as soon as the engine is
	// up; attaching the manager afterwards must still be safe
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 16*bytesPerFrame)
		for {
			select {
			case <-stop:
				return
			default:
				e.Read(buf)
			}
		}
	}()

	m := NewManager(e)
	if !m.Trigger(60, 0.01, testParams()) {
		t.Fatal("trigger rejected")
	}
	close(stop)
	<-done

	renderSeconds(e, 1.0)
	if got := m.BusyCount(); got != 0 {
		t.Errorf("busy entries after disposal = %d, want 0", got)
	}
}

func TestTriggerAppliesRecordedReverb(t *testing.T) {
	bus, err := NewEffectsBus(testRate)
	if err != nil {
		t.Fatal(err)
	}
	e := &Engine{sampleRate: testRate, bus: bus}
	m := NewManager(e)

	p := testParams()
	p.ReverbMix = 0.9
	p.ReverbRoomSize = 0.2
	if !m.Trigger(60, 0.1, p) {
		t.Fatal("trigger rejected")
	}

	if got := bus.ReverbMix(); got != 0.9 {
		t.Errorf("bus reverb mix after trigger = %v, want the note's 0.9", got)
	}
	if got := bus.RoomSize(); got != 0.2 {
		t.Errorf("bus room size after trigger = %v, want the note's 0.2", got)
	}
}

func TestSilenceAfterVoiceEnds(t *testing.T) {
	e := newTestEngine()
	m := NewManager(e)
	m.Trigger(60, 0.05, testParams())

	renderSeconds(e, 1.0)

	frames := 100
	buf := make([]byte, frames*bytesPerFrame)
	e.Read(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want silence after all voices ended", i, b)
		}
	}
}

func TestPitchToFreq(t *testing.T) {
	cases := []struct {
		pitch int
		want  float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6256},
	}
	for _, c := range cases {
		got := PitchToFreq(c.pitch)
		if math.Abs(got-c.want) > 0.001 {
			t.Errorf("PitchToFreq(%d) = %v, want %v", c.pitch, got, c.want)
		}
	}
}

func TestParamsClamped(t *testing.T) {
	p := SynthParams{
		Attack:         -1,
		Decay:          0,
		Sustain:        1.5,
		Release:        -0.2,
		ReverbMix:      2,
		ReverbRoomSize: -1,
		CleanupEpsilon: -0.5,
	}.Clamped()

	if p.Wave != WaveSine {
		t.Errorf("empty wave clamped to %q, want sine", p.Wave)
	}
	if p.Attack < minSegmentSeconds || p.Decay < minSegmentSeconds || p.Release < minSegmentSeconds {
		t.Error("envelope segments not floored to minimum")
	}
	if p.Sustain != 1 || p.ReverbMix != 1 || p.ReverbRoomSize != 0 {
		t.Errorf("levels not clamped: sustain=%v mix=%v room=%v", p.Sustain, p.ReverbMix, p.ReverbRoomSize)
	}
	if p.CleanupEpsilon != 0 {
		t.Errorf("cleanup epsilon = %v, want 0", p.CleanupEpsilon)
	}
}

func TestEnvelopeShape(t *testing.T) {
	p := SynthParams{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.02}.Clamped()
	env := newEnvelope(p, testRate)
	env.gateOn()

	// attack: 10 samples to reach 1; the boundary must be exact, a ramp
	// built on accumulated float steps drifts a sample short of it
	var peak float64
	for i := 0; i < 10; i++ {
		peak = env.step()
	}
	if peak != 1 {
		t.Errorf("peak after attack = %v, want exactly 1", peak)
	}

	// decay: 10 samples down to sustain
	var lvl float64
	for i := 0; i < 10; i++ {
		lvl = env.step()
	}
	if lvl != 0.5 {
		t.Errorf("level after decay = %v, want exactly sustain 0.5", lvl)
	}

	// sustain holds
	for i := 0; i < 100; i++ {
		lvl = env.step()
	}
	if lvl != 0.5 {
		t.Errorf("sustain drifted to %v", lvl)
	}

	// release: 0.02s * 1000 = 20 steps of 1/20 from 0.5 -> hits 0 in 10
	env.gateOff()
	for i := 0; i < 20; i++ {
		lvl = env.step()
	}
	if lvl != 0 {
		t.Errorf("level after release = %v, want 0", lvl)
	}
	if env.stage != envDone {
		t.Error("envelope not done after release")
	}
}

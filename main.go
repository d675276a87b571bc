package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"step-synth/audio"
	"step-synth/config"
	"step-synth/debug"
	"step-synth/midi"
	"step-synth/preset"
	"step-synth/sequencer"
	"step-synth/theme"
	"step-synth/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if cfg.Debug {
		debug.Enable()
		defer debug.Disable()
	}

	// audio engine and the shared effects bus; the manager must be wired
	// in before Start hands the engine to the output device goroutine
	engine, err := audio.NewEngine(audio.DefaultSampleRate)
	if err != nil {
		fmt.Printf("audio engine: %v\n", err)
		os.Exit(1)
	}
	voices := audio.NewManager(engine)
	if err := engine.Start(); err != nil {
		fmt.Printf("audio device: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()
	engine.Bus().SetMasterGain(cfg.UI.LastMasterGain)

	// preset store (external collaborator: core only sees SynthParams)
	presetDir, err := preset.DefaultDir()
	if err != nil {
		fmt.Printf("preset dir: %v\n", err)
		os.Exit(1)
	}
	presets := preset.NewStore(presetDir)

	live := audio.NewLiveParams()
	if cfg.UI.LastPreset != "" {
		if p, err := presets.Load(cfg.UI.LastPreset); err == nil {
			live.Set(p)
		} else {
			debug.Log("preset", "restore %q: %v", cfg.UI.LastPreset, err)
		}
	}
	engine.Bus().SetReverbMix(live.Get().ReverbMix)
	engine.Bus().SetRoomSize(live.Get().ReverbRoomSize)

	// sequencer core
	seqPath, _ := sequencer.SequencePath()
	seq := sequencer.LoadSequence(seqPath)
	sel := sequencer.NewSelection()
	transport := sequencer.NewTransport()
	transport.SetStepDuration(cfg.UI.LastStepDuration)
	clock := sequencer.NewClock(seq, transport, voices)
	recorder := sequencer.NewRecorder(seq, sel, transport, voices, live)

	// MIDI keyboard input with hot-plug
	midiMgr := midi.NewManager(cfg.MIDI.PortName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.MIDI.AutoConnect {
		go midiMgr.Run(ctx)
	}

	m := tui.NewModel(engine, live, seq, sel, transport, clock, recorder, presets,
		cfg.UI.LastPreset, midiMgr, theme.Default())
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// persist surface state for next session
	cfg.UI.LastStepDuration = transport.StepDuration()
	cfg.UI.LastMasterGain = engine.Bus().MasterGain()
	if fm, ok := finalModel.(tui.Model); ok {
		cfg.UI.LastPreset = fm.LastPreset()
	}
	if err := cfg.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}
}

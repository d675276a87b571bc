package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"step-synth/audio"
	"step-synth/midi"
	"step-synth/preset"
	"step-synth/sequencer"
	"step-synth/theme"
)

// piano row: z=C up through comma, tracker style
var pianoRow = map[string]int{
	"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5,
	"g": 6, "b": 7, "h": 8, "n": 9, "j": 10, "m": 11, ",": 12,
}

// parameters the dial can edit, in tab order
var paramNames = []string{
	"attack", "decay", "sustain", "release", "reverb", "room", "master", "note len",
}

type Model struct {
	Engine    *audio.Engine
	Live      *audio.LiveParams
	Seq       *sequencer.Sequence
	Sel       *sequencer.Selection
	Transport *sequencer.Transport
	Clock     *sequencer.Clock
	Recorder  *sequencer.Recorder
	Presets   *preset.Store
	MIDI      *midi.Manager
	Theme     *theme.Theme

	octave     int // base octave for the piano row, C4 = 60 at octave 4
	paramIdx   int
	status     string
	lastPreset string

	// preset-name input mode
	naming      bool
	inputBuffer string

	quitting bool
}

type UpdateMsg struct{}

type LiveNoteMsg int

func NewModel(engine *audio.Engine, live *audio.LiveParams,
	seq *sequencer.Sequence, sel *sequencer.Selection, transport *sequencer.Transport,
	clock *sequencer.Clock, rec *sequencer.Recorder, presets *preset.Store,
	lastPreset string, midiMgr *midi.Manager, th *theme.Theme) Model {
	return Model{
		Engine:     engine,
		Live:       live,
		Seq:        seq,
		Sel:        sel,
		Transport:  transport,
		Clock:      clock,
		Recorder:   rec,
		Presets:    presets,
		MIDI:       midiMgr,
		Theme:      th,
		octave:     4,
		lastPreset: lastPreset,
	}
}

// LastPreset returns the name of the most recently saved or loaded preset,
// persisted across sessions in the app config
func (m Model) LastPreset() string {
	return m.lastPreset
}

func ListenForTicks(clock *sequencer.Clock) tea.Cmd {
	return func() tea.Msg {
		<-clock.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForNotes(m *midi.Manager) tea.Cmd {
	return func() tea.Msg {
		pitch := <-m.Notes()
		return LiveNoteMsg(pitch)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForTicks(m.Clock),
		ListenForNotes(m.MIDI),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}
		return m.updateKeys(msg)

	case UpdateMsg:
		return m, ListenForTicks(m.Clock)

	case LiveNoteMsg:
		m.Recorder.OnLiveNote(int(msg))
		return m, ListenForNotes(m.MIDI)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// piano row first so note keys never collide with bindings below
	if offset, ok := pianoRow[key]; ok {
		m.Recorder.OnLiveNote(m.octave*12 + 12 + offset)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.Clock.Stop()
		return m, tea.Quit

	case " ":
		if m.Clock.Running() {
			m.Clock.Stop()
		} else {
			m.Clock.Play(0)
		}

	case "enter":
		if !m.Clock.Running() {
			m.Clock.Play(m.Sel.First())
		}

	case "r":
		m.Clock.Stop()
		m.Transport.SetRecording(!m.Transport.Recording())

	case "1", "2", "3", "4", "5":
		m.Sel.SetTrack(int(key[0] - '1'))

	// note: letters in the piano row are taken; bindings below stick to
	// arrows, digits, and shifted letters
	case "left":
		m.Sel.Select(wrapSlot(m.Sel.First() - 1))

	case "right":
		m.Sel.Select(wrapSlot(m.Sel.First() + 1))

	case "V":
		m.Sel.SetMultiSelect(!m.Sel.MultiSelect())

	case "X", "backspace":
		if m.Seq.DeleteSelected(m.Sel, m.Transport) {
			m.Sel.SetMultiSelect(false)
			m.status = "deleted"
		} else {
			m.status = "can't delete while playing"
		}

	case "M":
		m.Seq.ToggleMute(m.Sel.ActiveTrack())

	case "+", "=":
		m.Transport.SetStepDuration(m.Transport.StepDuration() - 0.01)

	case "-", "_":
		m.Transport.SetStepDuration(m.Transport.StepDuration() + 0.01)

	case "o":
		if m.octave > 1 {
			m.octave--
		}
	case "p":
		if m.octave < 7 {
			m.octave++
		}

	case "tab":
		m.paramIdx = (m.paramIdx + 1) % len(paramNames)
	case "shift+tab":
		m.paramIdx = (m.paramIdx + len(paramNames) - 1) % len(paramNames)

	case "up":
		m.adjustParam(+1)
	case "down":
		m.adjustParam(-1)

	case "w":
		m.Live.Update(func(p *audio.SynthParams) { p.Wave = nextWave(p.Wave) })

	case "ctrl+s":
		m.naming = true
		m.inputBuffer = ""

	case "L":
		m.loadNextPreset()

	case "W":
		path, err := sequencer.SequencePath()
		if err == nil {
			err = m.Seq.Save(path)
		}
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
		} else {
			m.status = "sequence saved"
		}
	}

	return m, nil
}

func (m Model) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.inputBuffer != "" {
			if err := m.Presets.Save(m.inputBuffer, m.Live.Get()); err != nil {
				m.status = fmt.Sprintf("preset save failed: %v", err)
			} else {
				m.lastPreset = m.inputBuffer
				m.status = fmt.Sprintf("preset %q saved", m.inputBuffer)
			}
		}
		m.naming = false
	case "esc":
		m.naming = false
	case "backspace":
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.inputBuffer += msg.String()
		}
	}
	return m, nil
}

// loadNextPreset cycles through saved presets alphabetically
func (m *Model) loadNextPreset() {
	names, err := m.Presets.List()
	if err != nil || len(names) == 0 {
		m.status = "no presets"
		return
	}
	next := names[0]
	for i, n := range names {
		if n == m.lastPreset && i+1 < len(names) {
			next = names[i+1]
			break
		}
	}
	p, err := m.Presets.Load(next)
	if err != nil {
		m.status = fmt.Sprintf("preset load failed: %v", err)
		return
	}
	m.Live.Set(p)
	m.Engine.Bus().SetReverbMix(p.ReverbMix)
	m.Engine.Bus().SetRoomSize(p.ReverbRoomSize)
	m.lastPreset = next
	m.status = fmt.Sprintf("loaded %q", next)
}

// adjustParam nudges the dialed parameter up or down
func (m *Model) adjustParam(dir float64) {
	switch paramNames[m.paramIdx] {
	case "attack":
		m.Live.Update(func(p *audio.SynthParams) { p.Attack += dir * 0.01 })
	case "decay":
		m.Live.Update(func(p *audio.SynthParams) { p.Decay += dir * 0.01 })
	case "sustain":
		m.Live.Update(func(p *audio.SynthParams) { p.Sustain += dir * 0.05 })
	case "release":
		m.Live.Update(func(p *audio.SynthParams) { p.Release += dir * 0.02 })
	case "reverb":
		m.Live.Update(func(p *audio.SynthParams) { p.ReverbMix += dir * 0.05 })
		m.Engine.Bus().SetReverbMix(m.Live.Get().ReverbMix)
	case "room":
		m.Live.Update(func(p *audio.SynthParams) { p.ReverbRoomSize += dir * 0.05 })
		m.Engine.Bus().SetRoomSize(m.Live.Get().ReverbRoomSize)
	case "master":
		m.Engine.Bus().SetMasterGain(m.Engine.Bus().MasterGain() + dir*0.05)
	case "note len":
		m.Live.SetNoteDuration(m.Live.NoteDuration() + dir*0.05)
	}
}

func nextWave(w audio.Waveform) audio.Waveform {
	switch w {
	case audio.WaveSine:
		return audio.WaveTriangle
	case audio.WaveTriangle:
		return audio.WaveSaw
	case audio.WaveSaw:
		return audio.WaveSquare
	default:
		return audio.WaveSine
	}
}

func wrapSlot(i int) int {
	return ((i % sequencer.NumSlots) + sequencer.NumSlots) % sequencer.NumSlots
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	recStyle := lipgloss.NewStyle().Foreground(m.Theme.Warn())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())

	state := "STOP"
	if m.Clock.Running() {
		state = "PLAY"
	} else if m.Transport.Recording() {
		state = "REC "
	}
	stepMS := m.Transport.StepDuration() * 1000
	header := headerStyle.Render(fmt.Sprintf(
		"step-synth  %s  step:%3.0fms  oct:%d  voices:%d",
		state, stepMS, m.octave, m.Engine.ActiveVoices()))
	if m.Transport.Recording() {
		header += recStyle.Render("  ● recording")
	}

	// grid
	playhead := m.Transport.Playhead()
	activeTrack := m.Sel.ActiveTrack()
	selected := make(map[int]bool)
	for _, s := range m.Sel.Slots() {
		selected[s] = true
	}
	first := m.Sel.First()
	sym := m.Theme.Symbols

	var grid strings.Builder
	for t := 0; t < sequencer.NumTracks; t++ {
		label := fmt.Sprintf("T%d ", t+1)
		if m.Seq.Muted(t) {
			label = fmt.Sprintf("T%d%c", t+1, sym.Muted)
		}
		if t == activeTrack {
			grid.WriteString(activeStyle.Render(label))
		} else {
			grid.WriteString(dimStyle.Render(label))
		}
		grid.WriteString(" ")

		for s := 0; s < sequencer.NumSlots; s++ {
			hasNotes := m.Seq.HasNotes(t, s)
			var r rune
			switch {
			case m.Clock.Running() && s == playhead:
				r = sym.StepPlayhead
			case t == activeTrack && s == first:
				r = sym.CursorEmpty
				if hasNotes {
					r = sym.CursorNote
				}
			case t == activeTrack && selected[s]:
				r = sym.SelectEmpty
				if hasNotes {
					r = sym.SelectNote
				}
			case hasNotes:
				r = sym.StepNote
			default:
				r = sym.StepEmpty
			}

			cell := string(r) + " "
			switch {
			case t == activeTrack && (selected[s] || s == first):
				grid.WriteString(cursorStyle.Render(cell))
			case hasNotes:
				grid.WriteString(headerStyle.Render(cell))
			default:
				grid.WriteString(dimStyle.Render(cell))
			}
		}
		grid.WriteString("\n")
	}

	// parameter dial line
	p := m.Live.Get()
	values := []string{
		fmt.Sprintf("attack %.2f", p.Attack),
		fmt.Sprintf("decay %.2f", p.Decay),
		fmt.Sprintf("sustain %.2f", p.Sustain),
		fmt.Sprintf("release %.2f", p.Release),
		fmt.Sprintf("reverb %.2f", p.ReverbMix),
		fmt.Sprintf("room %.2f", p.ReverbRoomSize),
		fmt.Sprintf("master %.2f", m.Engine.Bus().MasterGain()),
		fmt.Sprintf("note len %.2f", m.Live.NoteDuration()),
	}
	var params strings.Builder
	params.WriteString(dimStyle.Render(fmt.Sprintf("wave:%s  ", p.Wave)))
	for i, v := range values {
		if i == m.paramIdx {
			params.WriteString(cursorStyle.Render("[" + v + "]"))
		} else {
			params.WriteString(dimStyle.Render(" " + v + " "))
		}
	}

	help := dimStyle.Render(
		"z..m:play  space:play/stop  enter:play@cursor  r:rec  1-5:track  left/right:slot  V:multi  X:del\n" +
			"tab:param  up/down:adjust  w:wave  o/p:octave  M:mute  +/-:tempo  ctrl+s:preset  L:load  W:save  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid.String())
	out.WriteString("\n")
	out.WriteString(params.String())
	out.WriteString("\n\n")
	out.WriteString(help)

	if m.naming {
		out.WriteString("\n")
		out.WriteString(cursorStyle.Render("preset name: " + m.inputBuffer + "▌"))
	} else if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}

	return out.String()
}

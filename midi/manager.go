package midi

import (
	"context"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver

	"step-synth/debug"
)

// Manager polls for MIDI input ports and keeps one Keyboard open, so a
// keyboard plugged in mid-session starts working without a restart. Pitches
// from whichever keyboard is connected are funneled into a single channel.
type Manager struct {
	mu       sync.Mutex
	keyboard *Keyboard
	wantPort string // preferred port name, empty = first available

	notes    chan int
	pollRate time.Duration
}

// NewManager creates a manager preferring the named port (may be empty)
func NewManager(portName string) *Manager {
	return &Manager{
		wantPort: portName,
		notes:    make(chan int, 32),
		pollRate: time.Second,
	}
}

// Notes returns the merged stream of played pitches
func (m *Manager) Notes() <-chan int {
	return m.notes
}

// Run polls for devices until ctx is done (blocking, run in a goroutine)
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.pollRate)
	defer ticker.Stop()

	m.scan()

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			if m.keyboard != nil {
				m.keyboard.Close()
				m.keyboard = nil
			}
			m.mu.Unlock()
			return
		case <-ticker.C:
			m.scan()
		}
	}
}

func (m *Manager) scan() {
	ports := gomidi.GetInPorts()

	m.mu.Lock()
	defer m.mu.Unlock()

	// drop the keyboard if its port vanished
	if m.keyboard != nil {
		found := false
		for _, p := range ports {
			if p.String() == m.keyboard.ID() {
				found = true
				break
			}
		}
		if !found {
			debug.Log("midi", "keyboard %q disconnected", m.keyboard.ID())
			m.keyboard.Close()
			m.keyboard = nil
		}
	}

	if m.keyboard != nil {
		return
	}

	port := m.pickPort(ports)
	if port == nil {
		return
	}

	kb, err := NewKeyboard(port.String(), port)
	if err != nil {
		debug.Log("midi", "open %q: %v", port.String(), err)
		return
	}
	m.keyboard = kb
	debug.Log("midi", "keyboard %q connected", kb.ID())

	go func() {
		for pitch := range kb.Notes() {
			select {
			case m.notes <- pitch:
			default:
			}
		}
	}()
}

func (m *Manager) pickPort(ports []drivers.In) drivers.In {
	if m.wantPort != "" {
		for _, p := range ports {
			if p.String() == m.wantPort {
				return p
			}
		}
		return nil
	}
	if len(ports) > 0 {
		return ports[0]
	}
	return nil
}

package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Keyboard listens to one MIDI input port and forwards note-on pitches.
// It is input-only: the synth renders its own audio, so nothing is echoed
// back out the port.
type Keyboard struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	noteChan chan int
}

// NewKeyboard opens a listener on the given port
func NewKeyboard(id string, inPort drivers.In) (*Keyboard, error) {
	kb := &Keyboard{
		id:       id,
		inPort:   inPort,
		noteChan: make(chan int, 32),
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		var channel, note, velocity uint8
		if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
			select {
			case kb.noteChan <- int(note):
			default:
				// drop rather than block the driver callback
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	kb.stopFunc = stop

	return kb, nil
}

// ID returns the port name this keyboard was opened on
func (kb *Keyboard) ID() string {
	return kb.id
}

// Notes returns the stream of played pitches
func (kb *Keyboard) Notes() <-chan int {
	return kb.noteChan
}

// Close stops listening
func (kb *Keyboard) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.noteChan)
	return nil
}

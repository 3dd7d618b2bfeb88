package translate

import (
	"encoding/json"
	"strings"

	"github.com/traylingo/traylingo/pkg/models"
)

// EventType classifies one decoded protocol event.
type EventType int

const (
	// EventContentDelta carries an increment of translated text.
	EventContentDelta EventType = iota
	// EventUsage carries the latest usage snapshot (last-write-wins).
	EventUsage
	// EventStop terminates the stream.
	EventStop
	// EventOther is a recognized data line of an unknown kind.
	EventOther
)

// Event is one structured protocol event produced from a data line.
type Event struct {
	Type  EventType
	Text  string
	Usage models.Usage
}

// Decoder reassembles SSE lines from a byte stream fed in arbitrary chunks.
// Line endings are normalized so a terminator split across two reads never
// corrupts a line. After the stream terminator the decoder is closed and
// discards all further input.
type Decoder struct {
	buf       string
	pendingCR bool
	closed    bool
}

// NewDecoder returns a Decoder in its initial accumulating state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Closed reports whether the stream terminator has been seen.
func (d *Decoder) Closed() bool {
	return d.closed
}

// Feed appends a chunk and returns the events completed by it.
func (d *Decoder) Feed(chunk []byte) []Event {
	if d.closed {
		return nil
	}

	s := string(chunk)

	// A chunk ending in '\r' might be half of a CRLF pair whose '\n'
	// arrives in the next read. Hold the '\r' back until we know.
	if d.pendingCR {
		d.pendingCR = false
		d.buf += "\n"
		s = strings.TrimPrefix(s, "\n")
	}
	if strings.HasSuffix(s, "\r") {
		d.pendingCR = true
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	d.buf += s

	var events []Event
	for {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			return events
		}
		line := strings.TrimSpace(d.buf[:idx])
		d.buf = d.buf[idx+1:]

		ev, ok := d.decodeLine(line)
		if !ok {
			continue
		}
		events = append(events, ev)
		if ev.Type == EventStop {
			// Terminal: drop everything buffered past the terminator.
			d.closed = true
			d.buf = ""
			d.pendingCR = false
			return events
		}
	}
}

// decodeLine converts one complete line into an event. Blank lines, event:
// markers, and malformed JSON are skipped without aborting the stream.
func (d *Decoder) decodeLine(line string) (Event, bool) {
	if line == "" || strings.HasPrefix(line, "event:") {
		return Event{}, false
	}
	data, found := strings.CutPrefix(line, "data: ")
	if !found {
		return Event{}, false
	}

	var raw models.StreamEvent
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return Event{}, false
	}

	switch raw.Type {
	case "content_block_delta":
		// Only block index 0 carries the translation; parallel blocks
		// would otherwise duplicate output.
		if raw.Index != nil && *raw.Index == 0 && raw.Delta != nil && raw.Delta.Text != nil {
			return Event{Type: EventContentDelta, Text: *raw.Delta.Text}, true
		}
		return Event{}, false
	case "message_delta":
		if raw.Usage != nil {
			return Event{Type: EventUsage, Usage: *raw.Usage}, true
		}
		return Event{}, false
	case "message_stop":
		return Event{Type: EventStop}, true
	default:
		return Event{Type: EventOther}, true
	}
}

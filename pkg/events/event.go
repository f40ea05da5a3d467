// Package events decodes the upstream chat service's line-oriented event
// vocabulary. The upstream emits newline-terminated units of the form
//
//	data: {"type":"token","token":"Hel"}
//
// interleaved with blank lines, keep-alive artifacts, and other noise that
// must be skipped without failing the stream.
//
// Two entry points share one decoder: Reader consumes a live byte stream
// incrementally, and ScanAll extracts events from an already-buffered body.
package events

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Marker is the prefix identifying a line as carrying an event payload.
const Marker = "data:"

// Kind discriminates the event variants the upstream emits.
type Kind int

const (
	// KindToken carries a chunk of assistant text to append to the answer.
	KindToken Kind = iota

	// KindDone signals the upstream finished producing output. No payload.
	KindDone

	// KindComplete carries the entire final answer in a single event. Some
	// upstream deployments emit it instead of, or in addition to, a token
	// stream.
	KindComplete
)

// Event is one decoded upstream event.
type Event struct {
	Kind Kind

	// Text is the payload for KindToken and KindComplete. Empty for KindDone.
	Text string
}

// payload is the duck-typed JSON object behind the marker. The "type" field
// discriminates the variant.
type payload struct {
	Type    string `json:"type"`
	Token   string `json:"token"`
	Content string `json:"content"`
}

// Decode classifies one logical line. The second return is false when the
// line is not a recognized event: no marker, invalid JSON, or an unknown
// type value. That outcome is never an error; the upstream interleaves
// noise with valid events and callers simply move on to the next line.
func Decode(line string) (Event, bool) {
	rest, ok := strings.CutPrefix(line, Marker)
	if !ok {
		return Event{}, false
	}
	return decodePayload(rest)
}

// decodePayload parses the portion of a line after the marker.
func decodePayload(raw string) (Event, bool) {
	raw = strings.TrimSpace(raw)

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Event{}, false
	}

	switch p.Type {
	case "token":
		return Event{Kind: KindToken, Text: p.Token}, true
	case "done":
		return Event{Kind: KindDone}, true
	case "complete":
		return Event{Kind: KindComplete, Text: p.Content}, true
	default:
		return Event{}, false
	}
}

// markerPattern matches the marker and the rest of its line wherever it
// occurs in a buffered body, not only at line starts. Buffered upstream
// bodies are sometimes re-wrapped or concatenated, so line boundaries
// cannot be trusted there.
var markerPattern = regexp.MustCompile(`data:[^\n]*`)

// ScanAll extracts every decodable event from a complete response body, in
// order of occurrence. Matches that fail to decode are skipped. ScanAll is a
// pure function of its input.
func ScanAll(body []byte) []Event {
	var evs []Event
	for _, m := range markerPattern.FindAllString(string(body), -1) {
		rest := strings.TrimPrefix(m, Marker)
		if ev, ok := decodePayload(rest); ok {
			evs = append(evs, ev)
		}
	}
	return evs
}

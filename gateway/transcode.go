package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/sidedoor/pkg/events"
	"github.com/papercomputeco/sidedoor/pkg/openai"
)

// transcodeStream reads upstream events from src and writes OpenAI-style
// stream chunks to w, one chunk per content-bearing event, finishing with a
// stop chunk and the [DONE] sentinel. Writes block until the client consumes
// them, so each chunk reaches the wire before the next event is decoded.
//
// A complete event cannot retract tokens that already left the building, so
// in the stream path its content is emitted as one more content chunk.
//
// Returns the number of content chunks written and the total content bytes.
func transcodeStream(w io.Writer, src io.Reader, id string, created int64, model string) (int, int, error) {
	r := events.NewReader(src)

	chunks := 0
	contentBytes := 0

	for {
		ev, err := r.Next()
		if err != nil {
			return chunks, contentBytes, fmt.Errorf("reading upstream stream: %w", err)
		}
		if ev == nil {
			break
		}

		switch ev.Kind {
		case events.KindToken, events.KindComplete:
			if err := writeChunk(w, openai.NewContentChunk(id, created, model, ev.Text)); err != nil {
				return chunks, contentBytes, err
			}
			chunks++
			contentBytes += len(ev.Text)
		case events.KindDone:
			// Terminal marker only. The stop chunk is written once below
			// whether or not the upstream bothered to send done.
		}
	}

	if err := writeChunk(w, openai.NewStopChunk(id, created, model)); err != nil {
		return chunks, contentBytes, err
	}

	if _, err := io.WriteString(w, openai.DoneSentinel); err != nil {
		return chunks, contentBytes, fmt.Errorf("writing done sentinel: %w", err)
	}

	return chunks, contentBytes, nil
}

// writeChunk encodes one stream chunk as a "data: {json}" frame.
func writeChunk(w io.Writer, chunk openai.StreamChunk) error {
	b, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("encoding stream chunk: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return fmt.Errorf("writing stream chunk: %w", err)
	}
	return nil
}

// transcodeAggregate scans a full upstream body and folds its events into
// the final answer text. Token events concatenate in order; a complete event
// either replaces everything seen so far or appends, per mode.
func transcodeAggregate(body []byte, mode CompleteMode) string {
	var sb strings.Builder

	for _, ev := range events.ScanAll(body) {
		switch ev.Kind {
		case events.KindToken:
			sb.WriteString(ev.Text)
		case events.KindComplete:
			if mode == CompleteAppend {
				sb.WriteString(ev.Text)
			} else {
				sb.Reset()
				sb.WriteString(ev.Text)
			}
		case events.KindDone:
			// Nothing to fold. Scanning continues past it regardless.
		}
	}

	return sb.String()
}

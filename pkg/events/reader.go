package events

import (
	"bufio"
	"io"
	"strings"
)

// Reader incrementally decodes events from an upstream byte stream.
//
// Network reads arrive with arbitrary chunk boundaries: a logical line may
// span several reads, or several lines may land in one. The reader buffers
// bytes until a full newline-terminated line is available before decoding,
// which also makes multi-byte characters split across reads harmless --
// bytes are only interpreted as text once the line is complete.
type Reader struct {
	br *bufio.Reader
}

// NewReader returns a Reader consuming the given upstream stream.
func NewReader(src io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(src)}
}

// Next returns the next decoded event, skipping blank lines and anything
// Decode rejects. It returns nil, nil when the stream is exhausted. A
// trailing line with no terminating newline is discarded at end of stream:
// it is incomplete and cannot be decoded safely.
//
// No bound is placed on line length; a pathologically unterminated stream
// grows the internal buffer without limit.
func (r *Reader) Next() (*Event, error) {
	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")
		if ev, ok := Decode(line); ok {
			return &ev, nil
		}
	}
}

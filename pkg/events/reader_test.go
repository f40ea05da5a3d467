package events

import (
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// chunkedReader serves a fixed sequence of byte chunks, one per Read call,
// to simulate arbitrary network split points.
type chunkedReader struct {
	chunks [][]byte
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

// drain collects all events from a reader until exhaustion.
func drain(r *Reader) []Event {
	var evs []Event
	for {
		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		if ev == nil {
			return evs
		}
		evs = append(evs, *ev)
	}
}

var _ = Describe("Reader", func() {
	stream := "data: {\"type\":\"token\",\"token\":\"Hel\"}\n" +
		"\n" +
		": keep-alive\n" +
		"data: {\"type\":\"token\",\"token\":\"lo\"}\n" +
		"data: {\"type\":\"done\"}\n"

	wantTexts := func(evs []Event) {
		Expect(evs).To(HaveLen(3))
		Expect(evs[0]).To(Equal(Event{Kind: KindToken, Text: "Hel"}))
		Expect(evs[1]).To(Equal(Event{Kind: KindToken, Text: "lo"}))
		Expect(evs[2]).To(Equal(Event{Kind: KindDone}))
	}

	It("decodes a stream delivered as one chunk", func() {
		wantTexts(drain(NewReader(strings.NewReader(stream))))
	})

	It("decodes a stream delivered one byte at a time", func() {
		wantTexts(drain(NewReader(iotest.OneByteReader(strings.NewReader(stream)))))
	})

	It("decodes a stream split mid-line", func() {
		src := &chunkedReader{chunks: [][]byte{
			[]byte("data: {\"type\":\"tok"),
			[]byte("en\",\"token\":\"Hel\"}\ndata: {\"type\":\"token\",\"to"),
			[]byte("ken\":\"lo\"}\n"),
			[]byte("data: {\"type\":\"done\"}\n"),
		}}
		wantTexts(drain(NewReader(src)))
	})

	It("decodes a stream split inside a multi-byte character", func() {
		line := "data: {\"type\":\"token\",\"token\":\"héllo ✓\"}\n"
		raw := []byte(line)

		// Split one byte into the two-byte "é" and one byte into the
		// three-byte "✓".
		eAcute := strings.Index(line, "é")
		check := strings.Index(line, "✓")
		src := &chunkedReader{chunks: [][]byte{
			raw[:eAcute+1],
			raw[eAcute+1 : check+1],
			raw[check+1:],
		}}

		evs := drain(NewReader(src))
		Expect(evs).To(HaveLen(1))
		Expect(evs[0].Text).To(Equal("héllo ✓"))
	})

	It("yields the same events for any chunking of the same bytes", func() {
		whole := drain(NewReader(strings.NewReader(stream)))

		for size := 1; size <= len(stream); size++ {
			var chunks [][]byte
			for i := 0; i < len(stream); i += size {
				end := min(i+size, len(stream))
				chunks = append(chunks, []byte(stream[i:end]))
			}
			evs := drain(NewReader(&chunkedReader{chunks: chunks}))
			Expect(evs).To(Equal(whole), "chunk size %d", size)
		}
	})

	It("handles CRLF line endings", func() {
		src := strings.NewReader("data: {\"type\":\"token\",\"token\":\"a\"}\r\ndata: {\"type\":\"done\"}\r\n")
		evs := drain(NewReader(src))
		Expect(evs).To(HaveLen(2))
		Expect(evs[0].Text).To(Equal("a"))
	})

	It("discards a trailing unterminated line", func() {
		src := strings.NewReader("data: {\"type\":\"token\",\"token\":\"a\"}\ndata: {\"type\":\"token\",\"token\":\"trunc")
		evs := drain(NewReader(src))
		Expect(evs).To(HaveLen(1))
		Expect(evs[0].Text).To(Equal("a"))
	})

	It("skips noise lines without erroring", func() {
		src := strings.NewReader("bogus\n\ndata: oops not json\ndata: {\"type\":\"token\",\"token\":\"ok\"}\n")
		evs := drain(NewReader(src))
		Expect(evs).To(HaveLen(1))
		Expect(evs[0].Text).To(Equal("ok"))
	})

	It("returns nil, nil on an empty stream", func() {
		ev, err := NewReader(strings.NewReader("")).Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("keeps returning nil after exhaustion", func() {
		r := NewReader(strings.NewReader("data: {\"type\":\"done\"}\n"))
		drain(r)

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})
})

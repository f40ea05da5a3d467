package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	Context("with recognized events", func() {
		It("decodes a token event", func() {
			ev, ok := Decode(`data: {"type":"token","token":"Hel"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(KindToken))
			Expect(ev.Text).To(Equal("Hel"))
		})

		It("decodes a done event", func() {
			ev, ok := Decode(`data: {"type":"done"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(KindDone))
			Expect(ev.Text).To(BeEmpty())
		})

		It("decodes a complete event", func() {
			ev, ok := Decode(`data: {"type":"complete","content":"Hello world"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(KindComplete))
			Expect(ev.Text).To(Equal("Hello world"))
		})

		It("tolerates a marker with no space before the payload", func() {
			ev, ok := Decode(`data:{"type":"token","token":"x"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Text).To(Equal("x"))
		})

		It("tolerates surrounding whitespace around the payload", func() {
			ev, ok := Decode("data:   {\"type\":\"token\",\"token\":\"y\"}  ")
			Expect(ok).To(BeTrue())
			Expect(ev.Text).To(Equal("y"))
		})

		It("decodes an empty token payload", func() {
			ev, ok := Decode(`data: {"type":"token","token":""}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(KindToken))
			Expect(ev.Text).To(BeEmpty())
		})
	})

	Context("with lines that are not events", func() {
		It("rejects lines without the marker", func() {
			_, ok := Decode(`{"type":"token","token":"Hel"}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects blank lines", func() {
			_, ok := Decode("")
			Expect(ok).To(BeFalse())
		})

		It("rejects marker lines with invalid JSON", func() {
			_, ok := Decode("data: not json at all")
			Expect(ok).To(BeFalse())
		})

		It("rejects marker lines with truncated JSON", func() {
			_, ok := Decode(`data: {"type":"token","token":"Hel`)
			Expect(ok).To(BeFalse())
		})

		It("rejects unknown discriminator values", func() {
			_, ok := Decode(`data: {"type":"ping"}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects JSON without a discriminator", func() {
			_, ok := Decode(`data: {"token":"Hel"}`)
			Expect(ok).To(BeFalse())
		})

		It("rejects keep-alive comment lines", func() {
			_, ok := Decode(": keep-alive")
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("ScanAll", func() {
	It("extracts events in order of occurrence", func() {
		body := []byte("data: {\"type\":\"token\",\"token\":\"Hel\"}\n" +
			"data: {\"type\":\"token\",\"token\":\"lo\"}\n" +
			"data: {\"type\":\"done\"}\n")

		evs := ScanAll(body)
		Expect(evs).To(HaveLen(3))
		Expect(evs[0].Text).To(Equal("Hel"))
		Expect(evs[1].Text).To(Equal("lo"))
		Expect(evs[2].Kind).To(Equal(KindDone))
	})

	It("finds markers that are not at line starts", func() {
		// Re-wrapped upstream bodies can concatenate noise and events on
		// one line.
		body := []byte("some noise data: {\"type\":\"token\",\"token\":\"A\"}\n")

		evs := ScanAll(body)
		Expect(evs).To(HaveLen(1))
		Expect(evs[0].Text).To(Equal("A"))
	})

	It("skips unparseable matches", func() {
		body := []byte("data: garbage\n" +
			"data: {\"type\":\"token\",\"token\":\"ok\"}\n" +
			"data: {\"type\":\"mystery\"}\n")

		evs := ScanAll(body)
		Expect(evs).To(HaveLen(1))
		Expect(evs[0].Text).To(Equal("ok"))
	})

	It("returns nil for a body with no events", func() {
		Expect(ScanAll([]byte("nothing to see here\n"))).To(BeEmpty())
	})

	It("is idempotent over the same body", func() {
		body := []byte("data: {\"type\":\"token\",\"token\":\"a\"}\ndata: {\"type\":\"complete\",\"content\":\"ab\"}\n")

		first := ScanAll(body)
		second := ScanAll(body)
		Expect(second).To(Equal(first))
	})
})

package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/sidedoor/pkg/openai"
)

// parseFrames splits a chunk stream body into its decoded chunks, asserting
// on frame shape along the way. The terminal [DONE] frame is checked and
// excluded from the returned slice.
func parseFrames(body string) []openai.StreamChunk {
	Expect(strings.HasSuffix(body, "data: [DONE]\n\n")).To(BeTrue())

	frames := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
	Expect(len(frames)).To(BeNumerically(">=", 1))
	Expect(frames[len(frames)-1]).To(Equal("data: [DONE]"))

	chunks := make([]openai.StreamChunk, 0, len(frames)-1)
	for _, frame := range frames[:len(frames)-1] {
		payload, found := strings.CutPrefix(frame, "data: ")
		Expect(found).To(BeTrue(), "frame %q lacks data prefix", frame)

		var chunk openai.StreamChunk
		Expect(json.Unmarshal([]byte(payload), &chunk)).To(Succeed())
		chunks = append(chunks, chunk)
	}
	return chunks
}

var _ = Describe("Streaming chat completions", func() {
	var (
		upstreamBody string
		g            *Gateway
	)

	JustBeforeEach(func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, upstreamBody)
		}))
		DeferCleanup(srv.Close)

		var err error
		g, err = New(
			Config{
				ListenAddr:     ":0",
				SharedSecret:   testSecret,
				UpstreamURL:    srv.URL,
				UpstreamOrigin: "https://chat.example.com",
				Models:         []string{"sidedoor-chat"},
			},
			zap.NewNop(),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	makeRequest := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions",
			strings.NewReader(`{"model":"sidedoor-chat","stream":true,"messages":[{"role":"user","content":"hi"}]}`))
		req.Header.Set("Authorization", "Bearer "+testSecret)
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.server.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Context("with a token stream ending in done", func() {
		BeforeEach(func() {
			upstreamBody = "data: {\"type\":\"token\",\"token\":\"Hel\"}\n" +
				"data: {\"type\":\"token\",\"token\":\"lo\"}\n" +
				"data: {\"type\":\"done\"}\n"
		})

		It("responds with event-stream headers", func() {
			resp := makeRequest()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))
			Expect(resp.Header.Get("Cache-Control")).To(Equal("no-cache"))
		})

		It("emits one content chunk per token, in order", func() {
			resp := makeRequest()
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			chunks := parseFrames(string(raw))
			Expect(chunks).To(HaveLen(3))

			Expect(chunks[0].Choices[0].Delta.Content).To(Equal("Hel"))
			Expect(chunks[1].Choices[0].Delta.Content).To(Equal("lo"))
		})

		It("terminates with a stop chunk before the sentinel", func() {
			resp := makeRequest()
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			chunks := parseFrames(string(raw))
			last := chunks[len(chunks)-1]

			Expect(last.Choices[0].Delta.Content).To(BeEmpty())
			Expect(last.Choices[0].FinishReason).NotTo(BeNil())
			Expect(*last.Choices[0].FinishReason).To(Equal(openai.FinishStop))
		})

		It("shares one completion id and model across all chunks", func() {
			resp := makeRequest()
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			chunks := parseFrames(string(raw))
			Expect(chunks[0].ID).To(HavePrefix("chatcmpl-"))
			for _, chunk := range chunks {
				Expect(chunk.ID).To(Equal(chunks[0].ID))
				Expect(chunk.Model).To(Equal("sidedoor-chat"))
				Expect(chunk.Object).To(Equal(openai.ObjectChatCompletionChunk))
			}
		})
	})

	Context("with noise lines interleaved", func() {
		BeforeEach(func() {
			upstreamBody = "event: open\n" +
				"data: {\"type\":\"token\",\"token\":\"a\"}\n" +
				": keepalive\n" +
				"data: {\"unknown\":true}\n" +
				"data: {\"type\":\"token\",\"token\":\"b\"}\n" +
				"data: {\"type\":\"done\"}\n"
		})

		It("skips everything that is not a recognized event", func() {
			resp := makeRequest()
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			chunks := parseFrames(string(raw))
			Expect(chunks).To(HaveLen(3))
			Expect(chunks[0].Choices[0].Delta.Content).To(Equal("a"))
			Expect(chunks[1].Choices[0].Delta.Content).To(Equal("b"))
		})
	})

	Context("with a complete event", func() {
		BeforeEach(func() {
			upstreamBody = "data: {\"type\":\"token\",\"token\":\"par\"}\n" +
				"data: {\"type\":\"complete\",\"content\":\"partial plus the rest\"}\n" +
				"data: {\"type\":\"done\"}\n"
		})

		It("delivers the complete content as one more chunk", func() {
			resp := makeRequest()
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			chunks := parseFrames(string(raw))
			Expect(chunks).To(HaveLen(3))
			Expect(chunks[1].Choices[0].Delta.Content).To(Equal("partial plus the rest"))
		})
	})

	Context("with an upstream that sends nothing usable", func() {
		BeforeEach(func() {
			upstreamBody = "hello, this is not an event stream\n"
		})

		It("still closes the stream correctly", func() {
			resp := makeRequest()
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			chunks := parseFrames(string(raw))
			Expect(chunks).To(HaveLen(1))
			Expect(*chunks[0].Choices[0].FinishReason).To(Equal(openai.FinishStop))
		})
	})
})

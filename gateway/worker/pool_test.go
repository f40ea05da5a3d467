package worker

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestPool creates a worker pool whose log output is captured by an
// observer core. Callers should "wp.Close()" to drain enqueued jobs before
// asserting on recorded entries.
func newTestPool(queueSize uint) (*Pool, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	wp, err := NewPool(&Config{
		QueueSize: queueSize,
		Logger:    zap.New(core),
	})
	Expect(err).NotTo(HaveOccurred())

	return wp, logs
}

var _ = Describe("Worker Pool", func() {
	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			wp, _ := newTestPool(0)

			ok := wp.Enqueue(Job{
				RequestID: "req-1",
				Model:     "test-model",
				Status:    200,
			})
			Expect(ok).To(BeTrue())
			wp.Close()
		})

		It("records a completed-request summary for each job", func() {
			wp, logs := newTestPool(0)

			wp.Enqueue(Job{
				RequestID:    "req-1",
				Model:        "test-model",
				Streaming:    true,
				Status:       200,
				Chunks:       5,
				ContentBytes: 42,
				Duration:     120 * time.Millisecond,
			})
			wp.Close()

			entries := logs.FilterMessage("request completed").All()
			Expect(entries).To(HaveLen(1))

			fields := entries[0].ContextMap()
			Expect(fields["request_id"]).To(Equal("req-1"))
			Expect(fields["model"]).To(Equal("test-model"))
			Expect(fields["streaming"]).To(BeTrue())
			Expect(fields["chunks"]).To(Equal(int64(5)))
			Expect(fields["content_bytes"]).To(Equal(int64(42)))
		})

		It("preserves one summary per enqueued job", func() {
			wp, logs := newTestPool(0)

			for i := 0; i < 10; i++ {
				Expect(wp.Enqueue(Job{RequestID: "req", Model: "m", Status: 200})).To(BeTrue())
			}
			wp.Close()

			Expect(logs.FilterMessage("request completed").All()).To(HaveLen(10))
		})
	})

	Describe("Close", func() {
		It("drains queued jobs before returning", func() {
			wp, logs := newTestPool(64)

			for i := 0; i < 50; i++ {
				wp.Enqueue(Job{RequestID: "req", Model: "m", Status: 200})
			}
			wp.Close()

			Expect(logs.FilterMessage("request completed").All()).To(HaveLen(50))
		})
	})
})

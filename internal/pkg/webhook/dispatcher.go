package webhook

import (
	"log"
	"sync"

	"github.com/payhive/paygate/internal/pkg/nicepay"
)

// Dispatcher detaches webhook processing from the inbound request cycle.
// The processor expects a fast fixed acknowledgment and never waits for
// business processing, so the handler submits here and returns
// immediately; failures are captured in the webhook log by the service.
// Shutdown drains the queue so in-flight notifications are not lost on
// exit.
type Dispatcher struct {
	jobs    chan nicepay.WebhookPayload
	service *Service
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a bounded job buffer.
func NewDispatcher(bufferSize int, service *Service) *Dispatcher {
	return &Dispatcher{
		jobs:    make(chan nicepay.WebhookPayload, bufferSize),
		service: service,
	}
}

// Start launches workerCount processing goroutines.
func (d *Dispatcher) Start(workerCount int) {
	for i := 0; i < workerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for payload := range d.jobs {
		d.service.Process(payload)
	}
}

// Submit enqueues a payload without blocking. A full buffer is reported to
// the caller; the payload is processed synchronously there as a fallback
// so the notification is never dropped.
func (d *Dispatcher) Submit(payload nicepay.WebhookPayload) bool {
	select {
	case d.jobs <- payload:
		return true
	default:
		log.Printf("WARN webhook dispatch buffer full, processing order %s inline", payload.OrderID)
		return false
	}
}

// Shutdown stops accepting work and waits for the queue to drain.
func (d *Dispatcher) Shutdown() {
	close(d.jobs)
	d.wg.Wait()
}

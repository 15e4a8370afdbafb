package workers

import (
	"context"
	"log/slog"
	"time"
)

// DeliveryWorker bridges one room membership to its connection writer.
// It drains the private queue filled by the broker and forwards each line to
// the connection sink, preserving the broker's fan-out order. The worker
// terminates when its queue is closed, which happens when the broker removes
// the member.
type DeliveryWorker struct {
	room        string
	user        string
	queue       <-chan string
	sink        chan<- string
	sinkTimeout time.Duration
	log         *slog.Logger
}

func NewDeliveryWorker(room, user string, queue <-chan string,
	sink chan<- string, sinkTimeout time.Duration, log *slog.Logger) *DeliveryWorker {
	return &DeliveryWorker{
		room:        room,
		user:        user,
		queue:       queue,
		sink:        sink,
		sinkTimeout: sinkTimeout,
		log:         log,
	}
}

func (d *DeliveryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-d.queue:
			if !ok {
				d.log.Debug("Member queue closed, stopping delivery",
					"room", d.room, "user", d.user)
				return nil
			}
			d.forward(ctx, line)
		}
	}
}

// forward pushes one line into the connection sink. The timeout covers the
// window between a connection dying and its Leave being processed: a sink
// with no consumer left must not wedge this worker forever.
func (d *DeliveryWorker) forward(ctx context.Context, line string) {
	select {
	case d.sink <- line:
	case <-ctx.Done():
	case <-time.After(d.sinkTimeout):
		d.log.Warn("Connection sink stalled, dropping line",
			"room", d.room, "user", d.user)
	}
}

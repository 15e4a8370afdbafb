package workers

import (
	"chatd/contract"
	"chatd/domain/event"
	"context"
	"log/slog"
	"time"
)

// BrokerWorker is the actor owning one room. It is the only goroutine allowed
// to touch the member map; every join, leave, and chat line goes through its
// inbound queue and is applied in arrival order. The member map exactly
// mirrors the live delivery workers: an entry is created with its worker on
// Join and removed, closing the worker's queue, on Leave.
type BrokerWorker struct {
	room        string
	inbound     <-chan event.Event
	supervisor  contract.ISupervisor
	queueSize   int
	sinkTimeout time.Duration
	log         *slog.Logger
	members     map[string]chan string
}

func NewBrokerWorker(room string, inbound <-chan event.Event,
	supervisor contract.ISupervisor, queueSize int,
	sinkTimeout time.Duration, log *slog.Logger) *BrokerWorker {
	return &BrokerWorker{
		room:        room,
		inbound:     inbound,
		supervisor:  supervisor,
		queueSize:   queueSize,
		sinkTimeout: sinkTimeout,
		log:         log,
		members:     make(map[string]chan string),
	}
}

func (b *BrokerWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			b.log.Debug("Stopping broker", "room", b.room)
			return nil
		case evt, ok := <-b.inbound:
			if !ok {
				return nil
			}
			b.handle(ctx, evt)
		}
	}
}

func (b *BrokerWorker) handle(ctx context.Context, evt event.Event) {
	switch e := evt.(type) {
	case event.Join:
		b.join(ctx, e)
	case event.Leave:
		b.leave(e)
	case event.Chat:
		b.fanout(e.Line, e.User)
	default:
		b.log.Warn("Unknown broker event", "room", b.room, "user", evt.Username())
	}
}

// join binds a fresh member queue and delivery worker to the joining
// connection. A rejoin of an already present username replaces the previous
// entry: the stale queue is closed so its delivery worker exits, and output
// follows the new connection instead of the dead one.
func (b *BrokerWorker) join(ctx context.Context, e event.Join) {
	if stale, ok := b.members[e.User]; ok {
		b.log.Info("Replacing member connection", "room", b.room, "user", e.User)
		close(stale)
	}

	queue := make(chan string, b.queueSize)
	b.members[e.User] = queue
	b.supervisor.Start(ctx, NewDeliveryWorker(b.room, e.User, queue, e.Sink, b.sinkTimeout, b.log))

	b.fanout(e.Notice, "")
}

// leave drops the member entry. Closing the queue is the only signal the
// delivery worker gets; once the entry is gone, no further line can reach
// this member even if the worker is still draining.
func (b *BrokerWorker) leave(e event.Leave) {
	if queue, ok := b.members[e.User]; ok {
		close(queue)
		delete(b.members, e.User)
	}
	b.fanout(e.Notice, "")
}

// fanout enqueues the line on every member queue except skip's. Sends are
// independent and non-blocking: a full queue is logged and skipped so one
// stalled member cannot delay delivery to the others.
func (b *BrokerWorker) fanout(line, skip string) {
	for user, queue := range b.members {
		if user == skip {
			continue
		}
		select {
		case queue <- line:
		default:
			b.log.Warn("Member queue full, dropping line",
				"room", b.room, "user", user)
		}
	}
}

// Package runtime wires rooms to their brokers. It orchestrates the system
// without containing business logic or domain rules.
package runtime

import (
	"chatd/contract"
	"chatd/domain/event"
	"chatd/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry is the shared mapping from room name to the inbound queue of that
// room's broker. Lookups vastly outnumber inserts, hence the RWMutex. Rooms
// are never torn down: a registered handle stays valid for the process's
// lifetime.
type Registry struct {
	mu          sync.RWMutex
	log         *slog.Logger
	supervisor  contract.ISupervisor
	chatLog     contract.IChatLog
	bufferSize  int
	queueSize   int
	sinkTimeout time.Duration
	ctx         context.Context
	rooms       map[string]chan event.Event
}

func NewRegistry(log *slog.Logger, supervisor contract.ISupervisor,
	chatLog contract.IChatLog, bufferSize, queueSize int,
	sinkTimeout time.Duration) *Registry {
	return &Registry{
		log:         log,
		supervisor:  supervisor,
		chatLog:     chatLog,
		bufferSize:  bufferSize,
		queueSize:   queueSize,
		sinkTimeout: sinkTimeout,
		rooms:       make(map[string]chan event.Event),
	}
}

// Bootstrap captures the context brokers will run under and restores a broker
// for every room already present in the durable log, so rooms survive process
// restarts. Must be called once before the server accepts connections.
func (r *Registry) Bootstrap(ctx context.Context) error {
	r.ctx = ctx

	names, err := r.chatLog.ListRooms()
	if err != nil {
		return err
	}
	for _, name := range names {
		r.register(name)
	}
	if len(names) > 0 {
		r.log.Info("Restored rooms from durable log", "count", len(names))
	}
	return nil
}

// Create records the room durably, then registers its broker. A name already
// present in the durable store fails with ErrRoomNameTaken and leaves the
// registry untouched.
func (r *Registry) Create(name string) error {
	if err := r.chatLog.CreateRoom(name); err != nil {
		return err
	}
	r.register(name)
	r.log.Info("Room created", "room", name)
	return nil
}

// Lookup returns a copy of the broker's inbound handle.
func (r *Registry) Lookup(name string) (chan<- event.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inbound, ok := r.rooms[name]
	return inbound, ok
}

func (r *Registry) register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[name]; ok {
		return
	}
	inbound := make(chan event.Event, r.bufferSize)
	r.rooms[name] = inbound

	broker := workers.NewBrokerWorker(name, inbound, r.supervisor,
		r.queueSize, r.sinkTimeout, r.log)
	r.supervisor.Start(r.ctx, broker)
}

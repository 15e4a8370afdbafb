//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chatd/domain"
	"chatd/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
	Wait()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IChatLog is the durable log collaborator. It stores ordered room events and
// serves room listing and recent history. Every call is fallible and callers
// must report failures to the offending connection only.
type IChatLog interface {
	CreateRoom(name string) error
	ListRooms() ([]string, error)
	AppendEvent(room string, kind domain.EventKind, user, content string) (string, error)
	RecentMessages(room string) ([]string, error)
}

// IRegistry maps a room name to the inbound event queue of its broker.
// Lookup returns a send-only copy of the handle; once registered, a handle
// stays valid for the lifetime of the process.
type IRegistry interface {
	Create(name string) error
	Lookup(name string) (chan<- event.Event, bool)
}

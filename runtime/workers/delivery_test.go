package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeliveryWorker_ForwardsInOrder(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	queue := make(chan string, 10)
	sink := make(chan string, 10)
	worker := NewDeliveryWorker("lobby", "alice", queue, sink, time.Second, log)

	queue <- "first"
	queue <- "second"
	queue <- "third"
	close(queue)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	// Then every line reaches the sink in fan-out order
	req.Equal("first", receiveLine(t, req, sink))
	req.Equal("second", receiveLine(t, req, sink))
	req.Equal("third", receiveLine(t, req, sink))

	// Then the closed queue terminates the worker without error
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Worker should stop once its queue is closed")
	}
}

func TestDeliveryWorker_DropsOnStalledSink(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	queue := make(chan string, 10)
	// Given a sink nobody reads from
	sink := make(chan string)
	worker := NewDeliveryWorker("lobby", "alice", queue, sink, 20*time.Millisecond, log)

	queue <- "lost one"
	queue <- "lost two"
	close(queue)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	// Then both lines time out and the worker still terminates
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("A stalled sink must not wedge the worker")
	}
}

func TestDeliveryWorker_StopsOnContextCancel(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	queue := make(chan string)
	sink := make(chan string)
	worker := NewDeliveryWorker("lobby", "alice", queue, sink, time.Second, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Worker should stop on cancellation")
	}
}

func receiveLine(t *testing.T, req *require.Assertions, sink <-chan string) string {
	t.Helper()
	select {
	case line := <-sink:
		return line
	case <-time.After(time.Second):
		req.Fail("Timed out waiting for a line")
		return ""
	}
}

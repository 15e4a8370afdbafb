package server

import (
	"context"
	"io"
	"log/slog"
)

// ConnWriter owns all output to one client connection. Session replies and
// room delivery workers both enqueue lines here, so socket writes never
// interleave and their relative order is fixed by the queue.
type ConnWriter struct {
	conn  io.Writer
	lines chan string
	log   *slog.Logger
}

func NewConnWriter(conn io.Writer, buffer int, log *slog.Logger) *ConnWriter {
	return &ConnWriter{conn: conn, lines: make(chan string, buffer), log: log}
}

// Lines is the single handle producers write through.
func (w *ConnWriter) Lines() chan<- string {
	return w.lines
}

func (w *ConnWriter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-w.lines:
			if !ok {
				return nil
			}
			if _, err := io.WriteString(w.conn, line+"\n"); err != nil {
				// The read side of the session will notice the broken
				// connection; nothing useful can be written anymore.
				w.log.Debug("Client write failed", "error", err)
				return nil
			}
		}
	}
}

// Package server accepts TCP connections and runs one session state machine
// per client over the newline-delimited text protocol.
package server

import (
	"chatd/contract"
	"chatd/moderation"
	"context"
	goerrors "errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

type Server struct {
	log         *slog.Logger
	registry    contract.IRegistry
	chatLog     contract.IChatLog
	moderator   *moderation.Moderator
	connBuffer  int
	sendTimeout time.Duration
	wg          sync.WaitGroup
}

func New(log *slog.Logger, registry contract.IRegistry,
	chatLog contract.IChatLog, moderator *moderation.Moderator,
	connBuffer int, sendTimeout time.Duration) *Server {
	return &Server{
		log:         log,
		registry:    registry,
		chatLog:     chatLog,
		moderator:   moderator,
		connBuffer:  connBuffer,
		sendTimeout: sendTimeout,
	}
}

// Serve accepts until the context is canceled, then waits for every live
// session to finish its teardown. A failing session only ever takes down its
// own connection.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || goerrors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Error("Accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go s.handle(ctx, conn)
	}

	s.wg.Wait()
	return nil
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() { _ = conn.Close() }()

	addr := conn.RemoteAddr().String()
	s.log.Info("Client connected", "addr", addr)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := NewConnWriter(conn, s.connBuffer, s.log)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		_ = writer.Run(connCtx)
	}()

	session := NewSession(s.log, s.registry, s.chatLog, s.moderator,
		writer.Lines(), addr, s.sendTimeout)
	if err := session.Run(connCtx, conn); err != nil && ctx.Err() == nil {
		s.log.Debug("Session ended with error", "addr", addr, "error", err)
	}

	cancel()
	<-writerDone
	s.log.Info("Client disconnected", "addr", addr)
}

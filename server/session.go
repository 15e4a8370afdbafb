package server

import (
	"bufio"
	"chatd/contract"
	"chatd/domain"
	"chatd/domain/event"
	"chatd/errors"
	"chatd/moderation"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Session is the per-connection state machine. It is either outside any room
// or inside exactly one, holding that room's broker handle. All of its output
// goes through the connection writer queue it shares with delivery workers.
type Session struct {
	log         *slog.Logger
	user        domain.User
	registry    contract.IRegistry
	chatLog     contract.IChatLog
	moderator   *moderation.Moderator
	out         chan<- string
	sendTimeout time.Duration

	// Inside state: the three fields are set together and cleared together.
	// memberName is the username captured at join time; the broker keys the
	// membership under it, so later renames must not leak into Chat or Leave
	// events.
	room        string
	memberName  string
	roomInbound chan<- event.Event
}

func NewSession(log *slog.Logger, registry contract.IRegistry,
	chatLog contract.IChatLog, moderator *moderation.Moderator,
	out chan<- string, addr string, sendTimeout time.Duration) *Session {
	return &Session{
		log:         log,
		user:        domain.User{Addr: addr},
		registry:    registry,
		chatLog:     chatLog,
		moderator:   moderator,
		out:         out,
		sendTimeout: sendTimeout,
	}
}

// Run consumes the connection line by line until the client exits or the
// connection breaks. Every exit path, including read errors and EOF, passes
// through the deferred detach so the current room always observes a Leave.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	defer s.detach(false)

	s.reply(bannerText)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cmd := domain.ParseCommand(scanner.Text())
		switch cmd.Kind {
		case domain.Help:
			s.reply(helpText)
		case domain.Exit:
			return nil
		case domain.List:
			s.handleList()
		case domain.Me:
			s.reply(s.user.Info())
		case domain.SetUsername:
			s.handleSetUsername(cmd.Arg)
		case domain.CreateRoom:
			s.handleCreateRoom(cmd.Arg)
		case domain.JoinRoom:
			s.handleJoin(ctx, cmd.Arg)
		case domain.Leave:
			s.handleLeave()
		case domain.Message:
			s.handleMessage(ctx, cmd.Arg)
		case domain.Invalid:
			s.reply(invalidText)
		}
	}
	return scanner.Err()
}

func (s *Session) handleSetUsername(name string) {
	if err := domain.ValidateUsername(name); err != nil {
		s.replyErr(err)
		return
	}
	s.user.Username = name
}

func (s *Session) handleCreateRoom(name string) {
	if err := domain.ValidateRoomName(name); err != nil {
		s.replyErr(err)
		return
	}
	if err := s.registry.Create(name); err != nil {
		s.replyErr(err)
	}
}

func (s *Session) handleList() {
	names, err := s.chatLog.ListRooms()
	if err != nil {
		s.replyErr(err)
		return
	}
	if len(names) == 0 {
		return
	}
	s.reply(strings.Join(names, "\n"))
}

// handleJoin implements both join transitions. From inside a room it first
// detaches, best-effort: a failed leave is reported but never blocks the join
// attempt. Order of checks matches the registry-then-identity sequence: an
// unknown room wins over a missing username.
func (s *Session) handleJoin(ctx context.Context, name string) {
	if s.roomInbound != nil {
		s.detach(true)
	}

	inbound, ok := s.registry.Lookup(name)
	if !ok {
		s.replyErr(errors.ErrRoomNotFound)
		return
	}
	if !s.user.HasUsername() {
		s.replyErr(errors.ErrUsernameRequired)
		return
	}

	notice, err := s.chatLog.AppendEvent(name, domain.EventJoin, s.user.Username, "")
	if err != nil {
		s.replyErr(err)
		return
	}
	if err := s.submit(ctx, inbound, event.Join{
		User:   s.user.Username,
		Sink:   s.out,
		Notice: notice,
	}); err != nil {
		return
	}
	s.room = name
	s.memberName = s.user.Username
	s.roomInbound = inbound

	// The membership is live from here on; a history failure is reported
	// but does not undo the join.
	history, err := s.chatLog.RecentMessages(name)
	if err != nil {
		s.replyErr(err)
		return
	}
	for _, line := range history {
		s.reply(line)
	}
}

func (s *Session) handleLeave() {
	if s.roomInbound == nil {
		s.reply(notInRoomText)
		return
	}
	s.detach(true)
}

func (s *Session) handleMessage(ctx context.Context, text string) {
	if s.roomInbound == nil {
		s.reply(notInRoomText)
		return
	}

	content := s.moderator.Censor(text)
	line, err := s.chatLog.AppendEvent(s.room, domain.EventChat, s.user.Username, content)
	if err != nil {
		s.replyErr(err)
		return
	}
	// Keyed by the join-time name so the broker's skip-self still matches
	// after a rename.
	_ = s.submit(ctx, s.roomInbound, event.Chat{User: s.memberName, Line: line})
}

// detach is the single cleanup routine shared by the explicit leave command,
// room switches, client exit, and connection teardown. It always emits Leave
// to the current broker: a persistence failure downgrades the notice to a
// locally formatted line, because keeping the membership alive would route
// output to a connection that is gone.
func (s *Session) detach(report bool) {
	if s.roomInbound == nil {
		return
	}

	notice, err := s.chatLog.AppendEvent(s.room, domain.EventLeave, s.memberName, "")
	if err != nil {
		s.log.Warn("Recording leave failed", "room", s.room, "error", err)
		notice = domain.FormatEvent(domain.EventLeave, s.memberName, "")
		if report {
			s.replyErr(err)
		}
	}

	// A dropped Leave means a membership outliving its connection, so a
	// momentarily full inbound gets one more chance before giving up.
	leave := event.Leave{User: s.memberName, Notice: notice}
	if !s.trySubmit(leave) && !s.trySubmit(leave) {
		s.log.Error("Room inbound queue full, leave dropped",
			"room", s.room, "user", s.memberName)
	}

	s.room = ""
	s.memberName = ""
	s.roomInbound = nil
}

func (s *Session) trySubmit(evt event.Event) bool {
	select {
	case s.roomInbound <- evt:
		return true
	case <-time.After(s.sendTimeout):
		return false
	}
}

// submit blocks until the broker accepts the event; a full inbound queue is
// backpressure on this producer, not an error.
func (s *Session) submit(ctx context.Context, inbound chan<- event.Event, evt event.Event) error {
	select {
	case inbound <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) reply(line string) {
	select {
	case s.out <- line:
	case <-time.After(s.sendTimeout):
		s.log.Warn("Connection sink stalled, dropping reply", "addr", s.user.Addr)
	}
}

func (s *Session) replyErr(err error) {
	s.reply("Error: " + err.Error())
}

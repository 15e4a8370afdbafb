package repositories

import (
	"chatd/domain"
	"chatd/errors"
	"chatd/logs"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestChatLog(t *testing.T, limitMessages *int) ChatLog {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	return NewChatLog(db, logs.GetLoggerFromLevel(slog.LevelDebug), limitMessages)
}

func TestChatLog_CreateRoom(t *testing.T) {
	req := require.New(t)
	chatLog := newTestChatLog(t, nil)

	// Given a fresh room name
	req.NoError(chatLog.CreateRoom("lobby"))

	// Then the same name cannot be taken twice
	req.ErrorIs(chatLog.CreateRoom("lobby"), errors.ErrRoomNameTaken)

	// Then a different name is still free
	req.NoError(chatLog.CreateRoom("den"))
}

func TestChatLog_ListRooms(t *testing.T) {
	req := require.New(t)
	chatLog := newTestChatLog(t, nil)

	names, err := chatLog.ListRooms()
	req.NoError(err)
	req.Empty(names)

	req.NoError(chatLog.CreateRoom("zoo"))
	req.NoError(chatLog.CreateRoom("attic"))
	req.NoError(chatLog.CreateRoom("lobby"))

	names, err = chatLog.ListRooms()
	req.NoError(err)
	req.Equal([]string{"attic", "lobby", "zoo"}, names)
}

func TestChatLog_AppendEventFormatsLine(t *testing.T) {
	req := require.New(t)
	chatLog := newTestChatLog(t, nil)

	line, err := chatLog.AppendEvent("lobby", domain.EventJoin, "alice", "")
	req.NoError(err)
	req.Equal("alice has joined the room", line)

	line, err = chatLog.AppendEvent("lobby", domain.EventChat, "alice", "hello")
	req.NoError(err)
	req.Equal("alice: hello", line)

	line, err = chatLog.AppendEvent("lobby", domain.EventLeave, "alice", "")
	req.NoError(err)
	req.Equal("alice has left the room", line)
}

func TestChatLog_RecentMessagesInsertionOrder(t *testing.T) {
	req := require.New(t)
	chatLog := newTestChatLog(t, nil)

	// Given chat lines interleaved with join/leave events
	_, err := chatLog.AppendEvent("lobby", domain.EventJoin, "alice", "")
	req.NoError(err)
	for i := 1; i <= 3; i++ {
		_, err = chatLog.AppendEvent("lobby", domain.EventChat, "alice", fmt.Sprintf("line %d", i))
		req.NoError(err)
	}
	_, err = chatLog.AppendEvent("lobby", domain.EventLeave, "alice", "")
	req.NoError(err)

	// Then history returns only chat lines, oldest first
	lines, err := chatLog.RecentMessages("lobby")
	req.NoError(err)
	req.Equal([]string{"alice: line 1", "alice: line 2", "alice: line 3"}, lines)
}

func TestChatLog_RecentMessagesHonorsLimit(t *testing.T) {
	req := require.New(t)
	limit := 2
	chatLog := newTestChatLog(t, &limit)

	for i := 1; i <= 5; i++ {
		_, err := chatLog.AppendEvent("lobby", domain.EventChat, "bob", fmt.Sprintf("line %d", i))
		req.NoError(err)
	}

	// Then only the most recent lines survive, still oldest first
	lines, err := chatLog.RecentMessages("lobby")
	req.NoError(err)
	req.Equal([]string{"bob: line 4", "bob: line 5"}, lines)
}

func TestChatLog_RecentMessagesIsolatesRooms(t *testing.T) {
	req := require.New(t)
	chatLog := newTestChatLog(t, nil)

	_, err := chatLog.AppendEvent("lobby", domain.EventChat, "alice", "in lobby")
	req.NoError(err)
	_, err = chatLog.AppendEvent("den", domain.EventChat, "bob", "in den")
	req.NoError(err)

	lines, err := chatLog.RecentMessages("lobby")
	req.NoError(err)
	req.Equal([]string{"alice: in lobby"}, lines)

	lines, err = chatLog.RecentMessages("den")
	req.NoError(err)
	req.Equal([]string{"bob: in den"}, lines)

	lines, err = chatLog.RecentMessages("empty")
	req.NoError(err)
	req.Empty(lines)
}

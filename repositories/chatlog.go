package repositories

import (
	"chatd/domain"
	"chatd/errors"
	goerrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	roomKeyPrefix    = "room:"
	messageKeyPrefix = "msg:"
	eventKeyPrefix   = "evt:"
)

// ChatLog persists room events in BadgerDB and serves listing and history.
// It implements contract.IChatLog.
type ChatLog struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewChatLog(db *badger.DB, log *slog.Logger, limitMessages *int) ChatLog {
	return ChatLog{db: db, log: log, limitMessages: limitMessages}
}

// CreateRoom registers a room marker key. The existence check and the insert
// run in one transaction, so two concurrent creates of the same name cannot
// both succeed.
func (c ChatLog) CreateRoom(name string) error {
	key := []byte(roomKeyPrefix + name)
	return c.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return errors.ErrRoomNameTaken
		}
		if !goerrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking room existence: %w", err)
		}
		return txn.Set(key, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// ListRooms returns every registered room name in lexical order.
func (c ChatLog) ListRooms() ([]string, error) {
	var names []string
	err := c.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(roomKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), roomKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// AppendEvent persists the formatted line for a room event and returns it.
// Chat lines live under "msg:", join/leave notices under "evt:", so history
// reads only have to scan actual messages. The key is formatted as
// "{prefix}{room}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two events
//     arrive at the same nanosecond.
func (c ChatLog) AppendEvent(room string, kind domain.EventKind, user, content string) (string, error) {
	line := domain.FormatEvent(kind, user, content)
	prefix := eventKeyPrefix
	if kind == domain.EventChat {
		prefix = messageKeyPrefix
	}
	key := fmt.Sprintf("%s%s:%019d:%s",
		prefix,
		room,
		time.Now().UTC().UnixNano(),
		uuid.New(),
	)
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(line))
	})
	if err != nil {
		return "", err
	}
	return line, nil
}

// RecentMessages returns the most recent chat lines of a room in insertion
// order. It iterates in reverse to honor limitMessages, then flips the batch
// back so a joining member reads history oldest first.
func (c ChatLog) RecentMessages(room string) ([]string, error) {
	var lines []string
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messageKeyPrefix + room + ":")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if c.limitMessages != nil && len(lines) == *c.limitMessages {
				c.log.Debug(fmt.Sprintf("Maximum of %d history lines reached", *c.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				lines = append(lines, string(value))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Reverse(lines), nil
}

//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"pairchat/domain"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) (domain.Message, error)
	GetConversation(a, b domain.Identity) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// StoreMessage persists a message in BadgerDB, assigning its identifier and
// creation timestamp. The key is formatted as
// "msg:{pair}:{timestamp_padded}:{uuid}" to:
//  1. Group both directions of a conversation under one prefix, since the
//     pair component orders the two identities lexicographically.
//  2. Ensure chronological sorting using 19-digit zero padding.
//  3. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) (domain.Message, error) {
	message.ID = uuid.New()
	message.CreatedAt = time.Now().UTC()

	key := fmt.Sprintf("msg:%s:%019d:%s",
		pairKey(message.SenderID, message.ReceiverID),
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetConversation retrieves every message exchanged between the two
// identities, in either direction, using a single prefix scan. Thanks to
// the padded timestamp in the key, messages come back in storage order.
func (m MessageRepository) GetConversation(a, b domain.Identity) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte(fmt.Sprintf("msg:%s:", pairKey(a, b)))

	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var message domain.Message
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, message)
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
	return messages, nil
}

// pairKey builds the conversation scope of a key: the two identities in
// lexicographic order, so (a,b) and (b,a) share the same prefix.
func pairKey(a, b domain.Identity) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s|%s", a, b)
}

//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"

	"pairchat/domain"
	"pairchat/errors"
	"pairchat/repositories"
	"pairchat/storage"
)

// Pusher is the hub's relay face: best-effort delivery of a persisted
// message to the receiver's live connection.
type Pusher interface {
	Push(ctx context.Context, msg domain.Message) bool
}

type SendMessageCommand struct {
	Receiver domain.Identity
	Text     string
	Image    []byte // raw upload, optional
}

type IChatService interface {
	SendMessage(ctx context.Context, sender domain.Identity, cmd SendMessageCommand) (domain.Message, error)
	GetConversation(local, counterpart domain.Identity) ([]domain.Message, error)
	ListContacts(local domain.Identity) ([]domain.User, error)
}

type ChatService struct {
	log      *slog.Logger
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
	assets   storage.IAssetStore
	hub      Pusher
}

func NewChatService(log *slog.Logger, messages repositories.IMessageRepository,
	users repositories.IUserRepository, assets storage.IAssetStore, hub Pusher) *ChatService {
	return &ChatService{log: log, messages: messages, users: users, assets: assets, hub: hub}
}

// SendMessage is the relay path: validate, persist, then push.
//  1. A message without text and without image is rejected before any side
//     effect.
//  2. An attached image goes to the asset store first; only its reference
//     is persisted.
//  3. Persistence must succeed before any push is attempted; a storage
//     error reaches the caller and no partial message exists.
//  4. The push is a latency optimization only. A receiver without a live
//     connection, or one whose connection dies mid-push, reads the message
//     from the durable log on its next history fetch.
//
// The persisted message is returned to the sender regardless of the relay
// outcome.
func (s *ChatService) SendMessage(ctx context.Context, sender domain.Identity,
	cmd SendMessageCommand) (domain.Message, error) {
	if cmd.Text == "" && len(cmd.Image) == 0 {
		return domain.Message{}, errors.ErrEmptyPayload
	}

	var imageRef string
	if len(cmd.Image) > 0 {
		ref, err := s.assets.Store(cmd.Image)
		if err != nil {
			return domain.Message{}, err
		}
		imageRef = ref
	}

	message, err := s.messages.StoreMessage(domain.Message{
		SenderID:   sender,
		ReceiverID: cmd.Receiver,
		Text:       cmd.Text,
		Image:      imageRef,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("storing message: %w", err)
	}

	if delivered := s.hub.Push(ctx, message); !delivered {
		s.log.Debug("no live connection, skipping push", "receiver", cmd.Receiver)
	}
	return message, nil
}

// GetConversation returns every message between the two identities, in
// either direction, in storage order.
func (s *ChatService) GetConversation(local, counterpart domain.Identity) ([]domain.Message, error) {
	return s.messages.GetConversation(local, counterpart)
}

// ListContacts returns every account except the caller's own.
func (s *ChatService) ListContacts(local domain.Identity) ([]domain.User, error) {
	return s.users.ListContacts(local)
}

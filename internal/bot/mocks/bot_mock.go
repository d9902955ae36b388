// Package mocks provides mock implementations for testing bot handlers.
package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramAPI defines the interface for Telegram bot operations.
// This interface is defined here to avoid import cycles between bot and mocks packages.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// SentMessage captures a message sent via MockBot.
type SentMessage struct {
	ChatID    any
	Text      string
	ParseMode models.ParseMode
}

// SentPhoto captures a photo sent via MockBot.
type SentPhoto struct {
	ChatID    any
	Filename  string
	Caption   string
	ParseMode models.ParseMode
	Data      []byte
}

// Compile-time check that MockBot implements TelegramAPI.
var _ TelegramAPI = (*MockBot)(nil)

// MockBot simulates Telegram bot operations for testing.
type MockBot struct {
	mu sync.RWMutex

	SentMessages []SentMessage
	SentPhotos   []SentPhoto
	ChatActions  []models.ChatAction

	// SendMessageError allows simulating SendMessage failures.
	SendMessageError error
	// SendPhotoError allows simulating SendPhoto failures.
	SendPhotoError error

	// NextMessageID is auto-incremented for each sent message.
	NextMessageID int
}

// NewMockBot creates a new MockBot instance.
func NewMockBot() *MockBot {
	return &MockBot{
		SentMessages:  make([]SentMessage, 0),
		SentPhotos:    make([]SentPhoto, 0),
		NextMessageID: 1000,
	}
}

// SendMessage simulates sending a message.
func (m *MockBot) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendMessageError != nil {
		return nil, m.SendMessageError
	}

	m.SentMessages = append(m.SentMessages, SentMessage{
		ChatID:    params.ChatID,
		Text:      params.Text,
		ParseMode: params.ParseMode,
	})

	msgID := m.NextMessageID
	m.NextMessageID++

	return &models.Message{
		ID: msgID,
		Chat: models.Chat{
			ID: chatIDToInt64(params.ChatID),
		},
		Text: params.Text,
	}, nil
}

// SendPhoto simulates sending a photo and records the uploaded bytes.
func (m *MockBot) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendPhotoError != nil {
		return nil, m.SendPhotoError
	}

	sent := SentPhoto{
		ChatID:    params.ChatID,
		Caption:   params.Caption,
		ParseMode: params.ParseMode,
	}
	if upload, ok := params.Photo.(*models.InputFileUpload); ok {
		sent.Filename = upload.Filename
		if upload.Data != nil {
			sent.Data, _ = io.ReadAll(upload.Data)
		}
	}
	m.SentPhotos = append(m.SentPhotos, sent)

	msgID := m.NextMessageID
	m.NextMessageID++

	return &models.Message{
		ID:      msgID,
		Chat:    models.Chat{ID: chatIDToInt64(params.ChatID)},
		Caption: params.Caption,
	}, nil
}

// SendChatAction records a chat action such as "typing".
func (m *MockBot) SendChatAction(_ context.Context, params *bot.SendChatActionParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatActions = append(m.ChatActions, params.Action)
	return true, nil
}

// Reset clears all recorded interactions.
func (m *MockBot) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentMessages = make([]SentMessage, 0)
	m.SentPhotos = make([]SentPhoto, 0)
	m.ChatActions = nil
	m.SendMessageError = nil
	m.SendPhotoError = nil
}

// LastSentMessage returns the most recently sent message, or nil if none.
func (m *MockBot) LastSentMessage() *SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.SentMessages) == 0 {
		return nil
	}
	return &m.SentMessages[len(m.SentMessages)-1]
}

// SentMessageCount returns the number of messages sent.
func (m *MockBot) SentMessageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SentMessages)
}

// SentPhotoCount returns the number of photos sent.
func (m *MockBot) SentPhotoCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SentPhotos)
}

// LastSentPhoto returns the most recently sent photo, or nil if none.
func (m *MockBot) LastSentPhoto() *SentPhoto {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.SentPhotos) == 0 {
		return nil
	}
	return &m.SentPhotos[len(m.SentPhotos)-1]
}

// chatIDToInt64 converts a ChatID to int64.
func chatIDToInt64(chatID any) int64 {
	switch v := chatID.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

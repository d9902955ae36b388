package mocks

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// UpdateBuilder assembles Update values for handler tests.
type UpdateBuilder struct {
	update *models.Update
}

// NewUpdateBuilder starts from an empty update.
func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{update: &models.Update{}}
}

func privateMessage(chatID, userID int64, text string) *models.Message {
	return &models.Message{
		ID:   1,
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		From: &models.User{ID: userID, FirstName: "Test", LastName: "User", Username: "testuser"},
		Text: text,
	}
}

// WithMessage sets a private-chat message.
func (b *UpdateBuilder) WithMessage(chatID, userID int64, text string) *UpdateBuilder {
	b.update.Message = privateMessage(chatID, userID, text)
	return b
}

// WithEditedMessage sets an edited private-chat message.
func (b *UpdateBuilder) WithEditedMessage(chatID, userID int64, text string) *UpdateBuilder {
	b.update.EditedMessage = privateMessage(chatID, userID, text)
	return b
}

// WithCallbackQuery sets a callback query from userID.
func (b *UpdateBuilder) WithCallbackQuery(userID int64, data string) *UpdateBuilder {
	b.update.CallbackQuery = &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: userID},
		Data: data,
	}
	return b
}

// WithMessageID overrides the message ID.
func (b *UpdateBuilder) WithMessageID(messageID int) *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.ID = messageID
	}
	return b
}

// InGroup moves the message into a group chat.
func (b *UpdateBuilder) InGroup(title string) *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.Chat.Type = models.ChatTypeGroup
		b.update.Message.Chat.Title = title
	}
	return b
}

// WithFrom replaces the sender details.
func (b *UpdateBuilder) WithFrom(userID int64, username, firstName, lastName string) *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.From = &models.User{
			ID:        userID,
			Username:  username,
			FirstName: firstName,
			LastName:  lastName,
		}
	}
	return b
}

// WithoutFrom clears the sender, as for channel posts.
func (b *UpdateBuilder) WithoutFrom() *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.From = nil
	}
	return b
}

// Build returns the update.
func (b *UpdateBuilder) Build() *models.Update {
	return b.update
}

// MessageUpdate is a private message with text.
func MessageUpdate(chatID, userID int64, text string) *models.Update {
	return NewUpdateBuilder().WithMessage(chatID, userID, text).Build()
}

// CommandUpdate is a private message holding command followed by args,
// e.g. CommandUpdate(1, 2, "/convert", "100", "USD", "EUR").
func CommandUpdate(chatID, userID int64, command string, args ...string) *models.Update {
	text := command
	if len(args) > 0 {
		text += " " + strings.Join(args, " ")
	}
	return MessageUpdate(chatID, userID, text)
}

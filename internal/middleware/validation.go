package middleware

import (
	"errors"
	"strings"
)

const (
	maxMessageLength = 32768
	maxTitleLength   = 256
	maxIDLength      = 128
)

// ValidateMessageContent validates user message content.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("message content cannot be empty")
	}
	if len(content) > maxMessageLength {
		return errors.New("message content exceeds maximum length")
	}
	return nil
}

// ValidateConversationID validates a conversation identifier.
func ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("conversation id is required")
	}
	if len(id) > maxIDLength {
		return errors.New("conversation id exceeds maximum length")
	}
	return nil
}

// ValidateTitle validates a conversation title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	return nil
}

// ValidateComponentID validates a UI component identifier.
func ValidateComponentID(id string) error {
	if id == "" {
		return errors.New("component id is required")
	}
	if len(id) > maxIDLength {
		return errors.New("component id exceeds maximum length")
	}
	return nil
}

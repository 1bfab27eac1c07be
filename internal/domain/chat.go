package domain

import "time"

type ChatType string

const (
	ChatTypeText  ChatType = "text"
	ChatTypeEmoji ChatType = "emoji"
)

// ChatMessage exists only in the moment of broadcast; nothing stores it.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    UserID    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	Type      ChatType  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

package models

import "time"

// Роли сообщений в чате
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chat представляет диалог пользователя с ассистентом
type Chat struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	UserID    string
	Title     string
}

// Message представляет одно сообщение чата
type Message struct {
	CreatedAt time.Time
	FileID    *string
	FileName  *string
	ID        string
	ChatID    string
	Role      string
	Content   string
}

// File представляет файл, привязанный к чату: либо загруженный
// пользователем, либо сгенерированный ассистентом.
type File struct {
	CreatedAt        time.Time
	ID               string
	ChatID           string
	UserID           string
	Filename         string
	FileType         string
	Path             string
	ExtractedContent string
	IsGenerated      bool
}

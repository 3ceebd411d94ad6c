package api

import "time"

// ChatCreateRequest представляет запрос на создание чата
type ChatCreateRequest struct {
	Title string `json:"title"`
}

// ChatResponse представляет краткую информацию о чате
type ChatResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
}

// MessageCreateRequest представляет запрос на отправку сообщения
type MessageCreateRequest struct {
	Content string `json:"content"`
}

// MessageResponse представляет сообщение чата.
// FileID/FileName заполнены, если сообщение ссылается на файл
// (загруженный пользователем или сгенерированный ассистентом).
type MessageResponse struct {
	CreatedAt time.Time `json:"created_at"`
	FileID    *string   `json:"file_id,omitempty"`
	FileName  *string   `json:"file_name,omitempty"`
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"` // "user" или "assistant"
	Content   string    `json:"content"`
}

// FileResponse представляет файл, привязанный к чату
type FileResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	IsGenerated bool      `json:"is_generated"`
}

// ChatDetailResponse представляет чат вместе с сообщениями и файлами
type ChatDetailResponse struct {
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Messages  []MessageResponse `json:"messages"`
	Files     []FileResponse    `json:"files"`
}

// UploadResponse представляет ответ на загрузку файла
type UploadResponse struct {
	FileID           string `json:"file_id"`
	Filename         string `json:"filename"`
	FileType         string `json:"file_type"`
	MessageID        string `json:"message_id"`
	ExtractedPreview string `json:"extracted_preview"`
}

// StatusResponse представляет простое подтверждение операции
type StatusResponse struct {
	Status string `json:"status"`
}

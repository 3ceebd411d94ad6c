package assistant

import (
	"context"
	"fmt"
	"strings"
)

// Request содержит контекст чата для генерации ответа
type Request struct {
	ChatTitle string
	Documents []Document // извлеченный текст загруженных файлов
	Message   string
}

// Document представляет один загруженный документ чата
type Document struct {
	Filename string
	Content  string
}

// GeneratedFile описывает файл, который ассистент хочет приложить к ответу
type GeneratedFile struct {
	Filename string
	FileType string
	Content  []byte
}

// Reply представляет ответ ассистента
type Reply struct {
	Content string
	File    *GeneratedFile // nil, если файл не генерировался
}

//go:generate moq -out assistant_mock.go . Assistant

// Assistant генерирует ответ на сообщение пользователя с учетом
// загруженных в чат документов. Сюда подключается реальная LLM-интеграция.
type Assistant interface {
	Reply(ctx context.Context, req Request) (*Reply, error)
}

// RuleBased реализует детерминированного ассистента по умолчанию: отвечает по
// простым правилам и умеет генерировать небольшую табличку по запросу.
type RuleBased struct{}

// NewRuleBased создает rule-based ассистента
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Reply формирует ответ по ключевым словам сообщения
func (a *RuleBased) Reply(_ context.Context, req Request) (*Reply, error) {
	lower := strings.ToLower(req.Message)

	switch {
	case wantsTable(lower):
		return a.tableReply(req)
	case strings.Contains(lower, "summar") || strings.Contains(lower, "кратко") || strings.Contains(lower, "суммар"):
		return a.summaryReply(req)
	default:
		return a.defaultReply(req)
	}
}

func wantsTable(msg string) bool {
	for _, kw := range []string{"table", "таблиц", "csv", "spreadsheet"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// tableReply генерирует CSV-файл со сводкой по документам чата
func (a *RuleBased) tableReply(req Request) (*Reply, error) {
	var sb strings.Builder
	sb.WriteString("document,characters\n")
	for _, doc := range req.Documents {
		name := strings.ReplaceAll(doc.Filename, ",", " ")
		fmt.Fprintf(&sb, "%s,%d\n", name, len(doc.Content))
	}
	if len(req.Documents) == 0 {
		sb.WriteString("no documents,0\n")
	}

	return &Reply{
		Content: "I prepared a table summarizing the documents in this chat.",
		File: &GeneratedFile{
			Filename: "summary.txt",
			FileType: "txt",
			Content:  []byte(sb.String()),
		},
	}, nil
}

func (a *RuleBased) summaryReply(req Request) (*Reply, error) {
	if len(req.Documents) == 0 {
		return &Reply{Content: "There are no documents in this chat yet. Upload one and I will summarize it."}, nil
	}

	var sb strings.Builder
	sb.WriteString("Here is a short summary of the uploaded documents:\n")
	for _, doc := range req.Documents {
		fmt.Fprintf(&sb, "- %s: %s\n", doc.Filename, excerpt(doc.Content, 120))
	}
	return &Reply{Content: sb.String()}, nil
}

func (a *RuleBased) defaultReply(req Request) (*Reply, error) {
	if len(req.Documents) > 0 {
		return &Reply{Content: fmt.Sprintf(
			"I looked at %d document(s) in this chat. Ask me to summarize them or to build a table.",
			len(req.Documents))}, nil
	}
	return &Reply{Content: "Hello! Upload a document and ask me about it, or ask me to build a table."}, nil
}

// excerpt возвращает первые n символов текста одной строкой
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(empty)"
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

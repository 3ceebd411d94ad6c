package controller

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	clientapi "github.com/Sladkolapy/Mishka/internal/client/api"
	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/internal/validation"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// ChatState описывает состояние экрана чата
type ChatState int

const (
	ChatLoading ChatState = iota
	ChatIdle
	ChatSending
	ChatUploading
)

// ChatMessage представляет элемент локального списка сообщений.
// Оптимистичная запись помечена Pending и ключом Generation;
// подтвержденная запись заменяет её атомарно по тому же ключу.
type ChatMessage struct {
	api.MessageResponse
	Generation string
	Pending    bool
}

// Chat реализует контроллер одного чата: оптимистичная отправка сообщений,
// загрузка файлов, сведение с ответами сервера.
type Chat struct {
	gw       Gateway
	notify   Notifier
	nav      Navigator
	session  *session.Session
	chatID   string
	title    string
	messages []ChatMessage
	files    []api.FileResponse
	cost     int64
	state    ChatState
	busy     bool
	mu       sync.Mutex
}

// NewChat создает контроллер чата
func NewChat(gw Gateway, notify Notifier, nav Navigator, sess *session.Session, chatID string) *Chat {
	return &Chat{
		gw:      gw,
		notify:  notify,
		nav:     nav,
		session: sess,
		chatID:  chatID,
		state:   ChatLoading,
	}
}

// State возвращает текущее состояние экрана
func (c *Chat) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Title возвращает заголовок чата
func (c *Chat) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Messages возвращает копию локального списка сообщений
func (c *Chat) Messages() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Files возвращает копию списка файлов чата
func (c *Chat) Files() []api.FileResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.FileResponse, len(c.files))
	copy(out, c.files)
	return out
}

// Load загружает чат и стоимость сообщения при открытии экрана
func (c *Chat) Load(ctx context.Context) error {
	detail, err := c.gw.GetChat(ctx, c.chatID)
	if err != nil {
		reportFailure(ctx, c.session, c.notify, c.nav, err)
		return err
	}

	pricing, err := c.gw.Pricing(ctx)
	if err != nil {
		reportFailure(ctx, c.session, c.notify, c.nav, err)
		return err
	}

	c.mu.Lock()
	c.title = detail.Title
	c.messages = make([]ChatMessage, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		c.messages = append(c.messages, ChatMessage{MessageResponse: m})
	}
	c.files = detail.Files
	c.cost = pricing.MessageCost
	c.state = ChatIdle
	c.mu.Unlock()
	return nil
}

// Send отправляет сообщение с оптимистичной записью.
// Порядок строго по спецификации экрана:
//  1. при нехватке баланса отказ до сети и переход на баланс;
//  2. оптимистичная запись с ключом generation;
//  3. на успех замена записи подтвержденной + ответ ассистента;
//  4. на неудачу откат записи, уведомление, при 402 переход на баланс.
func (c *Chat) Send(ctx context.Context, content string) error {
	if content == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if !c.begin(ChatSending) {
		return ErrActionInFlight
	}
	defer c.end()

	st := c.session.State()
	if st.User == nil || st.User.Balance < c.messageCost() {
		c.nav.NavigateTo(ViewBalance)
		return ErrInsufficientBalance
	}

	gen := uuid.New().String()
	c.appendPending(gen, content)

	reply, err := c.gw.SendMessage(ctx, c.chatID, api.MessageCreateRequest{Content: content})
	if err != nil {
		c.removePending(gen)
		reportFailure(ctx, c.session, c.notify, c.nav, err)
		if clientapi.IsPaymentRequired(err) {
			c.nav.NavigateTo(ViewBalance)
		}
		return err
	}

	c.confirm(gen, content, reply)
	c.session.PatchBalance(st.User.Balance - c.messageCost())
	return nil
}

// Upload загружает файл в чат. Расширение проверяется локально:
// неподдерживаемый файл отклоняется без сетевого вызова.
func (c *Chat) Upload(ctx context.Context, filename string, content io.Reader) error {
	if err := validation.ValidateUploadFilename(filename); err != nil {
		c.notify.Notify(err.Error())
		return err
	}
	if !c.begin(ChatUploading) {
		return ErrActionInFlight
	}
	defer c.end()

	resp, err := c.gw.UploadFile(ctx, c.chatID, filename, content)
	if err != nil {
		reportFailure(ctx, c.session, c.notify, c.nav, err)
		return err
	}

	// Перечитываем чат: сервер создал и файл, и сообщение о загрузке,
	// а заголовок первого чата мог смениться на имя файла.
	detail, err := c.gw.GetChat(ctx, c.chatID)
	if err != nil {
		reportFailure(ctx, c.session, c.notify, c.nav, err)
		return err
	}

	c.mu.Lock()
	c.title = detail.Title
	c.messages = c.messages[:0]
	for _, m := range detail.Messages {
		c.messages = append(c.messages, ChatMessage{MessageResponse: m})
	}
	c.files = detail.Files
	c.mu.Unlock()

	c.notify.Notify(fmt.Sprintf("Uploaded %s", resp.Filename))
	return nil
}

func (c *Chat) messageCost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cost
}

// appendPending добавляет оптимистичную запись пользователя
func (c *Chat) appendPending(gen, content string) {
	c.mu.Lock()
	c.messages = append(c.messages, ChatMessage{
		MessageResponse: api.MessageResponse{
			ID:      gen,
			ChatID:  c.chatID,
			Role:    "user",
			Content: content,
		},
		Generation: gen,
		Pending:    true,
	})
	c.mu.Unlock()
}

// removePending откатывает оптимистичную запись по ключу generation
func (c *Chat) removePending(gen string) {
	c.mu.Lock()
	kept := c.messages[:0]
	for _, m := range c.messages {
		if m.Generation != gen {
			kept = append(kept, m)
		}
	}
	c.messages = kept
	c.mu.Unlock()
}

// confirm атомарно заменяет запись pending подтвержденной по тому же
// ключу generation и добавляет ответ ассистента. Сгенерированный файл
// встает в начало списка файлов.
func (c *Chat) confirm(gen, content string, reply *api.MessageResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.messages {
		if c.messages[i].Generation == gen {
			c.messages[i] = ChatMessage{
				MessageResponse: api.MessageResponse{
					ID:        gen,
					ChatID:    c.chatID,
					Role:      "user",
					Content:   content,
					CreatedAt: reply.CreatedAt,
				},
				Generation: gen,
			}
			break
		}
	}

	c.messages = append(c.messages, ChatMessage{MessageResponse: *reply})

	if reply.FileID != nil {
		name := ""
		if reply.FileName != nil {
			name = *reply.FileName
		}
		c.files = append([]api.FileResponse{{
			ID:          *reply.FileID,
			Filename:    name,
			FileType:    validation.FileExt(name),
			IsGenerated: true,
			CreatedAt:   reply.CreatedAt,
		}}, c.files...)
	}
}

func (c *Chat) begin(next ChatState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	c.state = next
	return true
}

func (c *Chat) end() {
	c.mu.Lock()
	c.busy = false
	c.state = ChatIdle
	c.mu.Unlock()
}

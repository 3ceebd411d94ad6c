package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sladkolapy/Mishka/internal/client/controller"
)

func (c *Cli) runChats(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	dash := controller.NewDashboard(c.gw, c, c, c.session)
	if err := dash.Load(ctx); err != nil {
		return err
	}

	if len(args) > 0 {
		dash.Search(strings.Join(args, " "))
	}

	chats := dash.Chats()
	if len(chats) == 0 {
		if dash.State() == controller.DashboardSearching {
			c.io.Println("No chats match the query.")
		} else {
			c.io.Println("No chats yet. Run 'mishka chat-new' to start one.")
		}
		return nil
	}

	c.io.Printf("%-36s  %-19s  %s\n", "ID", "UPDATED", "TITLE")
	for _, chat := range chats {
		c.io.Printf("%-36s  %-19s  %s\n", chat.ID, chat.UpdatedAt.Format("2006-01-02 15:04:05"), chat.Title)
	}
	return nil
}

func (c *Cli) runChatNew(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	title := strings.Join(args, " ")

	dash := controller.NewDashboard(c.gw, c, c, c.session)
	chat, err := dash.CreateChat(ctx, title)
	if err != nil {
		return err
	}

	c.io.Printf("Chat created: %s\n", chat.ID)
	c.io.Printf("Run 'mishka chat %s' to open it.\n", chat.ID)
	return nil
}

func (c *Cli) runChatDelete(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: mishka chat-delete ID")
	}
	chatID := args[0]

	// Деструктивное действие: без явного подтверждения запрос не уходит
	confirmed, err := c.io.Confirm(fmt.Sprintf("Delete chat %s with all messages and files?", chatID))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	dash := controller.NewDashboard(c.gw, c, c, c.session)
	if err := dash.DeleteChat(ctx, chatID, confirmed); err != nil {
		if errors.Is(err, controller.ErrConfirmationRequired) {
			c.io.Println("Cancelled.")
			return nil
		}
		return err
	}

	c.io.Println("Chat deleted.")
	return nil
}

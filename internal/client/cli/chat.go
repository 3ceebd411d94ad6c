package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sladkolapy/Mishka/internal/client/controller"
)

func (c *Cli) runChatOpen(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: mishka chat ID")
	}

	chat := controller.NewChat(c.gw, c, c, c.session, args[0])
	if err := chat.Load(ctx); err != nil {
		return err
	}

	c.io.Printf("=== %s ===\n", chat.Title())
	c.io.Println()

	for _, m := range chat.Messages() {
		prefix := "You"
		if m.Role == "assistant" {
			prefix = "Assistant"
		}
		c.io.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), prefix, m.Content)
		if m.FileName != nil {
			c.io.Printf("           file: %s (%s)\n", *m.FileName, deref(m.FileID))
		}
	}

	files := chat.Files()
	if len(files) > 0 {
		c.io.Println()
		c.io.Println("Files:")
		for _, f := range files {
			marker := ""
			if f.IsGenerated {
				marker = " (generated)"
			}
			c.io.Printf("  %s  %s%s\n", f.ID, f.Filename, marker)
		}
	}
	return nil
}

func (c *Cli) runSend(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: mishka send CHAT_ID TEXT...")
	}
	chatID := args[0]
	content := strings.Join(args[1:], " ")

	chat := controller.NewChat(c.gw, c, c, c.session, chatID)
	if err := chat.Load(ctx); err != nil {
		return err
	}

	if err := chat.Send(ctx, content); err != nil {
		return err
	}

	// Печатаем хвост диалога: подтвержденное сообщение и ответ
	msgs := chat.Messages()
	for _, m := range msgs[max(0, len(msgs)-2):] {
		prefix := "You"
		if m.Role == "assistant" {
			prefix = "Assistant"
		}
		c.io.Printf("%s: %s\n", prefix, m.Content)
		if m.FileName != nil {
			c.io.Printf("  file: %s (download: mishka download %s)\n", *m.FileName, deref(m.FileID))
		}
	}
	return nil
}

func (c *Cli) runUpload(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: mishka upload CHAT_ID PATH")
	}
	chatID, path := args[0], args[1]

	chat := controller.NewChat(c.gw, c, c, c.session, chatID)
	if err := chat.Load(ctx); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return chat.Upload(ctx, filepath.Base(path), f)
}

func (c *Cli) runDownload(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: mishka download FILE_ID [PATH]")
	}
	fileID := args[0]

	body, filename, err := c.gw.DownloadFile(ctx, fileID)
	if err != nil {
		return err
	}
	defer func() {
		_ = body.Close()
	}()

	dest := filename
	if len(args) > 1 {
		dest = args[1]
	}
	if dest == "" {
		dest = fileID
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	n, err := io.Copy(out, body)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	c.io.Printf("Saved %s (%d bytes)\n", dest, n)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

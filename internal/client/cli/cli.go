package cli

import (
	"context"
	"fmt"

	clientapi "github.com/Sladkolapy/Mishka/internal/client/api"
	"github.com/Sladkolapy/Mishka/internal/client/controller"
	"github.com/Sladkolapy/Mishka/internal/client/iocli"
	"github.com/Sladkolapy/Mishka/internal/client/session"
)

// Cli связывает контроллеры представлений с терминалом.
// Реализует controller.Notifier и controller.Navigator: уведомления
// печатаются, «переходы» превращаются в подсказки команд.
type Cli struct {
	io        iocli.IO
	gw        *clientapi.Client
	session   *session.Session
	topUpMode string // direct | sbp
	minTopUp  int64
}

// New создает CLI поверх API-клиента и сессии
func New(io iocli.IO, gw *clientapi.Client, sess *session.Session, topUpMode string, minTopUp int64) *Cli {
	return &Cli{io: io, gw: gw, session: sess, topUpMode: topUpMode, minTopUp: minTopUp}
}

// Notify показывает немодальное уведомление
func (c *Cli) Notify(message string) {
	c.io.Printf("! %s\n", message)
}

// NavigateTo печатает подсказку перехода, терминальный аналог редиректа
func (c *Cli) NavigateTo(view controller.View) {
	switch view {
	case controller.ViewLogin:
		c.io.Println("-> Run 'mishka login' to sign in.")
	case controller.ViewBalance:
		c.io.Println("-> Run 'mishka balance' to top up your balance.")
	case controller.ViewDashboard:
		c.io.Println("-> Run 'mishka chats' to open your chats.")
	case controller.ViewChat:
		// переход в чат сопровождается выводом его id командой
	case controller.ViewAdmin:
		c.io.Println("-> Run 'mishka admin-stats' to open the admin panel.")
	}
}

// Run выполняет команду
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "chats":
		return c.runChats(ctx, args)
	case "chat-new":
		return c.runChatNew(ctx, args)
	case "chat-delete":
		return c.runChatDelete(ctx, args)
	case "chat":
		return c.runChatOpen(ctx, args)
	case "send":
		return c.runSend(ctx, args)
	case "upload":
		return c.runUpload(ctx, args)
	case "download":
		return c.runDownload(ctx, args)
	case "balance":
		return c.runBalance(ctx)
	case "topup":
		return c.runTopUp(ctx, args)
	case "pricing":
		return c.runPricing(ctx)
	case "legal":
		return c.runLegal(ctx, args)
	case "admin-stats":
		return c.runAdminStats(ctx)
	case "admin-users":
		return c.runAdminUsers(ctx)
	case "admin-payments":
		return c.runAdminPayments(ctx)
	case "admin-block":
		return c.runAdminBlock(ctx, args, true)
	case "admin-unblock":
		return c.runAdminBlock(ctx, args, false)
	case "admin-grant":
		return c.runAdminGrant(ctx, args)
	case "admin-approve":
		return c.runAdminDecide(ctx, args, true)
	case "admin-reject":
		return c.runAdminDecide(ctx, args, false)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// requireAuth применяет route guard к защищенной команде
func (c *Cli) requireAuth() error {
	switch session.Protected(c.session.State()) {
	case session.DecisionLoading:
		return fmt.Errorf("session is still being verified, try again")
	case session.DecisionRedirectLogin:
		c.NavigateTo(controller.ViewLogin)
		return fmt.Errorf("not authenticated")
	default:
		return nil
	}
}

// requireAdmin применяет усиленный guard админских команд
func (c *Cli) requireAdmin() error {
	switch session.AdminOnly(c.session.State()) {
	case session.DecisionLoading:
		return fmt.Errorf("session is still being verified, try again")
	case session.DecisionRedirectLogin:
		c.NavigateTo(controller.ViewLogin)
		return fmt.Errorf("not authenticated")
	case session.DecisionRedirectHome:
		c.NavigateTo(controller.ViewDashboard)
		return fmt.Errorf("admin access required")
	default:
		return nil
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("Mishka - document chat client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  mishka [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version             Show version information")
	c.io.Println("  --server URL          Server URL (default: http://localhost:8080)")
	c.io.Println("  --db PATH             Path to local session database (default: mishka-client.db)")
	c.io.Println("  --topup MODE          Top-up mode: direct or sbp (default: direct)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register              Register new account")
	c.io.Println("  login                 Login to server")
	c.io.Println("  logout                Logout and clear local session")
	c.io.Println("  status                Show session status and balance")
	c.io.Println("  chats [QUERY]         List chats, optionally filtered by title")
	c.io.Println("  chat-new [TITLE]      Create a chat")
	c.io.Println("  chat-delete ID        Delete a chat (asks for confirmation)")
	c.io.Println("  chat ID               Show chat messages and files")
	c.io.Println("  send ID TEXT...       Send a message to the assistant")
	c.io.Println("  upload ID PATH        Upload a document (xlsx, xls, docx, pptx, pdf, txt, rtf)")
	c.io.Println("  download FILE_ID [PATH]  Download a file")
	c.io.Println("  balance               Show balance, history and payment requests")
	c.io.Println("  topup AMOUNT          Top up balance (mode depends on --topup)")
	c.io.Println("  pricing               Show action costs")
	c.io.Println("  legal TYPE            Show legal document (terms, privacy, offer)")
	c.io.Println("  admin-stats           Admin: summary statistics")
	c.io.Println("  admin-users           Admin: list users")
	c.io.Println("  admin-payments        Admin: pending payment requests")
	c.io.Println("  admin-block USER_ID   Admin: block user")
	c.io.Println("  admin-unblock USER_ID Admin: unblock user")
	c.io.Println("  admin-grant USER_ID AMOUNT  Admin: add tokens to user")
	c.io.Println("  admin-approve REQ_ID  Admin: approve payment request")
	c.io.Println("  admin-reject REQ_ID   Admin: reject payment request")
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Sladkolapy/Mishka/internal/client/controller"
)

func (c *Cli) runAdminStats(ctx context.Context) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}

	admin := controller.NewAdmin(c.gw, c, c, c.session)
	if err := admin.Load(ctx); err != nil {
		return err
	}

	stats := admin.Stats()
	c.io.Printf("Users: %d\n", stats.Users)
	c.io.Printf("Chats: %d\n", stats.Chats)
	c.io.Printf("Messages: %d\n", stats.Messages)
	c.io.Printf("Pending payments: %d\n", stats.PendingPayments)
	return nil
}

func (c *Cli) runAdminUsers(ctx context.Context) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}

	admin := controller.NewAdmin(c.gw, c, c, c.session)
	if err := admin.Load(ctx); err != nil {
		return err
	}

	users := admin.Users()
	if len(users) == 0 {
		c.io.Println("No users.")
		return nil
	}
	for _, u := range users {
		flags := ""
		if u.IsAdmin {
			flags += " [admin]"
		}
		if u.IsBlocked {
			flags += " [blocked]"
		}
		c.io.Printf("%s  %-30s  %6d tokens%s\n", u.ID, u.Email, u.Balance, flags)
	}
	return nil
}

func (c *Cli) runAdminPayments(ctx context.Context) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}

	admin := controller.NewAdmin(c.gw, c, c, c.session)
	if err := admin.Load(ctx); err != nil {
		return err
	}

	payments := admin.Payments()
	if len(payments) == 0 {
		c.io.Println("No payment requests.")
		return nil
	}
	for _, p := range payments {
		c.io.Printf("%s  %s  %-30s  %6d  %s\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.UserEmail, p.Amount, p.Status)
	}
	return nil
}

func (c *Cli) runAdminBlock(ctx context.Context, args []string, blocked bool) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 1 {
		if blocked {
			return fmt.Errorf("usage: mishka admin-block USER_ID")
		}
		return fmt.Errorf("usage: mishka admin-unblock USER_ID")
	}

	admin := controller.NewAdmin(c.gw, c, c, c.session)
	if err := admin.SetBlocked(ctx, args[0], blocked); err != nil {
		return err
	}

	if blocked {
		c.io.Println("User blocked.")
	} else {
		c.io.Println("User unblocked.")
	}
	return nil
}

func (c *Cli) runAdminGrant(ctx context.Context, args []string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: mishka admin-grant USER_ID AMOUNT")
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %q", args[1])
	}

	admin := controller.NewAdmin(c.gw, c, c, c.session)
	if err := admin.GrantTokens(ctx, args[0], amount); err != nil {
		return err
	}

	c.io.Println("Tokens granted.")
	return nil
}

func (c *Cli) runAdminDecide(ctx context.Context, args []string, approve bool) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 1 {
		if approve {
			return fmt.Errorf("usage: mishka admin-approve REQUEST_ID")
		}
		return fmt.Errorf("usage: mishka admin-reject REQUEST_ID")
	}

	admin := controller.NewAdmin(c.gw, c, c, c.session)
	if approve {
		if err := admin.ApprovePayment(ctx, args[0]); err != nil {
			return err
		}
		c.io.Println("Payment approved, balance credited.")
		return nil
	}
	if err := admin.RejectPayment(ctx, args[0]); err != nil {
		return err
	}
	c.io.Println("Payment rejected.")
	return nil
}

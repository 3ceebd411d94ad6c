package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Sladkolapy/Mishka/internal/client/controller"
)

func (c *Cli) runBalance(ctx context.Context) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	bal := controller.NewBalance(c.gw, c, c, c.session, c.topUpStrategy(), c.minTopUp)
	if err := bal.Load(ctx); err != nil {
		return err
	}

	c.io.Printf("Balance: %d tokens\n", bal.Current())

	history := bal.History()
	if len(history) > 0 {
		c.io.Println()
		c.io.Println("History:")
		for _, tx := range history {
			c.io.Printf("  %s  %+6d  %-16s  %s\n",
				tx.CreatedAt.Format("2006-01-02 15:04"), tx.Amount, tx.Kind, tx.Comment)
		}
	}

	requests := bal.Requests()
	if len(requests) > 0 {
		c.io.Println()
		c.io.Println("Payment requests:")
		for _, r := range requests {
			c.io.Printf("  %s  %6d  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Amount, r.Status)
		}
	}

	if c.topUpMode == "sbp" {
		info, err := c.gw.PaymentInfo(ctx)
		if err == nil {
			c.io.Println()
			c.io.Println("SBP transfer details:")
			c.io.Printf("  Recipient: %s\n", info.Recipient)
			c.io.Printf("  Phone: %s\n", info.Phone)
			c.io.Printf("  Bank: %s\n", info.Bank)
			c.io.Printf("  Comment: %s\n", info.Comment)
			c.io.Printf("  Minimum amount: %d\n", info.MinAmount)
		}
	}
	return nil
}

func (c *Cli) runTopUp(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: mishka topup AMOUNT")
	}

	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %q", args[0])
	}

	bal := controller.NewBalance(c.gw, c, c, c.session, c.topUpStrategy(), c.minTopUp)
	if err := bal.TopUp(ctx, amount); err != nil {
		return err
	}

	c.io.Printf("Balance: %d tokens\n", bal.Current())
	return nil
}

func (c *Cli) runPricing(ctx context.Context) error {
	pricing, err := c.gw.Pricing(ctx)
	if err != nil {
		return err
	}
	c.io.Printf("Message cost: %d tokens\n", pricing.MessageCost)
	return nil
}

// topUpStrategy выбирает способ пополнения по режиму клиента.
// Оба способа сосуществуют; сервер поддерживает оба одновременно.
func (c *Cli) topUpStrategy() controller.TopUpStrategy {
	if c.topUpMode == "sbp" {
		return controller.SBPTopUp{GW: c.gw}
	}
	return controller.DirectTopUp{GW: c.gw}
}

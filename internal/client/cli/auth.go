package cli

import (
	"context"
	"fmt"

	"github.com/Sladkolapy/Mishka/internal/client/controller"
	"github.com/Sladkolapy/Mishka/internal/client/session"
)

func (c *Cli) runRegister(ctx context.Context) error {
	// Уже авторизованного пользователя с формы входа уводим
	if session.Public(c.session.State()) == session.DecisionRedirectHome {
		c.io.Println("Already logged in.")
		c.NavigateTo(controller.ViewDashboard)
		return nil
	}

	c.io.Println("=== Register ===")

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	agreed, err := c.io.Confirm("I agree to the terms of service")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	auth := controller.NewAuth(c.gw, c.session)
	if err := auth.Register(ctx, email, password, agreed); err != nil {
		return err
	}

	st := c.session.State()
	c.io.Println()
	c.io.Println("Registration successful!")
	c.io.Printf("Email: %s\n", st.User.Email)
	c.io.Printf("Balance: %d tokens\n", st.User.Balance)
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	if session.Public(c.session.State()) == session.DecisionRedirectHome {
		c.io.Println("Already logged in.")
		c.NavigateTo(controller.ViewDashboard)
		return nil
	}

	c.io.Println("=== Login ===")

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	auth := controller.NewAuth(c.gw, c.session)
	if err := auth.Login(ctx, email, password); err != nil {
		return err
	}

	st := c.session.State()
	c.io.Println()
	c.io.Println("Login successful!")
	c.io.Printf("Email: %s\n", st.User.Email)
	c.io.Printf("Balance: %d tokens\n", st.User.Balance)
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	c.io.Println("Logged out, local session deleted.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	st := c.session.State()

	if !st.Authenticated() {
		c.io.Println("Status: not authenticated")
		c.io.Println("Run 'mishka login' to sign in.")
		return nil
	}

	c.io.Println("Status: authenticated")
	c.io.Printf("Email: %s\n", st.User.Email)
	c.io.Printf("Balance: %d tokens\n", st.User.Balance)
	if st.User.IsAdmin {
		c.io.Println("Role: admin")
	}
	if st.User.IsBlocked {
		c.io.Println("Account is blocked, contact support.")
	}
	return nil
}

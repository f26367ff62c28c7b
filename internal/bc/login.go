package bc

import (
	"context"
	"errors"
	"fmt"

	"bcflow/internal/browser"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("bcflow/internal/bc")

var ErrMissingCredentials = errors.New("an email and a password are required to sign in")

// MainFrame is the iframe the web client renders pages into.
const MainFrame = "iframe[title='Main Content']"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// sign in form
var (
	EmailInput    = browser.Placeholder("someone@example.com")
	NextButton    = browser.Role("button", "Next")
	PasswordInput = browser.Placeholder("Password")
	SignInButton  = browser.Role("button", "Sign in")
	// "Stay signed in?" prompt
	StaySignedInNo = browser.Role("button", "No").Exact()
)

// Login goes through the Entra sign in pages and lands on the web client.
func Login(ctx context.Context, page browser.API, cfg Config, creds Credentials) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	err := creds.Validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"open sign in", func() error { return page.Navigate(ctx, cfg.LoginURL) }},
		{"fill email", func() error { return page.Fill(ctx, EmailInput, creds.Email) }},
		{"next", func() error { return page.Click(ctx, NextButton) }},
		{"fill password", func() error { return page.Fill(ctx, PasswordInput, creds.Password) }},
		{"sign in", func() error { return page.Click(ctx, SignInButton) }},
		{"decline stay signed in", func() error { return page.Click(ctx, StaySignedInNo) }},
		{"open web client", func() error { return page.Navigate(ctx, cfg.BaseURL) }},
	}
	for _, step := range steps {
		err := step.run()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, step.name)
			return fmt.Errorf("login: %s: %w", step.name, err)
		}
	}
	return nil
}

// OpenPage navigates to a configured page and returns the frame its content is rendered in.
func OpenPage(ctx context.Context, page browser.API, cfg Config, name string) (browser.API, error) {
	target, err := cfg.PageURL(name)
	if err != nil {
		return nil, err
	}
	err = page.Navigate(ctx, target)
	if err != nil {
		return nil, err
	}
	frame, err := page.Frame(ctx, MainFrame)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return frame, nil
}

package bc

import (
	"context"
	"errors"
	"testing"

	"bcflow/internal/browser/browsertest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	page := browsertest.NewFake()
	cfg := DefaultConfig()

	err := Login(context.Background(), page, cfg, Credentials{Email: "clerk@example.com", Password: "hunter2"})
	require.NoError(t, err)

	expected := []string{
		"navigate " + cfg.LoginURL,
		`fill placeholder="someone@example.com" "clerk@example.com"`,
		`click role=button[name="Next"]`,
		`fill placeholder="Password" "hunter2"`,
		`click role=button[name="Sign in"]`,
		`click role=button[name="No"] exact`,
		"navigate " + cfg.BaseURL,
	}
	if diff := cmp.Diff(expected, page.Ops()); diff != "" {
		t.Fatalf("unexpected actions (-want +got):\n%s", diff)
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	page := browsertest.NewFake()
	err := Login(context.Background(), page, DefaultConfig(), Credentials{Email: "clerk@example.com"})
	require.ErrorIs(t, err, ErrMissingCredentials)
	require.Empty(t, page.Actions())
}

func TestLoginStopsAtFailingStep(t *testing.T) {
	page := browsertest.NewFake()
	boom := errors.New("boom")
	page.FailOn(`role=button[name="Sign in"]`, boom)

	err := Login(context.Background(), page, DefaultConfig(), Credentials{Email: "a@b.c", Password: "p"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "sign in")
	require.Len(t, page.Actions(), 5)
}

func TestOpenPage(t *testing.T) {
	page := browsertest.NewFake()
	cfg := DefaultConfig()

	frame, err := OpenPage(context.Background(), page, cfg, PageRFQs)
	require.NoError(t, err)
	require.NoError(t, frame.Click(context.Background(), SearchAction))

	target, _ := cfg.PageURL(PageRFQs)
	expected := []string{
		"navigate " + target,
		"frame " + MainFrame,
		"click " + MainFrame + ` >> text="Search"`,
	}
	if diff := cmp.Diff(expected, page.Ops()); diff != "" {
		t.Fatalf("unexpected actions (-want +got):\n%s", diff)
	}

	_, err = OpenPage(context.Background(), page, cfg, "unknown")
	require.ErrorIs(t, err, ErrUnknownPage)
}

package notify

import (
	"context"
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bcflow/internal/components/telemetry"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
)

func TestNewDisabled(t *testing.T) {
	n := New(Config{}, &telemetry.Recorder{})
	_, ok := n.(Nop)
	require.True(t, ok)
	require.NoError(t, n.ReportFailure(context.Background(), Failure{Workflow: "rfq-create"}))

	n = New(Config{Host: "smtp.example.com:587"}, &telemetry.Recorder{})
	_, ok = n.(Nop)
	require.True(t, ok, "no recipients means disabled")
}

func TestMessage(t *testing.T) {
	screenshot := filepath.Join(t.TempDir(), "Error_20240601-080000.png")
	require.NoError(t, os.WriteFile(screenshot, []byte("\x89PNG fake"), 0600))

	n := New(Config{
		Host: "smtp.example.com:587",
		From: "bcflow@example.com",
		To:   []string{"procurement@example.com"},
	}, &telemetry.Recorder{})
	mailer := n.(*Mailer)

	e, err := mailer.Message(Failure{
		RunID:      "run-1",
		Workflow:   "rfq-approve",
		Step:       "request approval",
		Err:        errors.New("element not found"),
		Screenshot: screenshot,
	})
	require.NoError(t, err)
	require.Equal(t, "[bcflow] rfq-approve failed", e.Subject)
	require.Equal(t, []string{"procurement@example.com"}, e.To)
	require.Contains(t, string(e.Text), "Step: request approval")
	require.Contains(t, string(e.Text), "Error: element not found")
	require.Len(t, e.Attachments, 1)
	require.Equal(t, filepath.Base(screenshot), e.Attachments[0].Filename)

	raw, err := e.Bytes()
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), "Subject: [bcflow] rfq-approve failed"))
}

func TestReportFailure(t *testing.T) {
	tel := &telemetry.Recorder{}
	mailer := &Mailer{
		cfg: Config{
			Host:     "smtp.example.com:587",
			Username: "bcflow",
			Password: "secret",
			From:     "bcflow@example.com",
			To:       []string{"ops@example.com"},
		},
		tel: tel,
	}

	var sentTo string
	var gotAuth smtp.Auth
	mailer.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sentTo = addr
		gotAuth = auth
		return nil
	}
	err := mailer.ReportFailure(context.Background(), Failure{
		Workflow:   "vendor-create",
		Err:        errors.New("boom"),
		Screenshot: filepath.Join(t.TempDir(), "missing.png"),
	})
	require.NoError(t, err)
	require.Equal(t, "smtp.example.com:587", sentTo)
	require.NotNil(t, gotAuth)
	require.True(t, tel.Has("warning", report_send))

	mailer.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }
	err = mailer.ReportFailure(context.Background(), Failure{Workflow: "vendor-create"})
	require.Error(t, err)
	require.True(t, tel.Has("broken", report_send))
}

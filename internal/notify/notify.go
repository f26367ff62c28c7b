// Package notify mails a report when a workflow fails, with the error
// screenshot attached.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"bcflow/internal/components/telemetry"

	"github.com/jordan-wright/email"
)

const report_send = "notifier.send"

type Config struct {
	// Host is host:port of the smtp server, notifications are off when empty.
	Host     string   `json:"host"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

func (c Config) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

// Failure describes a failed workflow run.
type Failure struct {
	RunID      string
	Workflow   string
	Step       string
	Err        error
	Screenshot string
}

// Notifier is implemented by anything that can report failures.
type Notifier interface {
	ReportFailure(ctx context.Context, f Failure) error
}

// Nop drops every report.
type Nop struct{}

func (Nop) ReportFailure(context.Context, Failure) error { return nil }

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

type Mailer struct {
	cfg  Config
	tel  telemetry.API
	send sendFunc
}

// New returns a Mailer, or Nop if the config does not enable notifications.
func New(cfg Config, tel telemetry.API) Notifier {
	if !cfg.Enabled() {
		return Nop{}
	}
	return &Mailer{
		cfg: cfg,
		tel: telemetry.NewScopedAPI("notify", tel),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Message assembles the report without sending it.
func (m *Mailer) Message(f Failure) (*email.Email, error) {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = m.cfg.To
	e.Subject = fmt.Sprintf("[bcflow] %s failed", f.Workflow)

	var body strings.Builder
	fmt.Fprintf(&body, "Workflow: %s\n", f.Workflow)
	if f.RunID != "" {
		fmt.Fprintf(&body, "Run: %s\n", f.RunID)
	}
	if f.Step != "" {
		fmt.Fprintf(&body, "Step: %s\n", f.Step)
	}
	if f.Err != nil {
		fmt.Fprintf(&body, "Error: %s\n", f.Err.Error())
	}
	if f.Screenshot != "" {
		fmt.Fprintf(&body, "Screenshot: %s\n", f.Screenshot)
	}
	e.Text = []byte(body.String())

	if f.Screenshot != "" {
		_, err := os.Stat(f.Screenshot)
		if err == nil {
			_, err = e.AttachFile(f.Screenshot)
			if err != nil {
				return nil, fmt.Errorf("attach screenshot: %w", err)
			}
		} else {
			m.tel.ReportWarning(report_send, "screenshot missing", f.Screenshot)
		}
	}
	return e, nil
}

func (m *Mailer) ReportFailure(ctx context.Context, f Failure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := m.Message(f)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		host := m.cfg.Host
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, host)
	}
	err = m.send(e, m.cfg.Host, auth)
	if err != nil {
		m.tel.ReportBroken(report_send, err, f.Workflow)
		return fmt.Errorf("send failure report: %w", err)
	}
	m.tel.ReportDebug("failure report sent", f.Workflow, strings.Join(m.cfg.To, ","))
	return nil
}

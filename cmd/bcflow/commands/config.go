package commands

import (
	"errors"
	"fmt"
	"os"

	"bcflow/internal/bc"
	"bcflow/internal/browser"
	"bcflow/internal/handoff"
	"bcflow/internal/notify"
	"bcflow/internal/workflows"
	"bcflow/lib/configutil"
	"bcflow/lib/sqliteutil"

	"dario.cat/mergo"
)

const (
	backendFile = "file"
	backendSql  = "sql"
)

type HandoffConfig struct {
	// Backend is "file" (default) or "sql".
	Backend string `json:"backend"`
	File    string `json:"file"`
	// Database holds the sql backend, the history database is used when empty.
	Database sqliteutil.Config `json:"database"`
}

type Config struct {
	Browser    browser.Config    `json:"browser"`
	BC         bc.Config         `json:"bc"`
	Handoff    HandoffConfig     `json:"handoff"`
	InputsFile string            `json:"inputs_file"`
	History    sqliteutil.Config `json:"history"`
	Notify     notify.Config     `json:"notify"`
	RFQLine    workflows.RFQLine `json:"rfq_line"`
	// Timezone names the zone screenshots are timestamped in.
	Timezone string `json:"timezone"`
	// Email signs in when neither BCFLOW_EMAIL nor EMAIL is set, the
	// password only ever comes from the environment.
	Email string `json:"email"`
}

func DefaultConfig() Config {
	return Config{
		Browser: browser.DefaultConfig(),
		BC:      bc.DefaultConfig(),
		Handoff: HandoffConfig{
			Backend: backendFile,
			File:    handoff.DefaultFile,
		},
		InputsFile: handoff.DefaultInputsFile,
		History:    sqliteutil.Config{File: "bcflow.db"},
		RFQLine:    workflows.DefaultRFQLine(),
		Timezone:   "Africa/Nairobi",
	}
}

// LoadConfig reads the config file (a missing one is fine) and fills every
// field it leaves out from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	err = mergo.Merge(&cfg, DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	if cfg.Handoff.Backend != backendFile && cfg.Handoff.Backend != backendSql {
		return Config{}, fmt.Errorf("unknown handoff backend %q", cfg.Handoff.Backend)
	}
	return cfg, nil
}

func (c Config) Credentials() bc.Credentials {
	email := configutil.Env("BCFLOW_EMAIL", "EMAIL")
	if email == "" {
		email = c.Email
	}
	return bc.Credentials{
		Email:    email,
		Password: configutil.Env("BCFLOW_PASSWORD", "PASSWORD"),
	}
}

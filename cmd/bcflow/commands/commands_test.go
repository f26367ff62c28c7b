package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bcflow/internal/bc"
	"bcflow/internal/handoff"
	"bcflow/internal/workflows"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json5"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bcflow.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		browser: { headless: true, settle_ms: 500 },
		bc: {
			company: "UGANDA",
			pages: { purchase_orders: { id: 50, bookmark: "" } },
		},
		handoff: { backend: "sql" },
		rfq_line: { item_no: "30001" },
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bcflow.local.json5"), []byte(`{
		email: "clerk@example.com",
	}`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.True(t, cfg.Browser.Headless)
	require.Equal(t, 500, cfg.Browser.SettleMs)
	require.Equal(t, 1920, cfg.Browser.ViewportWidth)
	require.Equal(t, "UGANDA", cfg.BC.Company)
	require.Equal(t, bc.DefaultConfig().BaseURL, cfg.BC.BaseURL)
	require.Contains(t, cfg.BC.Pages, bc.PageVendors)
	require.Contains(t, cfg.BC.Pages, "purchase_orders")
	require.Equal(t, backendSql, cfg.Handoff.Backend)
	require.Equal(t, handoff.DefaultFile, cfg.Handoff.File)
	require.Equal(t, "30001", cfg.RFQLine.ItemNo)
	require.Equal(t, workflows.DefaultRFQLine().SourceNo, cfg.RFQLine.SourceNo)
	require.Equal(t, "clerk@example.com", cfg.Email)
	require.Equal(t, "Africa/Nairobi", cfg.Timezone)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bcflow.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{handoff: {backend: "redis"}}`), 0600))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestCredentials(t *testing.T) {
	t.Setenv("BCFLOW_EMAIL", "")
	t.Setenv("EMAIL", "")
	t.Setenv("BCFLOW_PASSWORD", "")
	t.Setenv("PASSWORD", "hunter2")

	cfg := DefaultConfig()
	cfg.Email = "config@example.com"
	require.Equal(t, bc.Credentials{Email: "config@example.com", Password: "hunter2"}, cfg.Credentials())

	t.Setenv("EMAIL", "env@example.com")
	require.Equal(t, "env@example.com", cfg.Credentials().Email)

	t.Setenv("BCFLOW_EMAIL", "bcflow@example.com")
	require.Equal(t, "bcflow@example.com", cfg.Credentials().Email)
}

func TestParseAssignment(t *testing.T) {
	rec, err := parseAssignment("RFQ_no=RFQ007686")
	require.NoError(t, err)
	require.Equal(t, handoff.NewRecord(handoff.KeyRFQNo, "RFQ007686"), rec)

	rec, err = parseAssignment(" vendor_no = V13694 ")
	require.NoError(t, err)
	require.Equal(t, handoff.NewRecord(handoff.KeyVendorNo, "V13694"), rec)

	_, err = parseAssignment("RFQ007686")
	require.Error(t, err)
	_, err = parseAssignment("RFQ_no=")
	require.ErrorIs(t, err, handoff.ErrInvalidRecord)
}

func TestRFQLineFlags(t *testing.T) {
	flags := rfqCreateCmd.Flags()
	require.NoError(t, flags.Set("item", "30001"))
	require.NoError(t, flags.Set("quantity", "4"))
	t.Cleanup(func() {
		flags.Set("item", "")
		flags.Set("quantity", "")
	})

	expected := workflows.DefaultRFQLine()
	expected.ItemNo = "30001"
	expected.Quantity = "4"
	require.Equal(t, expected, rfqLine(workflows.DefaultRFQLine()))
}

func TestFatalFlushesTelemetryFirst(t *testing.T) {
	var calls []string
	prevShutdown, prevExit := shutdownTelemetry, exitFatal
	t.Cleanup(func() {
		shutdownTelemetry, exitFatal = prevShutdown, prevExit
	})
	shutdownTelemetry = func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		require.True(t, ok, "the flush must be bounded")
		calls = append(calls, "shutdown")
		return nil
	}
	exitFatal = func(message string, err error) {
		calls = append(calls, "exit: "+message+": "+err.Error())
	}

	fatal("workflow failed", errors.New("boom"))
	require.Equal(t, []string{"shutdown", "exit: workflow failed: boom"}, calls)
}

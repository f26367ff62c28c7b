package workflows

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"bcflow/internal/bc"
	"bcflow/internal/handoff"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestVendorCreate(t *testing.T) {
	f := newFixture(t, testCreds)
	f.page.SetText(bc.Heading, "V13694 ∙ (New)")

	result, err := f.runner.Run(context.Background(), VendorCreate{VendorName: "Acme Ltd", PIN: "P051234567X"})
	require.NoError(t, err)
	require.Equal(t, "V13694", result.Identifier)
	require.Equal(t, filepath.Join("screenshots", VendorCreateScreenshot+".png"), result.Screenshot)

	cfg := bc.DefaultConfig()
	expected := loginOps(cfg, testCreds.Email)
	expected = append(expected, pageOps(t, cfg, bc.PageVendors)...)
	expected = append(expected,
		"click "+inFrame(bc.NewAction.Exact()),
		"click "+inFrame(vendorDescription),
		"text "+inFrame(bc.Heading),
		"click "+inFrame(vendorName),
		fmt.Sprintf("fill %s %q", inFrame(vendorName), "Acme Ltd"),
		fmt.Sprintf("press %s %q", inFrame(vendorName), "Enter"),
		"click "+inFrame(bc.GeneralShowMore),
		"click "+inFrame(bc.ToggleFactBox),
		"click "+inFrame(vendorRegistration),
		"click "+inFrame(vendorPIN),
		fmt.Sprintf("fill %s %q", inFrame(vendorPIN), "P051234567X"),
		fmt.Sprintf("press %s %q", inFrame(vendorPIN), "Enter"),
		"screenshot "+VendorCreateScreenshot,
	)
	if diff := cmp.Diff(expected, f.page.Ops()); diff != "" {
		t.Fatalf("unexpected actions (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, f.page.Closed())

	no, err := handoff.LatestValue(context.Background(), f.store, handoff.KeyVendorNo)
	require.NoError(t, err)
	require.Equal(t, "V13694", no)

	inputs, err := handoff.LoadInputs(f.env.InputsPath)
	require.NoError(t, err)
	require.Equal(t, handoff.Inputs{
		Email:      testCreds.Email,
		VendorName: "Acme Ltd",
		PinNo:      "P051234567X",
	}, inputs)
}

func TestVendorCreateWithoutNumberContinues(t *testing.T) {
	f := newFixture(t, testCreds)
	f.page.SetHTML(`<html><body><div role="heading" aria-level="2" class="title---x1">(New)</div></body></html>`)

	result, err := f.runner.Run(context.Background(), VendorCreate{VendorName: "Acme Ltd", PIN: "P051234567X"})
	require.NoError(t, err)
	require.Empty(t, result.Identifier)
	require.True(t, f.tel.Has("warning", report_extract))

	_, ok, err := f.store.Latest(context.Background())
	require.NoError(t, err)
	require.False(t, ok, "nothing may be handed off without a number")
	require.Contains(t, f.page.Ops(), "screenshot "+VendorCreateScreenshot)
}

func TestVendorCreateWithoutHeadingFails(t *testing.T) {
	f := newFixture(t, testCreds)

	result, err := f.runner.Run(context.Background(), VendorCreate{VendorName: "Acme Ltd", PIN: "P051234567X"})
	require.ErrorIs(t, err, bc.ErrHeadingNotFound)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "extract "+handoff.KeyVendorNo, stepErr.Step)
	require.Empty(t, result.Identifier)
	require.Equal(t, []string{filepath.Join("screenshots", ErrorScreenshot+".png")}, f.page.Screenshots())

	ops := f.page.Ops()
	require.NotContains(t, ops, "click "+inFrame(vendorName))
	require.Equal(t, 1, f.page.Closed())
	require.Len(t, f.notifier.failures, 1)

	_, ok, err := f.store.Latest(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVendorCreateReadsRenderedHeading(t *testing.T) {
	f := newFixture(t, testCreds)
	f.page.SetHTML(`<div role="heading" aria-level="2" class="title---x1">
		V13695 ∙ (New)
	</div>`)

	result, err := f.runner.Run(context.Background(), VendorCreate{VendorName: "Acme Ltd", PIN: "P051234567X"})
	require.NoError(t, err)
	require.Equal(t, "V13695", result.Identifier)
}

func TestVendorCreateRequiresInputs(t *testing.T) {
	f := newFixture(t, testCreds)

	_, err := f.runner.Run(context.Background(), VendorCreate{VendorName: "Acme Ltd"})
	require.ErrorIs(t, err, ErrMissingInputs)
	require.Zero(t, f.launches)

	_, err = handoff.LoadInputs(f.env.InputsPath)
	require.ErrorIs(t, err, handoff.ErrNoInputs)
}

func TestVendorCreateFailingStep(t *testing.T) {
	f := newFixture(t, testCreds)
	f.page.SetText(bc.Heading, "V13694 ∙ (New)")
	f.page.FailOn(vendorRegistration.String(), fmt.Errorf("registration tab missing"))

	result, err := f.runner.Run(context.Background(), VendorCreate{VendorName: "Acme Ltd", PIN: "P051234567X"})
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "open registration", stepErr.Step)
	require.Equal(t, filepath.Join("screenshots", ErrorScreenshot+".png"), result.Screenshot)

	// the number was handed off before the failure
	require.Equal(t, "V13694", result.Identifier)
	no, err := handoff.LatestValue(context.Background(), f.store, handoff.KeyVendorNo)
	require.NoError(t, err)
	require.Equal(t, "V13694", no)

	ops := f.page.Ops()
	require.Equal(t, "screenshot "+ErrorScreenshot, ops[len(ops)-1])
	require.NotContains(t, ops, "screenshot "+VendorCreateScreenshot)
	require.Equal(t, 1, f.page.Closed())
}

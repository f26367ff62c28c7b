package workflows

import (
	"context"
	"fmt"

	"bcflow/internal/bc"
	"bcflow/internal/browser"
	"bcflow/internal/extract"
	"bcflow/internal/handoff"
)

// vendor card fields
var (
	vendorDescription  = browser.Label("Description, Vendor LOCAL")
	vendorName         = browser.Label("Name, (Blank)")
	vendorRegistration = browser.Role("button", "Registration")
	vendorPIN          = browser.Role("textbox", "PIN No., (Blank)")
)

const VendorCreateScreenshot = "Vendor_Creation_Success"

// VendorCreate opens a new vendor card, hands off its number and fills in the
// name and PIN.
type VendorCreate struct {
	VendorName string
	PIN        string
}

func (VendorCreate) Name() string { return "vendor-create" }

func (w VendorCreate) Plan(ctx context.Context, env Env) (Plan, error) {
	if w.VendorName == "" || w.PIN == "" {
		return Plan{}, fmt.Errorf("%w: a vendor name and a PIN number are required", ErrMissingInputs)
	}

	err := handoff.SaveInputs(env.InputsPath, handoff.Inputs{
		Email:      env.Creds.Email,
		VendorName: w.VendorName,
		PinNo:      w.PIN,
	})
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Steps: []Step{
			openPage(env, bc.PageVendors),
			settled(click("new vendor", bc.NewAction.Exact())),
			settled(click("focus description", vendorDescription)),
			extractStep(env, handoff.KeyVendorNo, extract.VendorNo),
			settled(enter("fill name", vendorName, w.VendorName)),
			click("show general", bc.GeneralShowMore),
			settled(click("toggle factbox", bc.ToggleFactBox)),
			click("open registration", vendorRegistration),
			settled(enter("fill pin", vendorPIN, w.PIN)),
		},
		Screenshot: VendorCreateScreenshot,
	}, nil
}

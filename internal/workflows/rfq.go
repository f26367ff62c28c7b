package workflows

import (
	"context"
	"errors"
	"fmt"

	"bcflow/internal/bc"
	"bcflow/internal/browser"
	"bcflow/internal/extract"
	"bcflow/internal/handoff"
)

// requisition card fields
var (
	rfqRequisitionType = browser.Label("Requisition Type, (Blank)")
	rfqDescription     = browser.Role("textbox", "Description, (Blank)")
	rfqLineType        = browser.Label("Type, (Blank)").Exact().Within(browser.Role("row", "Location Code"))
	rfqLineNo          = browser.Role("combobox", "No., (Blank)").Exact()
	rfqComments        = browser.Label("Comments, (Blank)")
	rfqQuantity        = browser.Label("Quantity,").Exact()
	rfqSourceDocType   = browser.Label("Source Doc Type,").Exact()
	rfqSourceNo        = browser.Role("combobox", "Source No., (Blank)")
	rfqSourceLineNo    = browser.Label("Source Line No.,").Exact()
	rfqProcess         = browser.Role("menuitem", "Process")
	rfqSendToProc      = browser.Role("menuitem", "Send to Procurement")
	rfqRequestApproval = browser.Role("menuitem", "Request Approval")
)

const RFQCreateScreenshot = "RFQ_created"

// RFQLine is the single line of a new requisition. Option values are the
// values of the <select> options, not their captions.
type RFQLine struct {
	RequisitionType string `json:"requisition_type"`
	Description     string `json:"description"`
	Type            string `json:"type"`
	ItemNo          string `json:"item_no"`
	Quantity        string `json:"quantity"`
	SourceDocType   string `json:"source_doc_type"`
	SourceNo        string `json:"source_no"`
	SourceLineNo    string `json:"source_line_no"`
}

func DefaultRFQLine() RFQLine {
	return RFQLine{
		RequisitionType: "1",
		Description:     "testing rfq process",
		Type:            "20",
		ItemNo:          "20928",
		Quantity:        "1",
		SourceDocType:   "4",
		SourceNo:        "J066872",
		SourceLineNo:    "1010",
	}
}

// RFQCreate creates a requisition, hands off its number and sends it to
// procurement.
type RFQCreate struct {
	Line RFQLine
}

func (RFQCreate) Name() string { return "rfq-create" }

func (w RFQCreate) Plan(ctx context.Context, env Env) (Plan, error) {
	line := w.Line
	if line.ItemNo == "" || line.Quantity == "" {
		return Plan{}, fmt.Errorf("%w: an item number and a quantity are required", ErrMissingInputs)
	}

	return Plan{
		Steps: []Step{
			openPage(env, bc.PageRFQs),
			settled(click("new rfq", bc.NewAction)),
			settled(choose("requisition type", rfqRequisitionType, line.RequisitionType)),
			click("show general", bc.GeneralShowMore),
			settled(click("toggle factbox", bc.ToggleFactBox)),
			click("focus description", rfqDescription),
			extractStep(env, handoff.KeyRFQNo, extract.RFQNo),
			settled(enter("fill description", rfqDescription, line.Description)),
			settled(Step{
				Name: "line type",
				Run: func(ctx context.Context, s *State) error {
					err := s.Frame.Click(ctx, rfqLineType)
					if err != nil {
						return err
					}
					return s.Frame.Select(ctx, rfqLineType, line.Type)
				},
			}),
			settled(fill("line item", rfqLineNo, line.ItemNo)),
			settled(click("focus comments", rfqComments)),
			settled(Step{
				Name: "line quantity",
				Run: func(ctx context.Context, s *State) error {
					err := s.Frame.Fill(ctx, rfqQuantity, line.Quantity)
					if err != nil {
						return err
					}
					return s.Frame.Press(ctx, rfqQuantity, "Enter")
				},
			}),
			choose("source doc type", rfqSourceDocType, line.SourceDocType),
			fill("source no", rfqSourceNo, line.SourceNo),
			click("commit source no", rfqComments),
			settled(fill("source line no", rfqSourceLineNo, line.SourceLineNo)),
			click("process", rfqProcess),
			settled(click("send to procurement", rfqSendToProc)),
			screenshot(RFQCreateScreenshot),
			settled(click("confirm", bc.ConfirmYes)),
		},
	}, nil
}

// RFQApprove requests approval for a requisition, the one handed off last
// unless RFQNo is given.
type RFQApprove struct {
	RFQNo string
}

func (RFQApprove) Name() string { return "rfq-approve" }

func (w RFQApprove) Plan(ctx context.Context, env Env) (Plan, error) {
	no := w.RFQNo
	if no == "" {
		var err error
		no, err = handoff.LatestValue(ctx, env.Store, handoff.KeyRFQNo)
		if err != nil {
			return Plan{}, err
		}
	}

	return Plan{
		Steps: []Step{
			openPage(env, bc.PageRFQs),
			click("open search", bc.SearchAction),
			fill("search", bc.SearchBox, no),
			settled(click("open record", bc.RecordRow(no))),
			click("show general", bc.GeneralShowMore),
			settled(click("toggle factbox", bc.ToggleFactBox)),
			settled(click("request approval", rfqRequestApproval)),
		},
		Screenshot: "RFQ_page_" + no,
		Identifier: no,
	}, nil
}

// RFQToPO opens the requisition list on the vendor handed off last, ready for
// the requisition to be turned into a purchase order.
type RFQToPO struct{}

func (RFQToPO) Name() string { return "rfq-to-po" }

func (RFQToPO) Plan(ctx context.Context, env Env) (Plan, error) {
	inputs, err := handoff.LoadInputs(env.InputsPath)
	if errors.Is(err, handoff.ErrNoInputs) {
		return Plan{}, fmt.Errorf("%w: create a vendor first", ErrMissingInputs)
	}
	if err != nil {
		return Plan{}, err
	}
	vendorNo, err := handoff.LatestValue(ctx, env.Store, handoff.KeyVendorNo)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Steps: []Step{
			openPage(env, bc.PageRFQs),
			click("open search", bc.SearchAction),
			settled(fill("search", bc.SearchBox, vendorNo)),
		},
		Screenshot: "RFQ_to_PO_" + vendorNo,
		Identifier: vendorNo,
		Email:      inputs.Email,
	}, nil
}

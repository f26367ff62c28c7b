package bc

import "bcflow/internal/browser"

// actions shared by list and card pages
var (
	SearchAction    = browser.Text("Search")
	SearchBox       = browser.Placeholder("Search")
	NewAction       = browser.Role("menuitem", "New")
	GeneralShowMore = browser.Label("General, Show more")
	ToggleFactBox   = browser.Role("button", "Toggle FactBox")
	ConfirmYes      = browser.Role("button", "Yes").Exact()
)

// RecordRow is the row of a list page whose "No." column holds no, clicking it opens the card.
func RecordRow(no string) browser.Locator {
	return browser.Role("button", "No., "+no)
}

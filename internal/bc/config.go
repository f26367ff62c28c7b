// Package bc knows how the Business Central web client is laid out: where to
// sign in, how pages are addressed and where a card shows its record number.
package bc

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

var ErrUnknownPage = errors.New("unknown page")

// well-known page names
const (
	PageVendors = "vendors"
	PageRFQs    = "rfqs"
)

// PageRef addresses a page of the web client, Bookmark is optional.
type PageRef struct {
	ID       int    `json:"id"`
	Bookmark string `json:"bookmark"`
}

type Config struct {
	LoginURL string             `json:"login_url"`
	BaseURL  string             `json:"base_url"`
	Company  string             `json:"company"`
	Pages    map[string]PageRef `json:"pages"`
}

// DefaultConfig targets the test tenant.
func DefaultConfig() Config {
	return Config{
		LoginURL: "https://login.microsoftonline.com/dayliffCloud.onmicrosoft.com/wsfed?wa=wsignin1.0&wtrealm=https%3a%2f%2fdayliffCloud.onmicrosoft.com%2fbusinesscentral&wreply=https%3a%2f%2fbctest.dayliff.com%2fBC160%2fSignIn%3fReturnUrl%3d%252fBC160%252f",
		BaseURL:  "https://bctest.dayliff.com/BC160/",
		Company:  "KENYA",
		Pages: map[string]PageRef{
			PageVendors: {ID: 27, Bookmark: "21;FwAAAAJ7/0QAIABIACAATA=="},
			PageRFQs:    {ID: 50152, Bookmark: "29;usMAAAJ7/1AAUgAwADAAMAAyADUAMwA3"},
		},
	}
}

// PageNames lists the configured page names in a stable order.
func (c Config) PageNames() []string {
	names := make([]string, 0, len(c.Pages))
	for name := range c.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PageURL builds `<base>?company=<company>&bookmark=<bookmark>&page=<id>&dc=0`.
func (c Config) PageURL(name string) (string, error) {
	ref, ok := c.Pages[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	// the web client expects this parameter order
	query := "company=" + url.QueryEscape(c.Company)
	if ref.Bookmark != "" {
		query += "&bookmark=" + url.QueryEscape(ref.Bookmark)
	}
	query += "&page=" + strconv.Itoa(ref.ID) + "&dc=0"
	base.RawQuery = query
	return base.String(), nil
}

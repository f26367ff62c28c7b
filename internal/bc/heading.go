package bc

import (
	"errors"
	"strings"

	"bcflow/internal/browser"
	"bcflow/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrHeadingNotFound = errors.New("record heading not found")

// HeadingSelector matches the title of an open card, ex. "V13694 ∙ (New)".
const HeadingSelector = "div[role='heading'][class*='title---'][aria-level='2']"

var Heading = browser.CSS(HeadingSelector)

// ParseHeading finds the card heading in a rendered document and returns its text.
func ParseHeading(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	sel := doc.Find(HeadingSelector).First()
	if sel.Length() == 0 {
		return "", ErrHeadingNotFound
	}
	return htmlutil.Clean(htmlutil.Text(sel.Get(0))), nil
}

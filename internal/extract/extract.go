// Package extract pulls generated record numbers out of headings rendered by
// Business Central, like "V13694 ∙ (New)" or "RFQ007686 · Testing".
package extract

import (
	"regexp"
	"sync"
)

const (
	VendorPrefix = "V"
	RFQPrefix    = "RFQ"
)

var (
	patternsMu sync.Mutex
	patterns   = map[string]*regexp.Regexp{}
)

func pattern(prefix string) *regexp.Regexp {
	patternsMu.Lock()
	defer patternsMu.Unlock()

	re, ok := patterns[prefix]
	if !ok {
		// [0-9] instead of \d so that non-ascii digits never match
		re = regexp.MustCompile(regexp.QuoteMeta(prefix) + `[0-9]+`)
		patterns[prefix] = re
	}
	return re
}

// Identifier returns the first occurrence of prefix immediately followed by
// one or more digits in text. An empty prefix never matches.
func Identifier(text, prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	match := pattern(prefix).FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// VendorNo extracts a vendor number (ex. V13694).
func VendorNo(text string) (string, bool) {
	return Identifier(text, VendorPrefix)
}

// RFQNo extracts a request for quotation number (ex. RFQ007686).
func RFQNo(text string) (string, bool) {
	return Identifier(text, RFQPrefix)
}

package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div><span>RFQ007686</span> · <b>Testing</b></div>`))
	require.NoError(t, err)
	require.Equal(t, "RFQ007686 · Testing", Text(doc))
	require.Equal(t, "", Text(nil))
}

func TestClean(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "V13694 ∙ (New)", expected: "V13694 ∙ (New)"},
		{input: "\n\t  V13694\u200b\u00a0∙ (New)  \n", expected: "V13694 ∙ (New)"},
		{input: "", expected: ""},
	}
	for _, row := range table {
		require.Equal(t, row.expected, Clean(row.input))
	}
}

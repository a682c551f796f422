package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<td><a href="/petrol-price-in-delhi.html">New Delhi</a></td>`,
	))
	require.NoError(t, err)

	cell := doc.Find("td")
	require.Len(t, cell.Nodes, 1)
	require.Equal(t, "New Delhi", GetText(cell.Nodes[0]))
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"  New   Delhi ", "New Delhi"},
		{"₹ 102.50", "₹ 102.50"},
		{"Mumbai\n\t", "Mumbai"},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, CleanText(c.in))
	}
}

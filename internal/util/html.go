package util

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML extracts the visible text of an HTML fragment, skipping
// script/style subtrees. Invalid markup degrades to the raw input.
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return fragment
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

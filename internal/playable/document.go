// Package playable turns model output into a self-contained playable ad document.
package playable

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyDocument is returned when the model output holds no markup.
var ErrEmptyDocument = errors.New("playable: empty document")

// Document is a normalized playable ad.
type Document struct {
	HTML      string
	Title     string
	Text      string // visible text with scripts and styles removed
	HasScript bool
}

// Normalize strips markdown code fences the model was asked not to emit, parses the rest as
// HTML and renders it back as a complete document.
func Normalize(raw string) (*Document, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, ErrEmptyDocument
	}
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("playable: parse: %w", err)
	}

	doc := &Document{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if doc.Title == "" && n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case atom.Script:
				doc.HasScript = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	doc.Text = visibleText(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("playable: render: %w", err)
	}
	doc.HTML = "<!DOCTYPE html>" + strings.TrimPrefix(buf.String(), "<!DOCTYPE html>")
	return doc, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func visibleText(root *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteString(" ")
			}
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript" || n.Data == "head"):
			return
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(root)
	return strings.Join(strings.Fields(sb.String()), " ")
}

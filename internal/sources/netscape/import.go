// Package netscape reads and writes the Netscape bookmark file format that
// every browser can import and export.
package netscape

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

// Parse reads a Netscape bookmark file. Each link lands in the category
// matching its innermost recognizable folder, or the fallback category.
// Ids are left empty, the store assigns them.
func Parse(r io.Reader, reg domain.Registry) ([]domain.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var out []domain.Bookmark
	var folders []string
	pending := ""
	hasPending := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h3":
				pending = textContent(n)
				hasPending = true
				return

			case "a":
				href := strings.TrimSpace(attr(n, "href"))
				if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
					return
				}
				name := textContent(n)
				if name == "" {
					name = href
				}
				out = append(out, domain.Bookmark{
					Name:     name,
					URL:      href,
					Category: categoryFor(folders, reg),
				})
				return

			case "dl":
				pushed := false
				if hasPending {
					folders = append(folders, pending)
					pending, hasPending = "", false
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					folders = folders[:len(folders)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return out, nil
}

func categoryFor(folders []string, reg domain.Registry) string {
	for i := len(folders) - 1; i >= 0; i-- {
		if key := reg.Match(folders[i]); key != domain.FallbackCategory {
			return key
		}
	}
	return domain.FallbackCategory
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(b.String())
}

// attr is case-insensitive; the parser already lower-cases keys.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// Package rendertest parses rendered fragments so tests can assert on structure
// instead of matching strings.
package rendertest

import (
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses fragment in the context of a <div>.
func Parse(fragment template.HTML) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(string(fragment)), &html.Node{
		Type: html.ElementNode, DataAtom: atom.Div, Data: "div",
	})
}

// ByClass returns every element under nodes carrying class.
func ByClass(nodes []*html.Node, class string) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		walk(n, func(e *html.Node) {
			if HasClass(e, class) {
				out = append(out, e)
			}
		})
	}
	return out
}

// CountClass parses fragment and counts elements carrying class.
func CountClass(fragment template.HTML, class string) (int, error) {
	nodes, err := Parse(fragment)
	if err != nil {
		return 0, err
	}
	return len(ByClass(nodes, class)), nil
}

// Indices returns the data-index of every element carrying class, in order.
func Indices(fragment template.HTML, class string) ([]string, error) {
	nodes, err := Parse(fragment)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range ByClass(nodes, class) {
		if v, ok := Attr(n, "data-index"); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// MissingAttr returns the tag names of elements at or below root that lack key.
func MissingAttr(root *html.Node, key string) []string {
	var missing []string
	walk(root, func(e *html.Node) {
		if _, ok := Attr(e, key); !ok {
			missing = append(missing, e.Data)
		}
	})
	return missing
}

// Text returns the trimmed text content of the first element carrying class.
func Text(fragment template.HTML, class string) (string, error) {
	nodes, err := Parse(fragment)
	if err != nil {
		return "", err
	}
	found := ByClass(nodes, class)
	if len(found) == 0 {
		return "", nil
	}
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(found[0])
	return strings.TrimSpace(b.String()), nil
}

func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// walk visits n and its descendants, element nodes only.
func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Headings, paragraphs, lists, and
// preformatted blocks map onto the engine's normalized markers; chrome
// elements (nav, script, ...) are dropped.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var out strings.Builder
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	walkHTML(&out, root)
	return out.String(), nil
}

func walkHTML(out *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			if t := textContent(n); t != "" {
				writeBlock(out, strings.Repeat("#", level)+" "+t)
			}
			return
		}

		switch n.Data {
		case "script", "style", "nav", "footer", "header", "aside":
			return
		case "pre":
			if t := preContent(n); t != "" {
				writeBlock(out, "```\n"+t+"\n```")
			}
			return
		case "ul", "ol":
			if block := listContent(n, n.Data == "ol"); block != "" {
				writeBlock(out, block)
			}
			return
		case "p", "td", "blockquote":
			if t := textContent(n); t != "" {
				writeBlock(out, t)
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(out, c)
	}
}

// listContent renders the <li> children of a list element with
// normalized markers.
func listContent(n *html.Node, ordered bool) string {
	var buf strings.Builder
	num := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		t := strings.Join(strings.Fields(textContent(c)), " ")
		if t == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		if ordered {
			buf.WriteString(strconv.Itoa(num) + ". " + t)
			num++
		} else {
			buf.WriteString("- " + t)
		}
	}
	return buf.String()
}

// preContent keeps the literal text of a <pre> block, unlike
// textContent which collapses whitespace-sensitive content.
func preContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Trim(buf.String(), "\n")
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

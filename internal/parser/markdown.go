package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. The AST is
// re-rendered into the engine's normalized form, which canonicalizes
// setext headings, alternate bullet markers, and loose list spacing.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		renderBlock(&out, n, src, 0)
	}
	return out.String(), nil
}

func renderBlock(out *strings.Builder, n ast.Node, src []byte, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		level := node.Level
		if level > 6 {
			level = 6
		}
		writeBlock(out, strings.Repeat("#", level)+" "+string(node.Text(src)))

	case *ast.FencedCodeBlock:
		var buf strings.Builder
		buf.WriteString("```")
		buf.Write(node.Language(src))
		buf.WriteString("\n")
		writeLines(&buf, node, src)
		buf.WriteString("```")
		writeBlock(out, buf.String())

	case *ast.CodeBlock:
		var buf strings.Builder
		buf.WriteString("```\n")
		writeLines(&buf, node, src)
		buf.WriteString("```")
		writeBlock(out, buf.String())

	case *ast.List:
		writeBlock(out, renderList(node, src, depth))

	case *ast.Blockquote:
		t := extractText(node, src)
		if t != "" {
			lines := strings.Split(t, "\n")
			for i, line := range lines {
				lines[i] = "> " + line
			}
			writeBlock(out, strings.Join(lines, "\n"))
		}

	case *ast.ThematicBreak:
		writeBlock(out, "---")

	default:
		if t := extractText(n, src); t != "" {
			writeBlock(out, t)
		}
	}
}

// renderList re-emits a list with canonical markers: "- " for bullets,
// "n. " for ordered items numbered from the list's start value.
func renderList(list *ast.List, src []byte, depth int) string {
	indent := strings.Repeat("  ", depth)
	num := list.Start
	if num == 0 {
		num = 1
	}

	var buf strings.Builder
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}

		var itemText strings.Builder
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if nested, ok := c.(*ast.List); ok {
				if itemText.Len() > 0 {
					itemText.WriteString("\n")
				}
				itemText.WriteString(renderList(nested, src, depth+1))
				continue
			}
			if t := extractText(c, src); t != "" {
				if itemText.Len() > 0 {
					itemText.WriteString(" ")
				}
				itemText.WriteString(strings.ReplaceAll(t, "\n", " "))
			}
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(indent + marker + itemText.String())
	}
	return buf.String()
}

func writeLines(buf *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Kind() != ast.KindList {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	if buf.Len() == 0 {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			} else {
				buf.WriteString(extractText(c, src))
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

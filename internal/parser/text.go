package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. The input is assumed to be close
// to the engine's normalized form already; only line endings and excess
// blank lines are cleaned up.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out strings.Builder
	blank := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			blank++
			continue
		}
		if out.Len() > 0 {
			if blank > 0 {
				out.WriteString("\n\n")
			} else {
				out.WriteString("\n")
			}
		}
		out.WriteString(line)
		blank = 0
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return out.String(), nil
}

package structure

import (
	"regexp"
	"strconv"
	"strings"
)

// The list pre-scan runs before line classification. It finds contiguous
// numbered or bulleted runs, validates them (strictly increasing numbers,
// or one uniform bullet marker), and marks their line ranges atomic so the
// classifier and the chunk builder never split them.

var (
	numberedItemRe = regexp.MustCompile(`^\s*(\d{1,4})[.)]\s+\S`)
	bulletItemRe   = regexp.MustCompile(`^\s*([-*+•])\s+\S`)
)

type listRun struct {
	start int // first item line, inclusive
	end   int // last item or continuation line, inclusive
}

// numberedItem reports the leading item number of a line, if any.
func numberedItem(line string) (int, bool) {
	m := numberedItemRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// bulletItem reports the bullet marker of a line, if any.
func bulletItem(line string) (rune, bool) {
	m := bulletItemRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return rune(m[1][0]), true
}

// isContinuation reports whether a line continues the previous list item:
// indented, non-blank, and not itself an item.
func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if _, ok := numberedItem(line); ok {
		return false
	}
	if _, ok := bulletItem(line); ok {
		return false
	}
	return line[0] == ' ' || line[0] == '\t'
}

// scanLists finds all valid list runs in the given lines. A run needs at
// least two items and tolerates single blank lines between items.
func scanLists(lines []string) []listRun {
	var runs []listRun
	for i := 0; i < len(lines); {
		if n, ok := numberedItem(lines[i]); ok {
			run, next := growRun(lines, i, func(line string) bool {
				m, ok := numberedItem(line)
				if ok && m > n {
					n = m
					return true
				}
				return false
			})
			if run != nil {
				runs = append(runs, *run)
			}
			i = next
			continue
		}
		if marker, ok := bulletItem(lines[i]); ok {
			run, next := growRun(lines, i, func(line string) bool {
				m, ok := bulletItem(line)
				return ok && m == marker
			})
			if run != nil {
				runs = append(runs, *run)
			}
			i = next
			continue
		}
		i++
	}
	return runs
}

// growRun extends a run starting at line i for as long as accept matches
// the next item. It returns the validated run (nil if fewer than two
// items) and the index to resume scanning from.
func growRun(lines []string, i int, accept func(string) bool) (*listRun, int) {
	items := 1
	end := i

	j := i + 1
	for j < len(lines) {
		switch {
		case accept(lines[j]):
			items++
			end = j
			j++
		case isContinuation(lines[j]):
			end = j
			j++
		case strings.TrimSpace(lines[j]) == "" && j+1 < len(lines) && accept(lines[j+1]):
			// Single blank gap followed by the next valid item.
			items++
			end = j + 1
			j += 2
		default:
			j = len(lines) // terminate
		}
	}

	if items < 2 {
		return nil, i + 1
	}
	return &listRun{start: i, end: end}, end + 1
}

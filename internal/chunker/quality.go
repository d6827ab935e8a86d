package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"chunkd/internal/sentence"
)

// Issue tags reported by the validator.
const (
	IssueLowercaseStart       = "lowercase_start"
	IssueNoTerminal           = "no_terminal_punctuation"
	IssueDanglingContinuation = "dangling_continuation"
	IssueHeaderWithoutContent = "header_without_content"
	IssueTooShort             = "too_short"
	IssueOversize             = "oversize"
)

// validThreshold is the minimum quality score for a chunk to be valid.
const validThreshold = 0.7

var issuePenalty = map[string]float64{
	IssueLowercaseStart:       0.20,
	IssueNoTerminal:           0.15,
	IssueDanglingContinuation: 0.25,
	IssueHeaderWithoutContent: 0.30,
	IssueTooShort:             0.20,
	IssueOversize:             0.10,
}

// continuationWords end a fragment that clearly expects more text.
var continuationWords = map[string]bool{
	"and": true, "or": true, "but": true, "the": true, "a": true,
	"an": true, "of": true, "to": true, "with": true, "for": true,
	"in": true, "on": true, "at": true, "by": true, "as": true,
	"which": true, "that": true, "because": true,
}

// Validate scores a chunk against boundary, completeness, and size rules.
// It is read-only; a chunk is valid when it has no issues and its score
// clears the threshold.
func Validate(c Chunk, cfg Config) (bool, float64, []string) {
	var issues []string
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return false, 0, []string{IssueTooShort}
	}

	if first, _ := utf8.DecodeRuneInString(text); unicode.IsLower(first) {
		issues = append(issues, IssueLowercaseStart)
	}
	if !hasTerminalBoundary(text) {
		issues = append(issues, IssueNoTerminal)
	}
	if endsDangling(text) {
		issues = append(issues, IssueDanglingContinuation)
	}
	if c.HasHeader && headerOnly(text) {
		issues = append(issues, IssueHeaderWithoutContent)
	}
	if c.Size() < cfg.MinSize {
		issues = append(issues, IssueTooShort)
	}
	if c.Size() > cfg.MaxSize {
		issues = append(issues, IssueOversize)
	}

	score := 1.0
	for _, issue := range issues {
		score -= issuePenalty[issue]
	}
	if score < 0 {
		score = 0
	}
	return len(issues) == 0 && score >= validThreshold, score, issues
}

// Score validates a chunk and writes the outcome into it. On failure it
// makes exactly one repair attempt, dropping an offending leading
// fragment, and re-scores once. There is no retry loop.
func Score(c *Chunk, cfg Config, sp *sentence.Splitter) {
	valid, score, issues := Validate(*c, cfg)

	if !valid && hasIssue(issues, IssueLowercaseStart) {
		if repaired, ok := dropLeadingFragment(sp, c.Text); ok {
			retry := *c
			retry.Text = repaired
			if v2, s2, i2 := Validate(retry, cfg); s2 > score {
				c.Text = repaired
				c.SentenceCount = len(sp.Split(repaired))
				c.WordCount = len(strings.Fields(repaired))
				valid, score, issues = v2, s2, i2
			}
		}
	}

	c.Valid = valid
	c.QualityScore = score
	c.Issues = issues
}

// hasTerminalBoundary accepts sentence-ending punctuation as well as
// structural endings (closing fences, list items).
func hasTerminalBoundary(text string) bool {
	last, _ := utf8.DecodeLastRuneInString(text)
	switch last {
	case '.', '!', '?', '…', ';', ':', '"', '\'', ')', ']':
		return true
	}
	lastLine := text
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		lastLine = text[idx+1:]
	}
	return isStructuralLine(strings.TrimSpace(lastLine))
}

func isStructuralLine(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
		return true
	}
	if _, ok := numberedPrefix(line); ok {
		return true
	}
	switch line[0] {
	case '-', '*', '+', '#', '>':
		return len(line) > 1 && line[1] == ' '
	}
	return strings.HasPrefix(line, "• ")
}

func numberedPrefix(line string) (int, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return 0, false
	}
	if line[i] == '.' || line[i] == ')' {
		return i, true
	}
	return 0, false
}

func endsDangling(text string) bool {
	if strings.HasSuffix(text, ",") || strings.HasSuffix(text, "-") {
		return true
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(strings.Trim(fields[len(fields)-1], `"')]`))
	return continuationWords[last]
}

// headerOnly reports a chunk that is nothing but a header line.
func headerOnly(text string) bool {
	return !strings.ContainsRune(text, '\n') && strings.HasPrefix(text, "#")
}

func hasIssue(issues []string, tag string) bool {
	for _, i := range issues {
		if i == tag {
			return true
		}
	}
	return false
}

// dropLeadingFragment removes a lowercase opening fragment up to the
// first real sentence boundary.
func dropLeadingFragment(sp *sentence.Splitter, text string) (string, bool) {
	sents := sp.Split(text)
	if len(sents) < 2 {
		return "", false
	}
	first, _ := utf8.DecodeRuneInString(sents[0])
	if !unicode.IsLower(first) {
		return "", false
	}
	return strings.Join(sents[1:], " "), true
}

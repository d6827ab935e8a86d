// Package sentence locates sentence boundaries in prose. Detection is
// rule-based: a candidate terminator is accepted only when the surrounding
// context (abbreviations, decimals, capitalization of what follows) agrees
// that a sentence actually ends there.
package sentence

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultMinSentenceLen is the threshold below which a detected sentence
// is merged into its neighbor instead of standing alone.
const defaultMinSentenceLen = 10

// Splitter detects sentence boundaries for a single language. A Splitter
// owns its memoization cache, so concurrent use across documents should
// use one Splitter per worker.
type Splitter struct {
	lang          string
	abbreviations map[string]bool
	starters      map[string]bool
	minLen        int
	cache         *lru.Cache[string, []string]
}

// NewSplitter returns a splitter for the given language tag. Unsupported
// tags fall back to English rules; config validation rejects them earlier.
// cacheSize bounds the per-instance memoization cache; zero or negative
// disables caching, which keeps repeated calls fully deterministic in tests.
func NewSplitter(lang string, cacheSize int) *Splitter {
	s := &Splitter{
		lang:          lang,
		abbreviations: englishAbbreviations,
		starters:      englishStarters,
		minLen:        defaultMinSentenceLen,
	}
	if cacheSize > 0 {
		// Error only occurs for size <= 0, which is excluded here.
		s.cache, _ = lru.New[string, []string](cacheSize)
	}
	return s
}

// Split breaks text into an ordered sequence of sentences. Empty or
// whitespace-only input yields nil; input with no accepted boundary is
// returned whole as a single sentence. The returned slice is shared with
// the cache and must not be mutated.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(text); ok {
			return cached
		}
	}

	sentences := s.mergeShort(s.scan(text))
	if s.cache != nil {
		s.cache.Add(text, sentences)
	}
	return sentences
}

// scan walks the text and cuts at every accepted terminator.
func (s *Splitter) scan(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		end := i + size

		switch r {
		case '.':
			// Collapse a run of dots ("...") into one ellipsis terminator.
			for end < len(text) && text[end] == '.' {
				end++
			}
			ellipsis := end-i > 1
			if s.isBoundary(text, start, i, end, r, ellipsis) {
				sentences = appendSentence(sentences, text[start:end])
				start = end
			}
		case '!', '?', '…', ';', ':':
			if s.isBoundary(text, start, i, end, r, r == '…') {
				sentences = appendSentence(sentences, text[start:end])
				start = end
			}
		}
		i = end
	}

	if trailing := strings.TrimSpace(text[start:]); trailing != "" {
		sentences = append(sentences, trailing)
	}
	return sentences
}

// isBoundary applies the three acceptance rules to a candidate terminator
// spanning text[termStart:termEnd] within the sentence that began at start.
func (s *Splitter) isBoundary(text string, start, termStart, termEnd int, term rune, ellipsis bool) bool {
	// Rule (b): decimal and clock contexts keep "3.5" and "12:30" intact.
	if term == '.' || term == ':' {
		prev, prevOK := lastRune(text[start:termStart])
		next, nextOK := firstRune(text[termEnd:])
		if prevOK && nextOK && unicode.IsDigit(prev) && unicode.IsDigit(next) {
			return false
		}
	}

	// Rule (a): the token before a period must not be a known abbreviation
	// or a bare initial.
	if term == '.' && !ellipsis {
		token := precedingToken(text[start:termStart])
		if token != "" {
			if s.abbreviations[strings.ToLower(token)] {
				return false
			}
			if utf8.RuneCountInString(token) == 1 {
				if r, _ := firstRune(token); unicode.IsUpper(r) {
					return false
				}
			}
		}
	}

	// Rule (c): strong terminators always end a sentence.
	if term == '!' || term == '?' || ellipsis || term == '…' {
		return true
	}

	rest := strings.TrimLeft(text[termEnd:], " \t\n\r")
	if rest == "" {
		return true
	}
	rest = strings.TrimLeft(rest, `"'([“‘`)
	next, ok := firstRune(rest)
	if !ok {
		return true
	}
	if unicode.IsUpper(next) || unicode.IsDigit(next) {
		return true
	}
	return s.starters[strings.ToLower(firstWord(rest))]
}

// mergeShort folds sentences below the minimum length into the preceding
// sentence (or the following one, for a short opener).
func (s *Splitter) mergeShort(sentences []string) []string {
	if len(sentences) <= 1 {
		return sentences
	}
	merged := make([]string, 0, len(sentences))
	carry := ""
	for _, sent := range sentences {
		if carry != "" {
			sent = carry + " " + sent
			carry = ""
		}
		if utf8.RuneCountInString(sent) >= s.minLen {
			merged = append(merged, sent)
			continue
		}
		if len(merged) > 0 {
			merged[len(merged)-1] += " " + sent
		} else {
			carry = sent
		}
	}
	if carry != "" {
		merged = append(merged, carry)
	}
	return merged
}

func appendSentence(sentences []string, raw string) []string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		sentences = append(sentences, trimmed)
	}
	return sentences
}

// precedingToken returns the whitespace-delimited token ending the string,
// stripped of leading punctuation.
func precedingToken(text string) string {
	idx := strings.LastIndexFunc(text, unicode.IsSpace)
	token := text[idx+1:]
	return strings.TrimLeft(token, `"'([“‘`)
}

func firstWord(text string) string {
	end := strings.IndexFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end < 0 {
		return text
	}
	return text[:end]
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, true
}

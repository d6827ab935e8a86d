package chunker

import (
	"strings"

	"chunkd/internal/sentence"
	"chunkd/internal/structure"
)

// sectionSep joins sections and paragraphs inside a chunk. Boundaries
// between chunks carry no separator, so chunk positions stay contiguous.
const sectionSep = "\n\n"

// Build walks sections in order and accumulates them into size-bounded
// chunks. Atomic sections are never split; headers stay attached to their
// content; an atomic section larger than MaxSize becomes an oversized
// standalone chunk.
func Build(sections []structure.Section, cfg Config, sp *sentence.Splitter) []Chunk {
	b := &builder{cfg: cfg, sp: sp}
	seen := make(map[int]bool, len(sections))

	for i, sec := range sections {
		if seen[i] {
			continue
		}
		seen[i] = true
		b.section(sec)
	}
	b.flush()
	b.mergeTinyTail()
	return b.chunks
}

type builder struct {
	cfg    Config
	sp     *sentence.Splitter
	chunks []Chunk

	buf       strings.Builder
	hasHeader bool
	pos       int
}

func (b *builder) section(sec structure.Section) {
	switch sec.Type {
	case structure.TypeList, structure.TypeCode:
		b.atomic(sec.Text())
	case structure.TypeHeader:
		if b.cfg.PreserveHeaders {
			b.header(sec)
		} else {
			b.text(sec.Text())
		}
	default:
		b.text(sec.Text())
	}
}

// atomic places a list or code block whole. Oversized blocks flush the
// buffer and go out verbatim as their own chunk.
func (b *builder) atomic(text string) {
	if len(text) > b.cfg.MaxSize {
		b.flush()
		b.emit(text, false)
		return
	}
	if b.buf.Len() > 0 && b.buf.Len()+len(sectionSep)+len(text) > b.cfg.MaxSize {
		b.flush()
	}
	b.write(sectionSep, text)
	b.flushIfFull()
}

// text places a plain section, splitting it at sentence boundaries only
// when the section alone exceeds MaxSize.
func (b *builder) text(text string) {
	if text == "" {
		return
	}
	if len(text) <= b.cfg.MaxSize {
		if b.buf.Len() > 0 && b.buf.Len()+len(sectionSep)+len(text) > b.cfg.MaxSize {
			b.flush()
		}
		b.write(sectionSep, text)
		b.flushIfFull()
		return
	}

	sep := sectionSep
	for _, sent := range b.sp.Split(text) {
		if b.buf.Len() > 0 && b.buf.Len()+len(sep)+len(sent) > b.cfg.MaxSize {
			b.flush()
		}
		b.write(sep, sent)
		sep = " "
		b.flushIfFull()
	}
}

// header places a header section as an inseparable title+content unit.
// When the unit exceeds MaxSize the header opens a fresh chunk and its
// content fills forward; the remainder continues in later chunks without
// the header repeating. If not even the first content block fits next to
// the title, the header ends up standalone.
func (b *builder) header(sec structure.Section) {
	unit := sec.Text()
	if len(unit) <= b.cfg.MaxSize {
		if b.buf.Len() > 0 && b.buf.Len()+len(sectionSep)+len(unit) > b.cfg.MaxSize {
			b.flush()
		}
		b.write(sectionSep, unit)
		b.hasHeader = true
		b.flushIfFull()
		return
	}

	b.flush()
	b.write("", sec.Raw)
	b.hasHeader = true
	for _, blk := range sec.Blocks {
		switch blk.Type {
		case structure.TypeList, structure.TypeCode:
			b.atomic(blk.Text())
		default:
			b.text(blk.Text())
		}
	}
}

func (b *builder) write(sep, text string) {
	if b.buf.Len() > 0 {
		b.buf.WriteString(sep)
	}
	b.buf.WriteString(text)
}

func (b *builder) flushIfFull() {
	if b.buf.Len() >= b.cfg.TargetSize {
		b.flush()
	}
}

func (b *builder) flush() {
	if b.buf.Len() == 0 {
		return
	}
	b.emit(b.buf.String(), b.hasHeader)
	b.buf.Reset()
	b.hasHeader = false
}

func (b *builder) emit(text string, hasHeader bool) {
	c := Chunk{
		Text:          text,
		StartIndex:    b.pos,
		EndIndex:      b.pos + len(text),
		SentenceCount: len(b.sp.Split(text)),
		WordCount:     len(strings.Fields(text)),
		HasHeader:     hasHeader,
	}
	b.pos = c.EndIndex
	b.chunks = append(b.chunks, c)
}

// mergeTinyTail folds a trailing chunk below MinSize into its predecessor
// when the merge stays within MaxSize.
func (b *builder) mergeTinyTail() {
	n := len(b.chunks)
	if n < 2 {
		return
	}
	last, prev := b.chunks[n-1], b.chunks[n-2]
	if last.Size() >= b.cfg.MinSize {
		return
	}
	if prev.Size()+len(sectionSep)+last.Size() > b.cfg.MaxSize {
		return
	}
	prev.Text += sectionSep + last.Text
	prev.EndIndex = prev.StartIndex + len(prev.Text)
	prev.SentenceCount = len(b.sp.Split(prev.Text))
	prev.WordCount = len(strings.Fields(prev.Text))
	prev.HasHeader = prev.HasHeader || last.HasHeader
	b.chunks[n-2] = prev
	b.chunks = b.chunks[:n-1]
}

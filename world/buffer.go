package world

import (
	"strings"
	"sync"

	"github.com/dekarrin/rosed"
)

// fragment is one queued piece of output. para marks a paragraph break,
// formatted marks text that may be word-wrapped and joined with its
// neighbors.
type fragment struct {
	text      string
	formatted bool
	para      bool
}

// Buffer accumulates output for a single actor until a reader drains it.
// Raw and wrapped reads are two views of the same queue: either empties
// the buffer. Safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	frags   []fragment
	updates chan struct{}
}

func NewBuffer() *Buffer {
	return &Buffer{
		updates: make(chan struct{}, 1),
	}
}

// Updates signals whenever new output is queued. The channel has a
// one-slot backlog, so a reader that drains after each signal never
// misses output.
func (b *Buffer) Updates() <-chan struct{} {
	return b.updates
}

// Tell queues text for display, subject to word wrap.
func (b *Buffer) Tell(text string) {
	b.Append(text, true, false)
}

// Append queues text. An empty string or a lone newline is a paragraph
// break; consecutive breaks collapse to one and breaks on an empty
// buffer are dropped. format=false preserves the text verbatim,
// including embedded newlines, and exempts it from wrapping. end=true
// forces a paragraph break after the fragment.
func (b *Buffer) Append(text string, format bool, end bool) {
	b.mu.Lock()
	if text == "" || text == "\n" {
		b.appendBreak()
	} else {
		b.frags = append(b.frags, fragment{text: text, formatted: format})
		if end {
			b.appendBreak()
		}
	}
	b.mu.Unlock()
	select {
	case b.updates <- struct{}{}:
	default:
	}
}

func (b *Buffer) appendBreak() {
	if len(b.frags) == 0 || b.frags[len(b.frags)-1].para {
		return
	}
	b.frags = append(b.frags, fragment{para: true})
}

// take removes and returns all queued fragments, dropping any trailing
// paragraph break.
func (b *Buffer) take() []fragment {
	b.mu.Lock()
	defer b.mu.Unlock()
	frags := b.frags
	b.frags = nil
	for len(frags) > 0 && frags[len(frags)-1].para {
		frags = frags[:len(frags)-1]
	}
	return frags
}

// segments groups consecutive formatted fragments into single
// space-joined elements, keeps unformatted fragments as their own
// elements, and renders paragraph breaks as "\n" elements.
func segments(frags []fragment) []fragment {
	result := []fragment{}
	words := []string{}
	flush := func() {
		if len(words) > 0 {
			result = append(result, fragment{text: strings.Join(words, " "), formatted: true})
			words = nil
		}
	}
	for _, frag := range frags {
		switch {
		case frag.para:
			flush()
			result = append(result, fragment{text: "\n", para: true})
		case frag.formatted:
			words = append(words, frag.text)
		default:
			flush()
			result = append(result, frag)
		}
	}
	flush()
	return result
}

// DrainRaw empties the buffer and returns its paragraphs as separate
// elements, with "\n" elements marking paragraph breaks.
func (b *Buffer) DrainRaw() []string {
	result := []string{}
	for _, seg := range segments(b.take()) {
		result = append(result, seg.text)
	}
	return result
}

// DrainWrapped empties the buffer and returns a single string with
// formatted paragraphs word-wrapped to width. Unformatted fragments
// pass through untouched. Panics on non-positive width: that is a bug
// in the caller, not a runtime condition.
func (b *Buffer) DrainWrapped(width int) string {
	if width <= 0 {
		panic("DrainWrapped: width must be positive")
	}
	out := &strings.Builder{}
	prevText := false
	for _, seg := range segments(b.take()) {
		switch {
		case seg.para:
			out.WriteString("\n")
			prevText = false
		case seg.formatted:
			if prevText {
				out.WriteString("\n")
			}
			out.WriteString(rosed.Edit(seg.text).WrapOpts(width, rosed.Options{
				NoTrailingLineSeparators: true,
			}).String())
			prevText = true
		default:
			if prevText {
				out.WriteString("\n")
			}
			out.WriteString(seg.text)
			prevText = true
		}
	}
	return out.String()
}

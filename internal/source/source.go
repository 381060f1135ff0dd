// Package source owns source buffers and the diagnostic engine shared by the
// rest of the front end. It is the "compilation context" anchor described in
// spec.md §5: lexer, parser, and semantic analyser all report through one
// Engine, and every Position they produce resolves back to a line of text
// here.
package source

import "strings"

// Buffer is a named, immutable source text. The name is opaque outside this
// package — typically a file path, or "<stdin>"/"<module>" for synthetic
// input — and is what Position.File refers to.
type Buffer struct {
	Name string
	Text string
	// lineOffsets[i] is the byte offset of the start of line i+1.
	lineOffsets []int
}

// NewBuffer registers source text under name, precomputing line start
// offsets so later (line, column) lookups are O(log n).
func NewBuffer(name, text string) *Buffer {
	b := &Buffer{Name: name, Text: text, lineOffsets: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineOffsets = append(b.lineOffsets, i+1)
		}
	}
	return b
}

// Line returns the 1-indexed source line, or "" if out of range.
func (b *Buffer) Line(n int) string {
	if n < 1 || n > len(b.lineOffsets) {
		return ""
	}
	start := b.lineOffsets[n-1]
	end := len(b.Text)
	if n < len(b.lineOffsets) {
		end = b.lineOffsets[n] - 1 // drop the trailing '\n'
	}
	if end > len(b.Text) {
		end = len(b.Text)
	}
	if start > end {
		return ""
	}
	return strings.TrimRight(b.Text[start:end], "\r")
}

// Manager owns every Buffer registered during one compilation, plus the
// interned-string set referenced by spec.md §3 ("Strings are retained by
// the compilation context... so references outlive lexing").
type Manager struct {
	buffers map[string]*Buffer
	interns map[string]string
}

// NewManager creates an empty source/intern registry.
func NewManager() *Manager {
	return &Manager{buffers: make(map[string]*Buffer), interns: make(map[string]string)}
}

// Add registers a new buffer and returns it.
func (m *Manager) Add(name, text string) *Buffer {
	b := NewBuffer(name, text)
	m.buffers[name] = b
	return b
}

// Get returns the buffer registered under name, or nil.
func (m *Manager) Get(name string) *Buffer { return m.buffers[name] }

// Intern returns the canonical, shared copy of s, interning it on first use.
// Equal strings always return the identical underlying Go string value.
func (m *Manager) Intern(s string) string {
	if v, ok := m.interns[s]; ok {
		return v
	}
	m.interns[s] = s
	return s
}

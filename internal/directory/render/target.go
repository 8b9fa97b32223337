package render

import (
	"html/template"
	"strings"
	"sync"
)

// RenderTarget is a surface that accepts HTML fragments. Controllers only talk
// to this interface so they can be exercised without a real page.
type RenderTarget interface {
	// Clear removes every fragment.
	Clear()
	// Append inserts a fragment at the end.
	Append(fragment template.HTML)
	// ReplaceWith replaces the whole content with a single fragment.
	ReplaceWith(fragment template.HTML)
	// ReplaceAll replaces the whole content with fragments in one step, so
	// readers never observe a partial paint.
	ReplaceAll(fragments []template.HTML)
}

// Surface is an in-memory RenderTarget. It is safe for concurrent use so HTTP
// handlers can read it while the loader writes the initial paint.
type Surface struct {
	mu        sync.RWMutex
	fragments []template.HTML
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Clear() {
	s.mu.Lock()
	s.fragments = nil
	s.mu.Unlock()
}

func (s *Surface) Append(fragment template.HTML) {
	s.mu.Lock()
	s.fragments = append(s.fragments, fragment)
	s.mu.Unlock()
}

func (s *Surface) ReplaceWith(fragment template.HTML) {
	s.mu.Lock()
	s.fragments = []template.HTML{fragment}
	s.mu.Unlock()
}

func (s *Surface) ReplaceAll(fragments []template.HTML) {
	next := make([]template.HTML, len(fragments))
	copy(next, fragments)
	s.mu.Lock()
	s.fragments = next
	s.mu.Unlock()
}

// Len reports how many fragments the surface holds.
func (s *Surface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fragments)
}

// Fragments returns a copy of the fragments in order.
func (s *Surface) Fragments() []template.HTML {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]template.HTML, len(s.fragments))
	copy(out, s.fragments)
	return out
}

// HTML returns the concatenated surface content.
func (s *Surface) HTML() template.HTML {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	for _, f := range s.fragments {
		b.WriteString(string(f))
	}
	return template.HTML(b.String())
}

var _ RenderTarget = (*Surface)(nil)

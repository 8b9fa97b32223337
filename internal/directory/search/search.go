package search

import (
	"strings"

	"staffdir/internal/directory/models"
	"staffdir/internal/directory/render"
)

// Source is the read side of the data store.
type Source interface {
	All() []models.PersonRecord
}

// Gallery is the paint side of the gallery renderer.
type Gallery interface {
	RenderAll(records []models.PersonRecord) error
	RenderEmpty(message string) error
}

// Result summarizes one search.
type Result struct {
	Query   string
	Matches int
	Total   int
}

// Controller filters the store by name and repaints the gallery with the
// matching subsequence. It never writes to the store.
type Controller struct {
	source  Source
	gallery Gallery
	form    render.RenderTarget
}

// New creates a search controller. form, when non-nil, receives the search form.
func New(source Source, gallery Gallery, form render.RenderTarget) *Controller {
	return &Controller{source: source, gallery: gallery, form: form}
}

// Filter returns the records whose full name contains query, ignoring case,
// in store order.
func Filter(records []models.PersonRecord, query string) []models.PersonRecord {
	needle := strings.ToUpper(query)
	out := make([]models.PersonRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToUpper(r.FullName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Search repaints the gallery with the records matching query, or with the
// no-results message when nothing matches. An empty query matches everyone.
func (c *Controller) Search(query string) (Result, error) {
	all := c.source.All()
	matches := Filter(all, query)
	result := Result{Query: query, Matches: len(matches), Total: len(all)}

	if err := c.RenderForm(query); err != nil {
		return result, err
	}
	if len(matches) == 0 {
		return result, c.gallery.RenderEmpty(render.NoResultsMessage)
	}
	return result, c.gallery.RenderAll(matches)
}

// RenderForm paints the search form, keeping query in the input.
func (c *Controller) RenderForm(query string) error {
	if c.form == nil {
		return nil
	}
	frag, err := render.SearchFragment(query)
	if err != nil {
		return err
	}
	c.form.ReplaceWith(frag)
	return nil
}

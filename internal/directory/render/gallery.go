package render

import (
	"html/template"

	"staffdir/internal/directory/models"
)

// GalleryRenderer paints records into the gallery surface. Every paint fully
// replaces the surface, so repeated paints of the same list are idempotent.
type GalleryRenderer struct {
	target RenderTarget
}

// NewGalleryRenderer creates a renderer over the gallery surface.
func NewGalleryRenderer(target RenderTarget) *GalleryRenderer {
	return &GalleryRenderer{target: target}
}

// RenderAll replaces the gallery with one card per record in order.
// Fragments are built before the surface is touched so a failure leaves the
// previous paint in place, and the swap is a single step.
func (g *GalleryRenderer) RenderAll(records []models.PersonRecord) error {
	cards := make([]template.HTML, 0, len(records))
	for _, r := range records {
		frag, err := CardFragment(CardFromRecord(r))
		if err != nil {
			return err
		}
		cards = append(cards, frag)
	}

	g.target.ReplaceAll(cards)
	return nil
}

// RenderEmpty replaces the gallery with a single message element.
func (g *GalleryRenderer) RenderEmpty(message string) error {
	frag, err := MessageFragment(message)
	if err != nil {
		return err
	}
	g.target.ReplaceWith(frag)
	return nil
}

// RenderLoading paints the loading placeholder.
func (g *GalleryRenderer) RenderLoading() error {
	frag, err := LoadingFragment()
	if err != nil {
		return err
	}
	g.target.ReplaceWith(frag)
	return nil
}

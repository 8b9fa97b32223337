// Package modal implements the single detail view bound to one record index.
//
// States are Closed and Open(i). OpenAt only fires from Closed; Prev and Next
// clamp at the ends of the store and update the open shell in place; Close
// removes the modal from its surface.
package modal

import (
	"strconv"
	"strings"

	"staffdir/internal/directory/models"
	"staffdir/internal/directory/render"
)

// Store is the read side of the data store the modal navigates.
type Store interface {
	At(i int) (models.PersonRecord, error)
	Len() int
}

// Controller owns the modal selection. It is not safe for concurrent use; the
// directory service serializes calls.
type Controller struct {
	store  Store
	target render.RenderTarget
	shell  *render.ModalShell
}

// New creates a controller rendering into target.
func New(store Store, target render.RenderTarget) *Controller {
	return &Controller{store: store, target: target}
}

// IsOpen reports whether a modal is showing.
func (c *Controller) IsOpen() bool {
	return c.shell != nil
}

// Index returns the bound index while open.
func (c *Controller) Index() (int, bool) {
	if c.shell == nil {
		return 0, false
	}
	return c.shell.NavIndex, true
}

// Shell exposes the open shell, or nil when closed.
func (c *Controller) Shell() *render.ModalShell {
	return c.shell
}

// ResolveClick turns the data-index carried by a clicked card element into a
// record index. Values that are not indices of the store do not resolve.
func (c *Controller) ResolveClick(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= c.store.Len() {
		return 0, false
	}
	return i, true
}

// Click opens the modal for a clicked card. Unresolvable clicks and clicks
// while a modal is open are ignored.
func (c *Controller) Click(raw string) (bool, error) {
	i, ok := c.ResolveClick(raw)
	if !ok {
		return false, nil
	}
	return c.OpenAt(i)
}

// OpenAt transitions Closed -> Open(i). It is a no-op when already open or
// when i does not resolve to a record.
func (c *Controller) OpenAt(i int) (bool, error) {
	if c.shell != nil {
		return false, nil
	}
	rec, err := c.store.At(i)
	if err != nil {
		return false, nil
	}
	shell := &render.ModalShell{NavIndex: i, Content: render.ModalContentFromRecord(rec)}
	frag, err := render.ModalFragment(shell)
	if err != nil {
		return false, err
	}
	c.shell = shell
	c.target.Append(frag)
	return true, nil
}

// Close transitions Open(i) -> Closed, discarding the content and nav bar together.
func (c *Controller) Close() bool {
	if c.shell == nil {
		return false
	}
	c.shell = nil
	c.target.Clear()
	return true
}

// Prev moves to i-1 when i > 0.
func (c *Controller) Prev() (bool, error) {
	if c.shell == nil || c.shell.NavIndex <= 0 {
		return false, nil
	}
	return c.moveTo(c.shell.NavIndex - 1)
}

// Next moves to i+1 when i is not the last record.
func (c *Controller) Next() (bool, error) {
	if c.shell == nil || c.shell.NavIndex >= c.store.Len()-1 {
		return false, nil
	}
	return c.moveTo(c.shell.NavIndex + 1)
}

// moveTo re-reads the store and swaps the content of the existing shell.
func (c *Controller) moveTo(i int) (bool, error) {
	rec, err := c.store.At(i)
	if err != nil {
		return false, nil
	}
	prev := *c.shell
	c.shell.NavIndex = i
	c.shell.Content = render.ModalContentFromRecord(rec)

	frag, err := render.ModalFragment(c.shell)
	if err != nil {
		*c.shell = prev
		return false, err
	}
	c.target.ReplaceWith(frag)
	return true, nil
}

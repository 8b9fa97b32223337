package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"staffdir/internal/directory/models"
	"staffdir/internal/directory/render"
	"staffdir/internal/directory/render/rendertest"
	"staffdir/internal/directory/store"
	"staffdir/pkg/testutil"
)

func TestFilter(t *testing.T) {
	recs := []models.PersonRecord{
		{Index: 0, FullName: "John Smith"},
		{Index: 1, FullName: "Amelia Clarke"},
		{Index: 2, FullName: "Joanna Reyes"},
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"case insensitive", "jo", []int{0, 2}},
		{"upper case query", "SMITH", []int{0}},
		{"matches across the separating space", "a r", []int{2}},
		{"empty query matches all", "", []int{0, 1, 2}},
		{"no match", "zzzzqqqq", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(recs, tt.query)
			indices := make([]int, 0, len(got))
			for _, r := range got {
				indices = append(indices, r.Index)
			}
			assert.Equal(t, tt.want, indices)
		})
	}
}

type ControllerSuite struct {
	suite.Suite
	store   *store.DataStore
	gallery *render.Surface
	form    *render.Surface
	search  *Controller
}

func (s *ControllerSuite) SetupTest() {
	s.store = store.New()
	s.store.Ingest(testutil.RawPeople(12))
	s.gallery = render.NewSurface()
	s.form = render.NewSurface()
	s.search = New(s.store, render.NewGalleryRenderer(s.gallery), s.form)
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) galleryIndices() []string {
	indices, err := rendertest.Indices(s.gallery.HTML(), "card")
	s.Require().NoError(err)
	return indices
}

func (s *ControllerSuite) TestMatchesPreserveStoreOrder() {
	result, err := s.search.Search("jo")

	s.Require().NoError(err)
	s.Equal(3, result.Matches)
	s.Equal(12, result.Total)
	// John Smith, Joanna Reyes, and Liam Jones on the family name.
	s.Equal([]string{"0", "2", "7"}, s.galleryIndices())
}

func (s *ControllerSuite) TestNoResults() {
	before := s.store.All()

	result, err := s.search.Search("zzzzqqqq")

	s.Require().NoError(err)
	s.Zero(result.Matches)
	s.Equal(1, s.gallery.Len())
	s.Empty(s.galleryIndices())
	s.Contains(string(s.gallery.HTML()), render.NoResultsMessage)
	s.Equal(before, s.store.All(), "search must not mutate the store")

	_, err = s.search.Search("")
	s.Require().NoError(err)
	s.Len(s.galleryIndices(), 12, "empty query restores the full list")
}

func (s *ControllerSuite) TestFormKeepsQuery() {
	_, err := s.search.Search("amelia")
	s.Require().NoError(err)

	s.Equal(1, s.form.Len())
	s.Contains(string(s.form.HTML()), `value="amelia"`)
}

func TestSearchWithoutFormSurface(t *testing.T) {
	st := store.New()
	st.Ingest(testutil.RawPeople(3))
	gallery := render.NewSurface()

	_, err := New(st, render.NewGalleryRenderer(gallery), nil).Search("amelia")

	require.NoError(t, err)
	assert.Equal(t, 1, gallery.Len())
}

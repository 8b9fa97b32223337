package service

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"staffdir/internal/directory/fetcher"
	"staffdir/internal/directory/metrics"
	"staffdir/internal/directory/models"
	"staffdir/internal/directory/render"
	"staffdir/internal/directory/render/rendertest"
	dErrors "staffdir/pkg/domain-errors"
	"staffdir/pkg/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubFetcher returns a fixed result, optionally waiting on gate first.
type stubFetcher struct {
	people []models.RawPerson
	err    error
	gate   chan struct{}
	calls  atomic.Int32
}

func (f *stubFetcher) FetchPeople(ctx context.Context) ([]models.RawPerson, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.people, f.err
}

type DirectorySuite struct {
	suite.Suite
	fetcher *stubFetcher
	metrics *metrics.Metrics
	dir     *Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.fetcher = &stubFetcher{people: testutil.RawPeople(12)}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	dir, err := New(s.fetcher,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.dir = dir
}

func (s *DirectorySuite) load() {
	s.Require().NoError(s.dir.Load(context.Background()))
}

func (s *DirectorySuite) cardIndices(fragment template.HTML) []string {
	indices, err := rendertest.Indices(fragment, "card")
	s.Require().NoError(err)
	return indices
}

func (s *DirectorySuite) TestNewPaintsPlaceholder() {
	s.Contains(string(s.dir.Gallery()), render.LoadingMessage)
	s.Empty(s.dir.Modal())

	err := s.dir.Ready()
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *DirectorySuite) TestLoad() {
	s.load()

	s.Len(s.cardIndices(s.dir.Gallery()), 12)
	s.NotContains(string(s.dir.Gallery()), render.LoadingMessage)
	s.NoError(s.dir.Ready())
	s.Len(s.dir.People(), 12)
	s.Equal(12.0, promtest.ToFloat64(s.metrics.RecordsLoaded))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.FetchTotal.WithLabelValues("success", "")))
}

func (s *DirectorySuite) TestLoadRunsOnce() {
	s.load()
	s.load()

	s.Equal(int32(1), s.fetcher.calls.Load())
}

func (s *DirectorySuite) TestLoadFailureKeepsPlaceholder() {
	s.fetcher.err = &fetcher.FetchError{Kind: fetcher.ErrorHTTPStatus, StatusCode: 503, Message: "Service Unavailable"}

	err := s.dir.Load(context.Background())

	s.Require().Error(err)
	s.Equal(fetcher.ErrorHTTPStatus, fetcher.KindOf(err))
	s.Contains(string(s.dir.Gallery()), render.LoadingMessage)
	s.Empty(s.dir.People())
	s.True(dErrors.HasCode(s.dir.Ready(), dErrors.CodeUnavailable))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.FetchTotal.WithLabelValues("failure", "http_status")))

	s.Run("interactions stay inert", func() {
		modal, err := s.dir.Click("0")
		s.NoError(err)
		s.Empty(modal)
	})
}

func (s *DirectorySuite) TestModalFlow() {
	s.load()

	modal, err := s.dir.Click("3")
	s.Require().NoError(err)
	s.Contains(string(modal), testutil.Names[3][0])
	idx, open := s.dir.ModalIndex()
	s.True(open)
	s.Equal(3, idx)

	_, err = s.dir.Click("5")
	s.Require().NoError(err)
	idx, _ = s.dir.ModalIndex()
	s.Equal(3, idx, "a second click while open is ignored")

	modal, err = s.dir.Next()
	s.Require().NoError(err)
	s.Contains(string(modal), testutil.Names[4][0])

	_, err = s.dir.Prev()
	s.Require().NoError(err)
	_, err = s.dir.Prev()
	s.Require().NoError(err)
	idx, _ = s.dir.ModalIndex()
	s.Equal(2, idx)

	s.Empty(s.dir.Close())
	_, open = s.dir.ModalIndex()
	s.False(open)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.ModalActionsTotal.WithLabelValues("open", "false")))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ModalActionsTotal.WithLabelValues("close", "true")))
}

func (s *DirectorySuite) TestSearch() {
	s.load()

	gallery, err := s.dir.Search("zzzzqqqq")
	s.Require().NoError(err)
	s.Contains(string(gallery), render.NoResultsMessage)
	s.Len(s.dir.People(), 12)
	s.Equal("zzzzqqqq", s.dir.Query())

	gallery, err = s.dir.Search("")
	s.Require().NoError(err)
	s.Len(s.cardIndices(gallery), 12)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.SearchesTotal.WithLabelValues("empty")))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SearchesTotal.WithLabelValues("matched")))
}

func (s *DirectorySuite) TestNavigationIgnoresSearchFilter() {
	s.load()

	gallery, err := s.dir.Search("jo")
	s.Require().NoError(err)
	s.Equal([]string{"0", "2", "7"}, s.cardIndices(gallery))

	_, err = s.dir.Click("7")
	s.Require().NoError(err)
	_, err = s.dir.Next()
	s.Require().NoError(err)

	idx, _ := s.dir.ModalIndex()
	s.Equal(8, idx, "navigation walks the full store, not the filtered view")
}

func (s *DirectorySuite) TestPage() {
	s.load()
	_, err := s.dir.Click("1")
	s.Require().NoError(err)

	page, err := s.dir.Page()
	s.Require().NoError(err)

	s.Contains(string(page), render.PageTitle)
	s.Len(s.cardIndices(page), 12)
	count, err := rendertest.CountClass(page, "modal-container")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *DirectorySuite) TestPerson() {
	s.load()

	rec, err := s.dir.Person(11)
	s.Require().NoError(err)
	s.Equal(11, rec.Index)

	_, err = s.dir.Person(12)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DirectorySuite) TestConcurrentInteractions() {
	s.load()

	result := testutil.RunConcurrent(64, func(idx int) error {
		var err error
		switch idx % 5 {
		case 0:
			_, err = s.dir.Click("6")
		case 1:
			_, err = s.dir.Next()
		case 2:
			_, err = s.dir.Prev()
		case 3:
			_, err = s.dir.Search("a")
		default:
			s.dir.Close()
		}
		return err
	})

	s.Equal(int32(64), result.Successes)
	count, err := rendertest.CountClass(s.dir.Modal(), "modal-container")
	s.Require().NoError(err)
	s.LessOrEqual(count, 1, "at most one modal exists")
	if idx, open := s.dir.ModalIndex(); open {
		s.GreaterOrEqual(idx, 0)
		s.Less(idx, 12)
	}
}

func (s *DirectorySuite) TestReadersSeeWholeSurfaces() {
	s.load()

	result := testutil.RunConcurrent(200, func(idx int) error {
		switch idx % 4 {
		case 0:
			_, err := s.dir.Search("")
			return err
		case 1:
			_, err := s.dir.Search("zzzzqqqq")
			return err
		case 2:
			gallery := s.dir.Gallery()
			if strings.Contains(string(gallery), render.NoResultsMessage) {
				return nil
			}
			count, err := rendertest.CountClass(gallery, "card")
			if err != nil {
				return err
			}
			if count != 12 {
				return fmt.Errorf("gallery painted %d of 12 cards", count)
			}
			return nil
		default:
			if idx%8 == 3 {
				_, err := s.dir.Click("2")
				return err
			}
			count, err := rendertest.CountClass(s.dir.Modal(), "modal-container")
			if err != nil {
				return err
			}
			if count > 1 {
				return fmt.Errorf("%d modals on the surface", count)
			}
			return nil
		}
	})

	s.Equal(int32(200), result.Successes)
	s.Zero(result.Errors)
}

func (s *DirectorySuite) TestBackgroundLoad() {
	s.fetcher.gate = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.dir.Load(context.Background())
	}()

	// Interactions keep working while the fetch is in flight.
	_, err := s.dir.Search("jo")
	s.Require().NoError(err)
	s.Error(s.dir.Ready())

	close(s.fetcher.gate)
	s.Require().NoError(<-done)
	s.NoError(s.dir.Ready())

	// The pending query is re-applied to the loaded records.
	s.Equal([]string{"0", "2", "7"}, s.cardIndices(s.dir.Gallery()))
	page, err := s.dir.Page()
	s.Require().NoError(err)
	s.Contains(string(page), `value="jo"`)
}

func (s *DirectorySuite) TestBackgroundLoadWithoutQuery() {
	s.fetcher.gate = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.dir.Load(context.Background())
	}()

	close(s.fetcher.gate)
	s.Require().NoError(<-done)
	s.Len(s.cardIndices(s.dir.Gallery()), 12)
}

func (s *DirectorySuite) TestLoadCancelled() {
	s.fetcher.gate = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.dir.Load(ctx)
	}()

	cancel()

	s.ErrorIs(<-done, context.Canceled)
	s.Contains(string(s.dir.Gallery()), render.LoadingMessage)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.FetchTotal.WithLabelValues("failure", "unknown")))
}

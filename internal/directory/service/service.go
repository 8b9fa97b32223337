// Package service holds the directory session: the data store, the three page
// surfaces, and the controllers that paint them.
//
// The server handles requests concurrently, but the directory behaves like a
// single event loop. Every interaction takes the session lock, so a click, a
// search and the initial paint never interleave.
package service

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"staffdir/internal/directory/fetcher"
	"staffdir/internal/directory/metrics"
	"staffdir/internal/directory/modal"
	"staffdir/internal/directory/models"
	"staffdir/internal/directory/render"
	"staffdir/internal/directory/search"
	"staffdir/internal/directory/store"
	"staffdir/internal/directory/tracer"
	dErrors "staffdir/pkg/domain-errors"
)

// PeopleFetcher retrieves the upstream people once.
type PeopleFetcher interface {
	FetchPeople(ctx context.Context) ([]models.RawPerson, error)
}

// Directory is the single session served by the process.
type Directory struct {
	fetcher PeopleFetcher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer

	mu       sync.Mutex
	store    *store.DataStore
	gallery  *render.Surface
	modalSfc *render.Surface
	form     *render.Surface
	renderer *render.GalleryRenderer
	modal    *modal.Controller
	search   *search.Controller
	query    string

	loadOnce   sync.Once
	loadResult error

	// guarded by mu
	loadErr  error
	loadDone bool
}

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Directory) {
		d.metrics = m
	}
}

// WithTracer sets the tracer used around the load.
func WithTracer(t tracer.Tracer) Option {
	return func(d *Directory) {
		d.tracer = t
	}
}

// New creates a directory session and paints the loading placeholder and the
// empty search form.
func New(f PeopleFetcher, opts ...Option) (*Directory, error) {
	d := &Directory{
		fetcher:  f,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
		store:    store.New(),
		gallery:  render.NewSurface(),
		modalSfc: render.NewSurface(),
		form:     render.NewSurface(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.renderer = render.NewGalleryRenderer(d.gallery)
	d.modal = modal.New(d.store, d.modalSfc)
	d.search = search.New(d.store, d.renderer, d.form)

	if err := d.renderer.RenderLoading(); err != nil {
		return nil, err
	}
	if err := d.search.RenderForm(""); err != nil {
		return nil, err
	}
	return d, nil
}

// Load fetches the people, ingests them and paints the gallery. Only the
// first call does any work; later calls return the first result. On failure
// the loading placeholder stays in place.
func (d *Directory) Load(ctx context.Context) error {
	d.loadOnce.Do(func() {
		d.loadResult = d.load(ctx)
	})
	return d.loadResult
}

func (d *Directory) load(ctx context.Context) (err error) {
	ctx, span := d.tracer.Start(ctx, tracer.SpanDirectoryLoad)
	defer func() { span.End(err) }()

	start := time.Now()
	raw, err := d.fetcher.FetchPeople(ctx)
	elapsed := time.Since(start)
	span.SetAttributes(tracer.Duration(tracer.AttrFetchDuration, elapsed))
	kind := fetcher.KindOf(err)
	if err != nil && kind == "" {
		kind = "unknown"
	}
	if d.metrics != nil {
		d.metrics.ObserveFetch(string(kind), elapsed)
	}
	if err != nil {
		d.logger.ErrorContext(ctx, "directory load failed",
			"error", err,
			"kind", kind,
			"duration_ms", elapsed.Milliseconds(),
		)
		d.markLoaded(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	records := d.store.Ingest(raw)
	span.AddEvent(tracer.EventIngested, tracer.Int(tracer.AttrRecordsTotal, len(records)))
	if d.metrics != nil {
		d.metrics.SetRecords(len(records))
	}
	if err = d.paintLoaded(records); err != nil {
		d.logger.ErrorContext(ctx, "initial gallery render failed", "error", err)
		d.loadErr, d.loadDone = err, true
		return err
	}
	d.loadDone = true
	d.logger.InfoContext(ctx, "directory loaded",
		"records", len(records),
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}

// paintLoaded paints freshly ingested records. A search submitted while the
// fetch was in flight is re-applied so the gallery agrees with the form.
// Must be called with d.mu held.
func (d *Directory) paintLoaded(records []models.PersonRecord) error {
	if d.query == "" {
		return d.renderer.RenderAll(records)
	}
	_, err := d.search.Search(d.query)
	return err
}

func (d *Directory) markLoaded(err error) {
	d.mu.Lock()
	d.loadErr, d.loadDone = err, true
	d.mu.Unlock()
}

// Ready reports nil once the directory has loaded successfully.
func (d *Directory) Ready() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loadDone {
		return dErrors.New(dErrors.CodeUnavailable, "directory loading")
	}
	if d.loadErr != nil {
		return dErrors.Wrap(d.loadErr, dErrors.CodeUnavailable, "directory load failed")
	}
	return nil
}

// Click opens the modal for the card element carrying dataIndex and returns
// the modal surface.
func (d *Directory) Click(dataIndex string) (template.HTML, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	changed, err := d.modal.Click(dataIndex)
	return d.afterModal("open", changed, err)
}

// Prev moves the open modal one record back.
func (d *Directory) Prev() (template.HTML, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	changed, err := d.modal.Prev()
	return d.afterModal("prev", changed, err)
}

// Next moves the open modal one record forward.
func (d *Directory) Next() (template.HTML, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	changed, err := d.modal.Next()
	return d.afterModal("next", changed, err)
}

// Close closes the modal.
func (d *Directory) Close() template.HTML {
	d.mu.Lock()
	defer d.mu.Unlock()
	html, _ := d.afterModal("close", d.modal.Close(), nil)
	return html
}

// afterModal must be called with d.mu held.
func (d *Directory) afterModal(action string, changed bool, err error) (template.HTML, error) {
	if err != nil {
		d.logger.Error("modal render failed", "action", action, "error", err)
		return "", err
	}
	if d.metrics != nil {
		d.metrics.IncModalAction(action, changed)
	}
	return d.modalSfc.HTML(), nil
}

// Search filters the gallery by name and returns the gallery surface.
func (d *Directory) Search(query string) (template.HTML, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	result, err := d.search.Search(query)
	if err != nil {
		d.logger.Error("search render failed", "query", query, "error", err)
		return "", err
	}
	d.query = query
	if d.metrics != nil {
		d.metrics.IncSearch(result.Matches)
	}
	return d.gallery.HTML(), nil
}

// Gallery returns the gallery surface.
func (d *Directory) Gallery() template.HTML {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gallery.HTML()
}

// Modal returns the modal surface; empty while closed.
func (d *Directory) Modal() template.HTML {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modalSfc.HTML()
}

// Query returns the last submitted search text.
func (d *Directory) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

// ModalIndex returns the record bound to the open modal.
func (d *Directory) ModalIndex() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modal.Index()
}

// Page renders the full document from the current surfaces.
func (d *Directory) Page() (template.HTML, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return render.PageDocument(render.Page{
		Search:  d.form.HTML(),
		Gallery: d.gallery.HTML(),
		Modal:   d.modalSfc.HTML(),
	})
}

// People returns every record in store order.
func (d *Directory) People() []models.PersonRecord {
	return d.store.All()
}

// Person returns the record at index i.
func (d *Directory) Person(i int) (models.PersonRecord, error) {
	rec, err := d.store.At(i)
	if errors.Is(err, store.ErrNotFound) {
		return models.PersonRecord{}, dErrors.New(dErrors.CodeNotFound, "person not found")
	}
	return rec, err
}

package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffdir/internal/directory/models"
	"staffdir/internal/directory/render"
	"staffdir/internal/platform/middleware"
	"staffdir/pkg/platform/httputil"
)

// Service defines the directory session operations the handler drives.
type Service interface {
	Page() (template.HTML, error)
	Gallery() template.HTML
	Modal() template.HTML
	Click(dataIndex string) (template.HTML, error)
	Prev() (template.HTML, error)
	Next() (template.HTML, error)
	Close() template.HTML
	Search(query string) (template.HTML, error)
	People() []models.PersonRecord
	Person(i int) (models.PersonRecord, error)
}

// Handler serves the directory page, its interactions and a read-only JSON view.
type Handler struct {
	logger    *slog.Logger
	directory Service
}

// New creates a new directory Handler.
func New(directory Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		directory: directory,
	}
}

// Register registers the directory routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handlePage)
	r.Get("/gallery", h.handleGallery)
	r.Get("/modal", h.handleModal)

	r.Post("/gallery/click", h.handleClick)
	r.Post("/modal/prev", h.handlePrev)
	r.Post("/modal/next", h.handleNext)
	r.Post("/modal/close", h.handleClose)
	r.Post("/search", h.handleSearch)

	r.Get("/api/people", h.handleListPeople)
	r.Get("/api/people/{index}", h.handleGetPerson)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.directory.Page()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteHTML(w, http.StatusOK, page)
}

func (h *Handler) handleGallery(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteHTML(w, http.StatusOK, h.directory.Gallery())
}

func (h *Handler) handleModal(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteHTML(w, http.StatusOK, h.directory.Modal())
}

func (h *Handler) handleClick(w http.ResponseWriter, r *http.Request) {
	index, err := httputil.FormValue(w, r, "index")
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid click submission",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.respond(w, r, "click", func() (template.HTML, error) {
		return h.directory.Click(index)
	})
}

func (h *Handler) handlePrev(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "prev", h.directory.Prev)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "next", h.directory.Next)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "close", func() (template.HTML, error) {
		return h.directory.Close(), nil
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query, err := httputil.FormValue(w, r, "q")
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid search submission",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.respond(w, r, "search", func() (template.HTML, error) {
		return h.directory.Search(query)
	})
}

// respond runs an interaction and answers with the updated fragment when the
// page script asked for one, or redirects plain form posts back to the page.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, action string, run func() (template.HTML, error)) {
	fragment, err := run()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "directory interaction failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"action", action,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if r.Header.Get(render.FragmentHeader) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	httputil.WriteHTML(w, http.StatusOK, fragment)
}

// PeopleResponse lists every record in store order.
type PeopleResponse struct {
	People []models.PersonRecord `json:"people"`
	Total  int                   `json:"total"`
}

func (h *Handler) handleListPeople(w http.ResponseWriter, _ *http.Request) {
	people := h.directory.People()
	httputil.WriteJSON(w, http.StatusOK, PeopleResponse{People: people, Total: len(people)})
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	index, err := httputil.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	person, err := h.directory.Person(index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

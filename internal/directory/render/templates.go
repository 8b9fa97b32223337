package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// Messages painted by the directory.
const (
	LoadingMessage   = "Loading Data..."
	NoResultsMessage = "Your search yielded no results"
	PageTitle        = "Public API Requests"
)

// FragmentHeader marks requests from the page script that want a fragment
// instead of a full document.
const FragmentHeader = "X-Staffdir-Fragment"

const cardTemplate = `{{define "card"}}<div class="card" data-index="{{.Index}}">
  <div class="card-img-container" data-index="{{.Index}}">
    <img class="card-img" data-index="{{.Index}}" src="{{.ImageURL}}" alt="Profile Picture">
  </div>
  <div class="card-info-container" data-index="{{.Index}}">
    <h3 id="name" class="card-name cap" data-index="{{.Index}}">{{.FullName}}</h3>
    <p class="card-text" data-index="{{.Index}}">{{.Email}}</p>
    <p class="card-text cap" data-index="{{.Index}}">{{.City}}, {{.State}}</p>
  </div>
</div>
{{end}}`

const modalTemplate = `{{define "modal"}}<div class="modal-container">
  <form class="modal" method="post">
    <button type="submit" id="modal-close-btn" class="modal-close-btn" formaction="/modal/close"><strong>X</strong></button>
    {{template "modal-content" .Content}}
    <div class="modal-btn-container" data-index="{{.NavIndex}}">
      <button type="submit" id="modal-prev" class="modal-prev btn" formaction="/modal/prev">Prev</button>
      <button type="submit" id="modal-next" class="modal-next btn" formaction="/modal/next">Next</button>
    </div>
  </form>
</div>
{{end}}`

const modalContentTemplate = `{{define "modal-content"}}<div class="modal-info-container">
      <img class="modal-img" src="{{.ImageURL}}" alt="Profile Picture">
      <h3 id="name" class="modal-name cap">{{.FullName}}</h3>
      <p class="modal-text">{{.Email}}</p>
      <p class="modal-text cap">{{.City}}</p>
      <hr>
      <p class="modal-text">{{.Phone}}</p>
      <p class="modal-text">{{.Address}}</p>
      <p class="modal-text">Birthday: {{.BirthDate}}</p>
    </div>{{end}}`

const messageTemplates = `{{define "empty"}}<h3>{{.}}</h3>
{{end}}{{define "loading"}}<h1>{{.}}</h1>
{{end}}`

const searchTemplate = `{{define "search"}}<form action="/search" method="post">
  <input type="search" id="search-input" name="q" class="search-input" placeholder="Search..." value="{{.}}">
  <input type="submit" value="&#x1F50D;" id="search-submit" class="search-submit">
</form>
{{end}}`

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <header>
    <div class="header-inner-container">
      <div class="header-text-container">
        <h1>AWESOME STARTUP EMPLOYEE DIRECTORY</h1>
      </div>
      <div class="search-container">{{.Search}}</div>
    </div>
  </header>
  <div id="gallery" class="gallery">{{.Gallery}}</div>
  <div id="modal">{{.Modal}}</div>
  <script>
  (function () {
    var gallery = document.getElementById('gallery');
    var modal = document.getElementById('modal');
    function post(url, body, target) {
      return fetch(url, {
        method: 'POST',
        headers: {'Content-Type': 'application/x-www-form-urlencoded', 'X-Staffdir-Fragment': '1'},
        body: body
      }).then(function (r) { return r.text(); })
        .then(function (html) { target.innerHTML = html; });
    }
    gallery.addEventListener('click', function (e) {
      var card = e.target.closest('[data-index]');
      if (!card) { return; }
      post('/gallery/click', 'index=' + encodeURIComponent(card.dataset.index), modal);
    });
    modal.addEventListener('click', function (e) {
      var btn = e.target.closest('button[formaction]');
      if (!btn) { return; }
      e.preventDefault();
      post(btn.getAttribute('formaction'), '', modal);
    });
    document.addEventListener('submit', function (e) {
      if (e.target.getAttribute('action') !== '/search') { return; }
      e.preventDefault();
      post('/search', new URLSearchParams(new FormData(e.target)).toString(), gallery);
    });
  })();
  </script>
</body>
</html>
{{end}}`

var templates = template.Must(template.New("directory").Parse(
	cardTemplate + modalTemplate + modalContentTemplate + messageTemplates + searchTemplate + pageTemplate,
))

// Page is the full document composed from the three surfaces.
type Page struct {
	Title   string
	Search  template.HTML
	Gallery template.HTML
	Modal   template.HTML
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// CardFragment renders one gallery card.
func CardFragment(c Card) (template.HTML, error) {
	return execute("card", c)
}

// ModalFragment renders the modal shell with its current content.
func ModalFragment(m *ModalShell) (template.HTML, error) {
	return execute("modal", m)
}

// MessageFragment renders a single gallery message element.
func MessageFragment(message string) (template.HTML, error) {
	return execute("empty", message)
}

// LoadingFragment renders the loading placeholder.
func LoadingFragment() (template.HTML, error) {
	return execute("loading", LoadingMessage)
}

// SearchFragment renders the search form, preserving the last query.
func SearchFragment(query string) (template.HTML, error) {
	return execute("search", query)
}

// PageDocument renders the full document.
func PageDocument(p Page) (template.HTML, error) {
	if p.Title == "" {
		p.Title = PageTitle
	}
	return execute("page", p)
}

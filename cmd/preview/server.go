package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medflowhq/apptkit/pkg/httpserver"
	"github.com/medflowhq/apptkit/pkg/logger"
	"github.com/medflowhq/apptkit/pkg/notify"
	"github.com/medflowhq/apptkit/pkg/render"
)

// indexTemplate lists the available scenarios. It goes through the same
// engine as the email itself, so the index breaks loudly if the engine does.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Appointment email preview</title>
  <style>
    body { font-family: Arial, Helvetica, sans-serif; max-width: 640px; margin: 40px auto; color: #333333; }
    li { margin: 10px 0; }
    .subject { display: block; color: #718096; font-size: 13px; }
  </style>
</head>
<body>
  <h1>Appointment email preview</h1>
  <ul>
    {% for s in scenarios %}
    <li>
      <a href="/preview/{{ s.name }}">{{ s.title }}</a>
      <span class="subject">{{ s.subject }} (<a href="/preview/{{ s.name }}/subject">raw</a>)</span>
    </li>
    {% endfor %}
  </ul>
</body>
</html>`

type previewServer struct {
	engine    *render.Engine
	composer  *notify.Composer
	scenarios []Scenario
	log       *slog.Logger
}

func (s *previewServer) handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.index)
	r.Get("/preview/{name}", s.page)
	r.Get("/preview/{name}/subject", s.subject)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, s.log))
	return r
}

func (s *previewServer) index(w http.ResponseWriter, r *http.Request) {
	items := make([]map[string]any, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		items = append(items, map[string]any{
			"name":    sc.Name,
			"title":   sc.Title,
			"subject": notify.Subject(sc.Record),
		})
	}

	page, err := s.engine.RenderString(indexTemplate, map[string]any{"scenarios": items})
	if err != nil {
		s.fail(w, r, "render index", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *previewServer) page(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.scenario(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	msg, err := s.composer.StatusEmail(sc.Record)
	if err != nil {
		s.fail(w, r, "compose email", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(msg.HTML))
}

func (s *previewServer) subject(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.scenario(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(notify.Subject(sc.Record)))
}

func (s *previewServer) scenario(name string) (Scenario, bool) {
	for _, sc := range s.scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

// fail reports the error in the response body. This is a development tool;
// the person staring at the browser is the person debugging the template.
func (s *previewServer) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.ErrorContext(r.Context(), msg, logger.Error(err))
	http.Error(w, msg+": "+err.Error(), http.StatusInternalServerError)
}

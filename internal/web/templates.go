package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"autoadmin/internal/metrics"
)

//go:embed templates
var templateFS embed.FS

type templateSet map[string]*template.Template

var templateFuncs = template.FuncMap{
	"json": func(v any) (template.JS, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(data), nil
	},
}

// parseTemplates builds one template set per page, each sharing the
// layout and its partials.
func parseTemplates() (templateSet, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	set := make(templateSet, len(pages))
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")
		tmpl, err := template.New("layout.html").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		set[name] = tmpl
	}
	return set, nil
}

type sidebarBadges struct {
	Users    int
	Bookings int
}

// pageData is the envelope every template receives.
type pageData struct {
	Title       string
	Active      string
	AutoRefresh int
	AdminEmail  string
	HideNav     bool
	Flash       *flashMessage
	Badges      sidebarBadges
	Data        any
}

// render writes a page. Rendering goes through a buffer so a template
// error never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	s.renderStatus(w, r, page, title, data, http.StatusOK)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	tmpl, ok := s.templates[page]
	if !ok {
		s.logger.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	snap := s.refresher.Snapshot()
	pd := pageData{
		Title:      title,
		Active:     page,
		AdminEmail: sessionEmail(r),
		HideNav:    page == "login",
		Flash:      popFlash(w, r),
		Badges: sidebarBadges{
			Users:    snap.UserCount.Total,
			Bookings: snap.BookingCount.Total,
		},
		Data: data,
	}
	if s.cfg.Refresh.Enabled && s.refresher.Enabled(page) {
		pd.AutoRefresh = s.cfg.Refresh.IntervalSeconds
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", pd); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("template render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	metrics.IncPageRender(page)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ABOUTME: Election-site HTTP server: statement pages, quiz results pages, and the built JSON data behind a chi router.
// ABOUTME: Results snapshots are stored by id; panel open state travels in the ?open= query value.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kjosturett/kjosturett/quiz"
	"github.com/kjosturett/kjosturett/site"
	"github.com/kjosturett/kjosturett/store"
)

// maxResultBody caps the size of a submitted quiz result.
const maxResultBody = 1 << 20

// Store is the persistence the server reads statements from and writes
// result snapshots to.
type Store interface {
	StatementsByCategory(ctx context.Context, category string) (map[string]store.StatementRow, error)
	StatementsByParty(ctx context.Context, party string) (map[string]store.StatementRow, error)
	SaveResult(ctx context.Context, in quiz.Input) (string, error)
	Result(ctx context.Context, id string) (*store.ResultRecord, error)
}

// Server is the election-site HTTP server.
type Server struct {
	lists     site.Lists
	store     Store
	presenter quiz.Presenter
	templates *TemplateEngine
	dataDir   string
	router    chi.Router
	addr      string
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr    string // listen address (default: "127.0.0.1:3000")
	Lists   site.Lists
	Store   Store
	Assets  quiz.Assets
	DataDir string // built JSON documents; served under /data/ when set
}

// NewServer creates a Server and sets up routing.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:3000"
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("Store must not be nil")
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		lists:     cfg.Lists,
		store:     cfg.Store,
		presenter: quiz.Presenter{Lists: cfg.Lists, Assets: cfg.Assets},
		templates: tmpl,
		dataDir:   cfg.DataDir,
		addr:      cfg.Addr,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)
	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)

	staticFS, err := fs.Sub(StaticFS, "static")
	if err != nil {
		log.Printf("web: static sub-FS unavailable err=%v", err)
	} else {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}
	if s.dataDir != "" {
		r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(s.dataDir))))
	}

	r.Get("/malefni/{category}", s.handleCategory)
	r.Get("/flokkar/{party}", s.handleParty)

	r.Route("/prof-nidurstodur", func(r chi.Router) {
		r.Post("/", s.handleResultCreate)
		r.Get("/{id}.json", s.handleResultJSON)
		r.Get("/{id}", s.handleResultView)
	})

	return r
}

// PageData is the common template data; page-specific fields are optional.
type PageData struct {
	Title      string
	Categories []site.Category
	Parties    []site.Party

	Category   site.Category
	Party      site.Party
	Statements []StatementEntry

	ResultID   string
	PartyRows  []ResultRow
	Candidates []quiz.CandidateCard
}

// StatementEntry is one statement on a category or party page.
type StatementEntry struct {
	Party    site.Party
	Category site.Category
	HTML     template.HTML
	Found    bool
}

// ResultRow is a party row on the results page with its toggle link.
type ResultRow struct {
	quiz.PartyRow
	ToggleHref string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home.html", PageData{
		Title:      "Kjóstu rétt",
		Categories: s.lists.Categories,
		Parties:    s.lists.Parties,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "not_found.html", PageData{
		Title:      "Síða fannst ekki",
		Categories: s.lists.Categories,
	})
}

// handleCategory lists every party's statement for one category, in party list order.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.lists.Category(chi.URLParam(r, "category"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	rows, err := s.store.StatementsByCategory(r.Context(), category.URL)
	if err != nil {
		log.Printf("web: load statements category=%s err=%v", category.URL, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	entries := make([]StatementEntry, 0, len(s.lists.Parties))
	for _, party := range s.lists.Parties {
		row := rows[party.URL]
		entries = append(entries, StatementEntry{
			Party:    party,
			Category: category,
			HTML:     template.HTML(row.HTML),
			Found:    row.Found && row.HTML != "",
		})
	}

	s.render(w, http.StatusOK, "category.html", PageData{
		Title:      category.Name,
		Categories: s.lists.Categories,
		Category:   category,
		Statements: entries,
	})
}

// handleParty lists every category's statement for one party, in category list order.
func (s *Server) handleParty(w http.ResponseWriter, r *http.Request) {
	party, err := s.lists.Party(chi.URLParam(r, "party"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	rows, err := s.store.StatementsByParty(r.Context(), party.URL)
	if err != nil {
		log.Printf("web: load statements party=%s err=%v", party.URL, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	entries := make([]StatementEntry, 0, len(s.lists.Categories))
	for _, category := range s.lists.Categories {
		row := rows[category.URL]
		entries = append(entries, StatementEntry{
			Party:    party,
			Category: category,
			HTML:     template.HTML(row.HTML),
			Found:    row.Found && row.HTML != "",
		})
	}

	s.render(w, http.StatusOK, "party.html", PageData{
		Title:      party.Name,
		Categories: s.lists.Categories,
		Party:      party,
		Statements: entries,
	})
}

// handleResultCreate stores a submitted quiz result and redirects to its page.
// Inputs that cannot be rendered are rejected before they are stored.
func (s *Server) handleResultCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResultBody)

	var in quiz.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid result document")
		return
	}
	if _, err := s.presenter.BuildView(in, quiz.OpenState{}); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.SaveResult(r.Context(), in)
	if err != nil {
		log.Printf("web: save result err=%v", err)
		writeError(w, http.StatusInternalServerError, "could not store result")
		return
	}
	log.Printf("web: stored result id=%s parties=%d candidates=%d", id, len(in.Parties), len(in.Candidates))
	http.Redirect(w, r, resultPath(id, quiz.OpenState{}), http.StatusSeeOther)
}

// handleResultView renders a stored result with the panels named in ?open= expanded.
func (s *Server) handleResultView(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadResult(w, r, s.handleNotFound)
	if !ok {
		return
	}

	open := quiz.ParseOpenState(r.URL.Query().Get("open"))
	view, err := s.presenter.BuildView(rec.Input, open)
	if err != nil {
		log.Printf("web: build view id=%s err=%v", rec.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([]ResultRow, len(view.Parties))
	for i, row := range view.Parties {
		rows[i] = ResultRow{
			PartyRow:   row,
			ToggleHref: resultPath(rec.ID, open.Toggle(row.Party.Letter)) + "#flokkur-" + row.Party.Letter,
		}
	}

	s.render(w, http.StatusOK, "results.html", PageData{
		Title:      "Niðurstöður",
		Categories: s.lists.Categories,
		ResultID:   rec.ID,
		PartyRows:  rows,
		Candidates: view.Candidates,
	})
}

// handleResultJSON serves the stored snapshot at /prof-nidurstodur/{id}.json.
func (s *Server) handleResultJSON(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadResult(w, r, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "result not found")
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.Input)
}

func (s *Server) loadResult(w http.ResponseWriter, r *http.Request, notFound http.HandlerFunc) (*store.ResultRecord, bool) {
	rec, err := s.store.Result(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(w, r)
		return nil, false
	}
	if err != nil {
		log.Printf("web: load result err=%v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return rec, true
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.RenderTo(w, name, data); err != nil {
		log.Printf("web: render template=%s err=%v", name, err)
	}
}

// resultPath is the results page URL with the given panels open.
func resultPath(id string, open quiz.OpenState) string {
	p := "/prof-nidurstodur/" + url.PathEscape(id)
	if enc := open.Encode(); enc != "" {
		p += "?open=" + url.QueryEscape(enc)
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ABOUTME: Tests for the election-site HTTP server and chi router.
// ABOUTME: Covers health, statement pages, result submission, panel toggling, and static data serving.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/kjosturett/kjosturett/quiz"
	"github.com/kjosturett/kjosturett/site"
	"github.com/kjosturett/kjosturett/store"
)

func newTestServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv, err := NewServer(ServerConfig{
		Lists:   site.DefaultLists(),
		Store:   db,
		Assets:  quiz.CDNAssets{BaseURL: "https://cdn.example"},
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, db
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func testResult() quiz.Input {
	in := quiz.Input{
		Questions: []site.Question{
			{ID: "1", Question: "Lækka á skatta á fyrirtæki.", MyAnswer: 2},
			{ID: "2", Question: "Ísland á að ganga í Evrópusambandið.", MyAnswer: 4},
		},
		Answers: site.Answers{TextMap: site.AnswerLabels{
			1: "Mjög sammála", 2: "Sammála", 3: "Hlutlaus", 4: "Ósammála", 5: "Mjög ósammála", 6: "Hlutlaus",
		}},
		Parties: []site.Party{
			{Letter: "P", URL: "piratar", Name: "Píratar", Score: 82.4, Color: "#444", Reply: map[string]int{"1": 3, "2": 4}},
			{Letter: "D", URL: "sjalfstaedisflokkurinn", Name: "Sjálfstæðisflokkurinn", Score: 41, Reply: map[string]int{"1": 1, "2": 5}},
			{Letter: "A", URL: "bjort-framtid", Name: "Björt Framtíð"},
		},
	}
	for i := 0; i < 20; i++ {
		in.Candidates = append(in.Candidates, site.Candidate{
			Slug:  fmt.Sprintf("frambjodandi-%d", i),
			Name:  fmt.Sprintf("Frambjóðandi %d", i),
			Party: "P",
			Score: float64(90 - i),
		})
	}
	return in
}

func postResult(t *testing.T, srv *Server, in quiz.Input) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/prof-nidurstodur", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServerHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status %q, got %q", "ok", body["status"])
	}
}

func TestServerHome(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Kjóstu rétt", `href="/malefni/skattamal"`, `href="/flokkar/piratar"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestServerCategoryPage(t *testing.T) {
	srv, db := newTestServer(t)
	ctx := context.Background()
	if err := db.UpsertStatement(ctx, "piratar", "skattamal", "<p>Sanngjarnt skattkerfi.</p>\n", true); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertStatement(ctx, "vidreisn", "skattamal", "", false); err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv, "/malefni/skattamal")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>Sanngjarnt skattkerfi.</p>") {
		t.Error("expected statement HTML to be rendered unescaped")
	}
	if !strings.Contains(body, "Engin stefnulýsing.") {
		t.Error("expected placeholder for missing statements")
	}
	if strings.Index(body, "Björt Framtíð") > strings.Index(body, "Píratar") {
		t.Error("expected parties in list order")
	}
}

func TestServerPartyPage(t *testing.T) {
	srv, db := newTestServer(t)
	if err := db.UpsertStatement(context.Background(), "piratar", "menntamal", "<p>Frítt nám.</p>", true); err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv, "/flokkar/piratar")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>Frítt nám.</p>") || !strings.Contains(body, "Menntamál") {
		t.Errorf("expected party statement, got %s", body)
	}
}

func TestServerUnknownPagesReturn404(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{
		"/malefni/geimferdir",
		"/flokkar/enginn",
		"/prof-nidurstodur/01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"/prof-nidurstodur/ekki-til",
		"/prof-nidurstodur/ekki-til.json",
		"/nowhere",
	} {
		if rec := get(t, srv, target); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", target, rec.Code)
		}
	}
}

func TestServerResultFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postResult(t, srv, testResult())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/prof-nidurstodur/") {
		t.Fatalf("expected Location under /prof-nidurstodur/, got %q", loc)
	}
	id := strings.TrimPrefix(loc, "/prof-nidurstodur/")

	page := get(t, srv, loc)
	if page.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", page.Code)
	}
	body := page.Body.String()

	if !strings.Contains(body, "Píratar") || !strings.Contains(body, "83%") {
		t.Error("expected top party with ceiling percentage")
	}
	if strings.Contains(body, "Björt Framtíð") {
		t.Error("expected zero-score party to be left out")
	}
	if strings.Contains(body, "Lækka á skatta") {
		t.Error("expected panels to start closed")
	}
	if want := `href="/prof-nidurstodur/` + id + `?open=P#flokkur-P"`; !strings.Contains(body, want) {
		t.Errorf("expected toggle link %s", want)
	}
	if n := strings.Count(body, `class="candidate-name"`); n != 12 {
		t.Errorf("expected 12 candidates, got %d", n)
	}
	if !strings.Contains(body, "Frambjóðandi 11<") || strings.Contains(body, "Frambjóðandi 12<") {
		t.Error("expected the first 12 candidates in input order")
	}

	open := get(t, srv, loc+"?open=P").Body.String()
	if !strings.Contains(open, "Lækka á skatta á fyrirtæki.") {
		t.Error("expected P panel to be open")
	}
	if !strings.Contains(open, "<strong>hlutlausir</strong>") {
		t.Error("expected plural neutral wording for Píratar")
	}
	if strings.Index(open, "Ísland á að ganga") > strings.Index(open, "Lækka á skatta") {
		t.Error("expected the shared opinion to be listed first")
	}
	if want := `href="/prof-nidurstodur/` + id + `#flokkur-P"`; !strings.Contains(open, want) {
		t.Errorf("expected toggle link closing P: %s", want)
	}

	api := get(t, srv, "/prof-nidurstodur/"+id+".json")
	if api.Code != http.StatusOK {
		t.Fatalf("expected status 200 for the snapshot, got %d", api.Code)
	}
	if ct := api.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON snapshot, got content type %q", ct)
	}
	var stored quiz.Input
	if err := json.NewDecoder(api.Body).Decode(&stored); err != nil {
		t.Fatalf("decode stored result: %v", err)
	}
	if len(stored.Candidates) != 20 || stored.Parties[0].Letter != "P" {
		t.Errorf("unexpected stored result %+v", stored.Parties)
	}
}

func TestServerResultCreateRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/prof-nidurstodur", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}

	in := testResult()
	in.Answers.TextMap = site.AnswerLabels{}
	if rec := postResult(t, srv, in); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing answer labels, got %d", rec.Code)
	}
}

func TestServerServesBuiltData(t *testing.T) {
	srv, _ := newTestServer(t)
	if err := os.WriteFile(filepath.Join(srv.dataDir, "skattamal.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv, "/data/skattamal.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Errorf("expected file contents, got %q", rec.Body.String())
	}

	css := get(t, srv, "/static/css/site.css")
	if css.Code != http.StatusOK {
		t.Errorf("expected stylesheet, got %d", css.Code)
	}
}

func TestNewServerRequiresStore(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Error("expected error without a store")
	}
}

func TestResultPath(t *testing.T) {
	if got := resultPath("ID", quiz.OpenState{}); got != "/prof-nidurstodur/ID" {
		t.Errorf("unexpected path %q", got)
	}
	if got := resultPath("ID", quiz.ParseOpenState("D,A")); got != "/prof-nidurstodur/ID?open=A%2CD" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestServerResultSnapshotUnknownIDIsJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/prof-nidurstodur/01ARZ3NDEKTSV4RRFFQ69G5FAV.json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got content type %q", ct)
	}
}

func TestServerAccessLog(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postResult(t, srv, testResult())
	id := strings.TrimPrefix(rec.Header().Get("Location"), "/prof-nidurstodur/")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	req := httptest.NewRequest(http.MethodGet, "/prof-nidurstodur/"+id+".json", nil)
	req.Header.Set(middleware.RequestIDHeader, "kosning-42")
	srv.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{
		"web: GET /prof-nidurstodur/" + id + ".json",
		"status=200",
		"req=kosning-42",
		"result=" + id,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in access log, got %q", want, line)
		}
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/server/endpoints"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("server:\n  port: \"0\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}

	s, err := New(Config{ConfigManager: mgr})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

// do sends a request through the full handler chain and decodes the
// JSON response into out (when out is non-nil).
func do(t *testing.T, s *Server, method, path string, body any, wantStatus int, out any) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d (body: %s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	var resp endpoints.HealthResponse
	do(t, s, http.MethodGet, "/health", nil, http.StatusOK, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t)

	var doc docstore.Document
	do(t, s, http.MethodPost, "/api/documents",
		endpoints.CreateDocumentRequest{Title: "Motion Record"}, http.StatusCreated, &doc)
	if doc.ID == "" {
		t.Fatal("expected a document ID")
	}

	var got docstore.Document
	do(t, s, http.MethodGet, "/api/documents/"+doc.ID, nil, http.StatusOK, &got)
	if got.Title != "Motion Record" {
		t.Errorf("title = %q", got.Title)
	}

	var docs []docstore.Document
	do(t, s, http.MethodGet, "/api/documents", nil, http.StatusOK, &docs)
	if len(docs) != 1 {
		t.Errorf("list = %d docs, want 1", len(docs))
	}

	do(t, s, http.MethodDelete, "/api/documents/"+doc.ID, nil, http.StatusNoContent, nil)
	do(t, s, http.MethodGet, "/api/documents/"+doc.ID, nil, http.StatusNotFound, nil)
}

func TestCreateDocument_Validation(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/documents",
		endpoints.CreateDocumentRequest{Title: "   "}, http.StatusBadRequest, nil)
}

// indexPage builds a plausible motion-record index page.
func indexPage() string {
	return "INDEX\n\n" +
		"TAB 1\tAffidavit of Rino Ferrante sworn February 18, 2022 .......... 15\n" +
		"TAB 2\tNotice of Motion dated January 15, 2022 .......... 42\n" +
		"TAB 3\tExhibit A - Purchase Agreement dated March 1, 2021 .......... 58\n"
}

func uploadTestPages(t *testing.T, s *Server, docID string, pages []corpus.PageText) {
	t.Helper()
	do(t, s, http.MethodPut, "/api/documents/"+docID+"/pages",
		endpoints.UploadPagesRequest{Pages: pages}, http.StatusOK, nil)
}

func TestUploadAndDetectIndex(t *testing.T) {
	s := newTestServer(t)

	var doc docstore.Document
	do(t, s, http.MethodPost, "/api/documents",
		endpoints.CreateDocumentRequest{Title: "Record"}, http.StatusCreated, &doc)

	// No pages yet: engine operations refuse.
	do(t, s, http.MethodGet, "/api/documents/"+doc.ID+"/index", nil, http.StatusConflict, nil)

	pages := []corpus.PageText{
		{PageNumber: 1, RawText: indexPage()},
		{PageNumber: 2, RawText: "The deponent describes the events of the transaction at length."},
	}
	uploadTestPages(t, s, doc.ID, pages)

	var scan indexdetect.ScanResult
	do(t, s, http.MethodGet, "/api/documents/"+doc.ID+"/index", nil, http.StatusOK, &scan)
	if len(scan.IndexPages) == 0 || scan.IndexPages[0] != 1 {
		t.Fatalf("expected page 1 as index page, got %v", scan.IndexPages)
	}
	if len(scan.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(scan.Entries))
	}

	t.Run("expected tabs", func(t *testing.T) {
		var scan indexdetect.ScanResult
		do(t, s, http.MethodGet, "/api/documents/"+doc.ID+"/index?expected_tabs=5", nil, http.StatusOK, &scan)
		if scan.Complete {
			t.Error("3 found vs 5 expected should not be complete")
		}
	})

	t.Run("bad expected_tabs", func(t *testing.T) {
		do(t, s, http.MethodGet, "/api/documents/"+doc.ID+"/index?expected_tabs=x", nil, http.StatusBadRequest, nil)
	})
}

func TestMatchAndBatch(t *testing.T) {
	s := newTestServer(t)

	var doc docstore.Document
	do(t, s, http.MethodPost, "/api/documents",
		endpoints.CreateDocumentRequest{Title: "Record"}, http.StatusCreated, &doc)

	pages := make([]corpus.PageText, 0, 60)
	for n := 1; n <= 60; n++ {
		text := fmt.Sprintf("Routine body text about the proceedings on sheet %d.", n)
		if n == 15 {
			text = "AFFIDAVIT OF RINO FERRANTE\n\nAffidavit of Rino Ferrante sworn February 18, 2022"
		}
		pages = append(pages, corpus.PageText{PageNumber: n, RawText: text})
	}
	uploadTestPages(t, s, doc.ID, pages)

	t.Run("single match", func(t *testing.T) {
		var resp endpoints.MatchResponse
		do(t, s, http.MethodPost, "/api/documents/"+doc.ID+"/match",
			endpoints.MatchRequest{Text: "Affidavit of Rino Ferrante sworn February 18, 2022"},
			http.StatusOK, &resp)
		if !resp.Result.Matched() || *resp.Result.Page != 15 {
			t.Fatalf("expected page 15, got %+v", resp.Result)
		}
	})

	t.Run("empty entry rejected", func(t *testing.T) {
		do(t, s, http.MethodPost, "/api/documents/"+doc.ID+"/match",
			endpoints.MatchRequest{Text: " "}, http.StatusBadRequest, nil)
	})

	t.Run("batch", func(t *testing.T) {
		var result match.BatchResult
		do(t, s, http.MethodPost, "/api/documents/"+doc.ID+"/batch",
			endpoints.BatchRequest{Entries: []match.Entry{
				{Text: "Affidavit of Rino Ferrante sworn February 18, 2022"},
				{Text: "zq wv completely absent phrase"},
			}}, http.StatusOK, &result)
		if len(result.Results) != 2 {
			t.Fatalf("results = %d, want 2", len(result.Results))
		}
		if !result.Results[0].Matched() || *result.Results[0].Page != 15 {
			t.Errorf("entry 0: expected page 15, got %+v", result.Results[0])
		}
		if result.Results[1].Matched() {
			t.Errorf("entry 1: expected no match, got %+v", result.Results[1])
		}
		if result.Stats.Total() != 2 {
			t.Errorf("stats total = %d", result.Stats.Total())
		}
	})

	t.Run("batch requires entries", func(t *testing.T) {
		do(t, s, http.MethodPost, "/api/documents/"+doc.ID+"/batch",
			endpoints.BatchRequest{}, http.StatusBadRequest, nil)
	})
}

func TestResolve_OfflineResolver(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	s := newTestServer(t)

	var doc docstore.Document
	do(t, s, http.MethodPost, "/api/documents",
		endpoints.CreateDocumentRequest{Title: "Record"}, http.StatusCreated, &doc)
	uploadTestPages(t, s, doc.ID, []corpus.PageText{
		{PageNumber: 1, RawText: "Affidavit of Rino Ferrante sworn February 18, 2022"},
	})

	// No OPENAI_API_KEY in the test environment: decisions degrade to
	// needs_review instead of erroring.
	var resp endpoints.ResolveResponse
	do(t, s, http.MethodPost, "/api/documents/"+doc.ID+"/resolve",
		endpoints.ResolveRequest{Text: "Affidavit of Rino Ferrante sworn February 18, 2022"},
		http.StatusOK, &resp)
	if resp.Decision == nil {
		t.Fatal("expected a decision")
	}
	if resp.Decision.Picked() {
		t.Errorf("offline resolver must not pick, got %+v", resp.Decision)
	}
}

func TestUnknownDocumentRoutes(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodGet, "/api/documents/missing/index", nil, http.StatusNotFound, nil)
	do(t, s, http.MethodPost, "/api/documents/missing/match",
		endpoints.MatchRequest{Text: "anything"}, http.StatusNotFound, nil)
	do(t, s, http.MethodPost, "/api/documents/missing/batch",
		endpoints.BatchRequest{Entries: []match.Entry{{Text: "anything"}}}, http.StatusNotFound, nil)
}

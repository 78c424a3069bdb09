package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/procureml/poclass/internal/classify"
	"github.com/procureml/poclass/internal/llm"
	"github.com/procureml/poclass/internal/taxonomy"
)

// scriptedProvider returns canned replies in order.
type scriptedProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	reply := ""
	if len(p.replies) > 0 {
		reply = p.replies[len(p.replies)-1]
		if i < len(p.replies) {
			reply = p.replies[i]
		}
	}
	return &llm.CompletionResponse{Content: reply}, nil
}

func newTestServer(p llm.Provider) *Server {
	cls := classify.NewClassifier(p, "test-model", taxonomy.Load(), classify.NewSession(0), classify.Options{})
	return New(Config{Port: 0}, cls)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&scriptedProvider{})
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["status"]; got != "ok" {
		t.Errorf("status field = %v", got)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	p := &scriptedProvider{replies: []string{
		`{"L1":"IT","L2":"Hardware","L3":"Laptop","confidence":0.92,"match_quality":"exact"}`,
	}}
	s := newTestServer(p)

	rec := doJSON(t, s, http.MethodPost, "/api/classify", map[string]string{
		"description": "Laptops for the new engineering hires",
		"supplier":    "Dell",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["l1"] != "IT" || body["l2"] != "Hardware" || body["l3"] != "Laptop" {
		t.Errorf("levels = %v/%v/%v", body["l1"], body["l2"], body["l3"])
	}
	if body["source"] != "live" {
		t.Errorf("source = %v, want live", body["source"])
	}
	if body["history_id"] == "" || body["history_id"] == nil {
		t.Error("missing history_id")
	}
	if len(s.Session().History()) != 1 {
		t.Errorf("history length = %d, want 1", len(s.Session().History()))
	}
}

func TestClassifyValidation(t *testing.T) {
	s := newTestServer(&scriptedProvider{})

	cases := []struct {
		name string
		body map[string]string
	}{
		{"empty description", map[string]string{"description": ""}},
		{"short description", map[string]string{"description": "too short"}},
		{"long supplier", map[string]string{
			"description": "Laptops for the new engineering hires",
			"supplier":    strings.Repeat("x", 81),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/classify", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestClassifyInvalidModelResponse(t *testing.T) {
	p := &scriptedProvider{replies: []string{"not json", "still not json"}}
	s := newTestServer(p)

	rec := doJSON(t, s, http.MethodPost, "/api/classify", map[string]string{
		"description": "Laptops for the new engineering hires",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["raw"] != "still not json" {
		t.Errorf("raw = %v, want the final reply text", body["raw"])
	}
	if p.calls != 2 {
		t.Errorf("provider calls = %d, want 2", p.calls)
	}
}

func TestClassifyTransportError(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("connection reset")}}
	s := newTestServer(p)

	rec := doJSON(t, s, http.MethodPost, "/api/classify", map[string]string{
		"description": "Laptops for the new engineering hires",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, transport errors should not retry here", p.calls)
	}
}

func TestTaxonomyEndpoint(t *testing.T) {
	s := newTestServer(&scriptedProvider{})

	rec := doJSON(t, s, http.MethodGet, "/api/taxonomy", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	rows, ok := body["rows"].([]any)
	if !ok || len(rows) == 0 {
		t.Fatalf("rows = %v", body["rows"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/taxonomy?q=laptop", nil)
	body = decodeBody(t, rec)
	filtered, _ := body["rows"].([]any)
	if len(filtered) == 0 || len(filtered) >= len(rows) {
		t.Errorf("filtered rows = %d of %d", len(filtered), len(rows))
	}
}

func TestHistoryEndpoints(t *testing.T) {
	p := &scriptedProvider{replies: []string{
		`{"L1":"IT","L2":"Hardware","L3":"Laptop","confidence":0.9,"match_quality":"exact"}`,
	}}
	s := newTestServer(p)

	doJSON(t, s, http.MethodPost, "/api/classify", map[string]string{
		"description": "Laptops for the new engineering hires",
		"supplier":    "Dell",
	})

	rec := doJSON(t, s, http.MethodGet, "/api/history", nil)
	body := decodeBody(t, rec)
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("history items = %d, want 1", len(items))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/history/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Laptops for the new engineering hires,Dell,IT,Hardware,Laptop") {
		t.Errorf("csv body = %q", rec.Body.String())
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	s := newTestServer(&scriptedProvider{})

	payload := map[string]any{
		"description": "Laptops for the new engineering hires",
		"supplier":    "Dell",
		"pred_l1":     "IT", "pred_l2": "Software", "pred_l3": "Subscription",
		"correct_l1": "IT", "correct_l2": "Hardware", "correct_l3": "Laptop",
	}
	rec := doJSON(t, s, http.MethodPost, "/api/feedback", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(s.Session().Feedback()) != 1 {
		t.Errorf("feedback items = %d, want 1", len(s.Session().Feedback()))
	}

	payload["correct_l3"] = "Mainframe"
	rec = doJSON(t, s, http.MethodPost, "/api/feedback", payload)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for non-taxonomy correction = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/feedback/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "IT,Hardware,Laptop") {
		t.Errorf("csv body = %q", rec.Body.String())
	}
}

func uploadCSV(t *testing.T, s *Server, path, csvBody string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "input.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestBulkEndpoint(t *testing.T) {
	p := &scriptedProvider{replies: []string{
		`{"L1":"IT","L2":"Hardware","L3":"Laptop","confidence":0.9,"match_quality":"exact"}`,
	}}
	s := newTestServer(p)

	rec := uploadCSV(t, s, "/api/bulk", "description,supplier\nLaptops for engineering,Dell\n,\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want header plus 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], ",ok,") {
		t.Errorf("row 1 = %q, want ok status", lines[1])
	}
	if !strings.Contains(lines[2], "missing description") {
		t.Errorf("row 2 = %q, want missing description status", lines[2])
	}
}

func TestBulkMissingUpload(t *testing.T) {
	s := newTestServer(&scriptedProvider{})
	rec := doJSON(t, s, http.MethodPost, "/api/bulk", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEvaluateEndpointJSON(t *testing.T) {
	match := `{"L1":"IT","L2":"Hardware","L3":"Laptop"}`
	mismatch := `{"L1":"Utilities","L2":"Power","L3":null}`
	p := &scriptedProvider{replies: []string{match, mismatch}}
	s := newTestServer(p)

	csvBody := "description,supplier,l1,l2,l3\n" +
		"Laptops batch one,,IT,Hardware,Laptop\n" +
		"Laptops batch two,,IT,Hardware,Laptop\n"
	rec := uploadCSV(t, s, "/api/evaluate?format=json", csvBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["accuracy"] != 50.0 {
		t.Errorf("accuracy = %v, want 50", body["accuracy"])
	}
	if body["correct"] != 1.0 || body["total"] != 2.0 {
		t.Errorf("correct/total = %v/%v", body["correct"], body["total"])
	}
}

func TestEvaluateEndpointCSV(t *testing.T) {
	p := &scriptedProvider{replies: []string{`{"L1":"IT","L2":"Hardware","L3":"Laptop"}`}}
	s := newTestServer(p)

	rec := uploadCSV(t, s, "/api/evaluate", "description,l1,l2,l3\nLaptops batch one,IT,Hardware,Laptop\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Accuracy"); got != "100.0" {
		t.Errorf("X-Accuracy = %q", got)
	}
	if !strings.Contains(rec.Body.String(), ",yes") {
		t.Errorf("csv body = %q", rec.Body.String())
	}
}

func TestCORSAllowAll(t *testing.T) {
	cls := classify.NewClassifier(&scriptedProvider{}, "test-model", taxonomy.Load(), classify.NewSession(0), classify.Options{})
	s := New(Config{Port: 0, AllowAll: true}, cls)

	req := httptest.NewRequest(http.MethodOptions, "/api/classify", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight response is missing Access-Control-Allow-Origin")
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/procureml/poclass/internal/batch"
	"github.com/procureml/poclass/internal/classify"
	"github.com/procureml/poclass/internal/progress"
)

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Get("/taxonomy", s.handleTaxonomy)
		r.Get("/history", s.handleHistory)
		r.Get("/history/csv", s.handleHistoryCSV)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/feedback/csv", s.handleFeedbackCSV)
		r.Post("/bulk", s.handleBulk)
		r.Post("/evaluate", s.handleEvaluate)
	})
}

type classifyRequest struct {
	Description string `json:"description"`
	Supplier    string `json:"supplier"`
}

type classifyResponse struct {
	L1 string `json:"l1"`
	L2 string `json:"l2"`
	L3 string `json:"l3"`
	*classify.Result
	HistoryID string `json:"history_id"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cr, err := classify.NewRequest(req.Description, req.Supplier)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.classifier.ClassifyAndValidate(r.Context(), cr.Description, cr.Supplier)
	if err != nil {
		var invalid *classify.InvalidResponseError
		if errors.As(err, &invalid) {
			// Surface the raw text so the caller can diagnose the reply.
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": invalid.Error(),
				"raw":   invalid.Raw,
			})
			return
		}
		writeError(w, http.StatusBadGateway, fmt.Sprintf("classification failed: %v", err))
		return
	}

	item := s.Session().RecordResult(cr.Description, cr.Supplier, res)

	l1, l2, l3 := res.Classification.Levels()
	writeJSON(w, http.StatusOK, classifyResponse{
		L1:        l1,
		L2:        l2,
		L3:        l3,
		Result:    res,
		HistoryID: item.ID,
	})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	rows := s.table.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.Session().History()})
}

func (s *Server) handleHistoryCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Session().WriteHistoryCSV(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCSV(w, "po_classification_history.csv", buf.Bytes())
}

type feedbackRequest struct {
	Description  string   `json:"description"`
	Supplier     string   `json:"supplier"`
	PredL1       string   `json:"pred_l1"`
	PredL2       string   `json:"pred_l2"`
	PredL3       string   `json:"pred_l3"`
	CorrectL1    string   `json:"correct_l1"`
	CorrectL2    string   `json:"correct_l2"`
	CorrectL3    string   `json:"correct_l3"`
	MatchQuality string   `json:"match_quality"`
	Confidence   *float64 `json:"confidence"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if !s.table.Contains(req.CorrectL1, req.CorrectL2, req.CorrectL3) {
		writeError(w, http.StatusBadRequest, "corrected labels are not a taxonomy entry")
		return
	}

	item := s.Session().AddFeedback(classify.FeedbackItem{
		Description:  req.Description,
		Supplier:     req.Supplier,
		PredL1:       req.PredL1,
		PredL2:       req.PredL2,
		PredL3:       req.PredL3,
		CorrectL1:    req.CorrectL1,
		CorrectL2:    req.CorrectL2,
		CorrectL3:    req.CorrectL3,
		MatchQuality: req.MatchQuality,
		Confidence:   req.Confidence,
	})
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleFeedbackCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Session().WriteFeedbackCSV(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCSV(w, "po_classification_feedback.csv", buf.Bytes())
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	rows, ok := readUploadedRows(w, r)
	if !ok {
		return
	}

	results := batch.RunBulk(r.Context(), s.classifier, rows, progress.NopReporter{})

	var buf bytes.Buffer
	if err := batch.WriteBulkCSV(&buf, results); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCSV(w, "po_classification_results.csv", buf.Bytes())
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	rows, ok := readUploadedRows(w, r)
	if !ok {
		return
	}

	report := batch.RunEval(r.Context(), s.classifier, rows, progress.NopReporter{})

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, map[string]any{
			"accuracy": report.Accuracy(),
			"correct":  report.Correct,
			"total":    report.Total,
			"rows":     report.Rows,
		})
		return
	}

	var buf bytes.Buffer
	if err := batch.WriteEvalCSV(&buf, report); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("X-Accuracy", fmt.Sprintf("%.1f", report.Accuracy()))
	writeCSV(w, "po_classification_evaluation.csv", buf.Bytes())
}

// readUploadedRows parses the multipart "file" field as a header-keyed CSV.
// It writes the error response itself and returns ok=false on failure.
func readUploadedRows(w http.ResponseWriter, r *http.Request) ([]batch.InputRow, bool) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing CSV file upload")
		return nil, false
	}
	defer file.Close()

	rows, err := batch.ReadRows(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return rows, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

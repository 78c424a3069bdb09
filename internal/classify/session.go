package classify

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit bounds the session history to the most recent entries.
const DefaultHistoryLimit = 10

// HistoryItem is one past classification kept for the session.
type HistoryItem struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	Supplier     string         `json:"supplier"`
	L1           string         `json:"l1"`
	L2           string         `json:"l2"`
	L3           string         `json:"l3"`
	MatchQuality string         `json:"match_quality"`
	Confidence   *float64       `json:"confidence"`
	Raw          Classification `json:"raw"`
	CreatedAt    time.Time      `json:"created_at"`
}

// FeedbackItem records a human correction for a prediction.
type FeedbackItem struct {
	ID           string   `json:"id"`
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
	CreatedAt    time.Time `json:"created_at"`
}

// Session holds the per-session classification state: the memoization cache,
// the bounded history, and collected feedback. One Session is created per
// process run (CLI) or per server instance, and never persisted.
//
// CLI usage is single-threaded, but the HTTP server handles requests
// concurrently, so all access goes through the mutex.
type Session struct {
	mu           sync.Mutex
	cache        map[string]Classification
	history      []HistoryItem
	feedback     []FeedbackItem
	historyLimit int
}

// NewSession creates an empty session. historyLimit <= 0 uses
// DefaultHistoryLimit.
func NewSession(historyLimit int) *Session {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Session{
		cache:        make(map[string]Classification),
		historyLimit: historyLimit,
	}
}

func (s *Session) cached(key string) (Classification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[key]
	return c, ok
}

func (s *Session) putCache(key string, c Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = c
}

// RecordResult builds a HistoryItem from a successful result and prepends it
// to the history, trimming to the limit.
func (s *Session) RecordResult(description, supplier string, res *Result) HistoryItem {
	l1, l2, l3 := res.Classification.Levels()
	quality, _ := res.Classification.Level("match_quality")
	item := HistoryItem{
		ID:           uuid.NewString(),
		Description:  description,
		Supplier:     supplier,
		L1:           l1,
		L2:           l2,
		L3:           l3,
		MatchQuality: quality,
		Confidence:   res.Confidence,
		Raw:          res.Classification,
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]HistoryItem{item}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
	return item
}

// History returns a copy of the session history, most recent first.
func (s *Session) History() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

// AddFeedback appends a feedback item, assigning it an ID and timestamp.
func (s *Session) AddFeedback(item FeedbackItem) FeedbackItem {
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, item)
	return item
}

// Feedback returns a copy of the collected feedback, oldest first.
func (s *Session) Feedback() []FeedbackItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FeedbackItem, len(s.feedback))
	copy(out, s.feedback)
	return out
}

// WriteHistoryCSV exports the session history in the download column order.
func (s *Session) WriteHistoryCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"description", "supplier", "l1", "l2", "l3", "match_quality", "confidence"}); err != nil {
		return fmt.Errorf("writing history header: %w", err)
	}
	for _, item := range s.History() {
		rec := []string{
			item.Description,
			item.Supplier,
			item.L1,
			item.L2,
			item.L3,
			item.MatchQuality,
			formatConfidence(item.Confidence),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing history row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFeedbackCSV exports collected feedback.
func (s *Session) WriteFeedbackCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		"description", "supplier",
		"pred_l1", "pred_l2", "pred_l3",
		"correct_l1", "correct_l2", "correct_l3",
		"match_quality", "confidence",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing feedback header: %w", err)
	}
	for _, item := range s.Feedback() {
		rec := []string{
			item.Description,
			item.Supplier,
			item.PredL1,
			item.PredL2,
			item.PredL3,
			item.CorrectL1,
			item.CorrectL2,
			item.CorrectL3,
			item.MatchQuality,
			formatConfidence(item.Confidence),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing feedback row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatConfidence(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

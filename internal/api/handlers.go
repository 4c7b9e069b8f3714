package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pbaille/moodlog/internal/aggregate"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/export"
	"github.com/pbaille/moodlog/internal/journal"
	"github.com/pbaille/moodlog/internal/mood"
	"github.com/pbaille/moodlog/internal/store"
)

const maxWindowDays = 365

// TextRequest is the request body for analyze, create and update.
type TextRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse is a classification result with an optional self-care hint.
// Confidence is the raw winning score; DisplayConfidence is rounded to 2
// decimals like AllScores.
type AnalyzeResponse struct {
	journal.Analysis
	DisplayConfidence float64 `json:"displayConfidence"`
	Suggestion        string  `json:"suggestion,omitempty"`
}

// CreateResponse is returned by POST /entries.
type CreateResponse struct {
	Entry    *domain.Entry   `json:"entry"`
	Analysis AnalyzeResponse `json:"analysis"`
}

func analyzeResponse(a journal.Analysis) AnalyzeResponse {
	return AnalyzeResponse{
		Analysis:          a,
		DisplayConfidence: a.DisplayConfidence(),
		Suggestion:        mood.Suggestion(a.Mood),
	}
}

// TrendPoint is a daily point with its display band.
type TrendPoint struct {
	aggregate.DailyPoint
	Band string `json:"band"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a := s.svc.Analyze(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, analyzeResponse(a))
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.svc.Create(r.Context(), userFrom(r), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateResponse{Entry: created.Entry, Analysis: analyzeResponse(created.Analysis)})
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	f, err := s.parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.svc.List(r.Context(), userFrom(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"limit":   f.Limit,
		"offset":  f.Offset,
	})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.svc.Get(r.Context(), userFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.svc.Update(r.Context(), userFrom(r), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), userFrom(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dayEntries(w http.ResponseWriter, r *http.Request) {
	day, err := aggregate.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	entries, err := s.svc.EntriesOn(r.Context(), userFrom(r), day)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    day,
		"entries": entries,
	})
}

func (s *Server) trend(w http.ResponseWriter, r *http.Request) {
	days, err := s.windowDays(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := s.svc.Trend(r.Context(), userFrom(r), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": withBands(points)})
}

func (s *Server) distribution(w http.ResponseWriter, r *http.Request) {
	f, err := s.parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	counts, err := s.svc.Distribution(r.Context(), userFrom(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"distribution": counts})
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	days, err := s.svc.Calendar(r.Context(), userFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Statistics(r.Context(), userFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	days, err := s.windowDays(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.svc.Dashboard(r.Context(), userFrom(r), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trend":        withBands(d.Trend),
		"distribution": d.Distribution,
		"calendar":     d.Calendar,
		"statistics":   d.Statistics,
	})
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := s.parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.svc.List(r.Context(), userFrom(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(s.svc.Now())))
	if err := export.WriteCSV(w, entries, s.svc.Location()); err != nil {
		s.log.Error().Err(err).Msg("write csv")
	}
}

// parseFilter reads the entry filters shared by list, distribution and
// export. from and to are inclusive calendar days; sort and order pick the
// listing order.
func (s *Server) parseFilter(q url.Values) (domain.EntryFilter, error) {
	var f domain.EntryFilter
	loc := s.svc.Location()

	if v := q.Get("from"); v != "" {
		d, err := aggregate.ParseDay(v)
		if err != nil {
			return f, errors.New("from must be YYYY-MM-DD")
		}
		f.From = d.Start(loc)
	}
	if v := q.Get("to"); v != "" {
		d, err := aggregate.ParseDay(v)
		if err != nil {
			return f, errors.New("to must be YYYY-MM-DD")
		}
		f.To = d.Start(loc).AddDate(0, 0, 1)
	}

	if v := q.Get("mood"); v != "" {
		m := mood.Normalize(v)
		if m == mood.Unknown && !strings.EqualFold(strings.TrimSpace(v), string(mood.Unknown)) {
			return f, fmt.Errorf("unknown mood %q", v)
		}
		f.Mood = m
	}

	f.Query = strings.TrimSpace(q.Get("q"))

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errors.New("offset must be a non-negative integer")
		}
		f.Offset = n
	}

	sort, err := domain.ParseSortField(q.Get("sort"))
	if err != nil {
		return f, err
	}
	f.Sort = sort

	switch q.Get("order") {
	case "", "asc":
	case "desc":
		f.Newest = true
	default:
		return f, errors.New("order must be asc or desc")
	}

	return f, nil
}

func (s *Server) windowDays(q url.Values) (int, error) {
	v := q.Get("days")
	if v == "" {
		return s.opts.WindowDays, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxWindowDays {
		return 0, fmt.Errorf("days must be between 1 and %d", maxWindowDays)
	}
	return n, nil
}

func withBands(points []aggregate.DailyPoint) []TrendPoint {
	out := make([]TrendPoint, len(points))
	for i, p := range points {
		out[i] = TrendPoint{DailyPoint: p, Band: mood.Band(p.AverageValence)}
	}
	return out
}

// fail maps service errors to responses. Unexpected errors are logged and
// hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, journal.ErrEmptyText):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
	default:
		s.log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("user_id", userFrom(r)).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

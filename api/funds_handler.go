package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xeonx/timeago"

	"github.com/seenimoa/fundlens/internal/calculator"
	"github.com/seenimoa/fundlens/internal/dataset"
	"github.com/seenimoa/fundlens/internal/datasource"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/screener"
	"github.com/seenimoa/fundlens/internal/synthetic"
	"github.com/seenimoa/fundlens/pkg/models"
	"github.com/seenimoa/fundlens/pkg/utils"
)

// NAV history bounds, in days.
const (
	defaultNAVDays = 365
	maxNAVDays     = 3650
)

// ============================================================
// Response types
// ============================================================

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string    `json:"status"`
	Funds    int       `json:"funds"`
	Source   string    `json:"source"`
	Loaded   string    `json:"loaded"`
	LoadedAt time.Time `json:"loaded_at"`
	TimeIST  string    `json:"time_ist"`
}

// CompareResponse is returned by GET /api/compare.
type CompareResponse struct {
	Funds      []models.Fund     `json:"funds"`
	Missing    []string          `json:"missing"`
	RiskLabels map[string]string `json:"risk_labels"` // fund id -> riskometer label
}

// NAVHistoryResponse wraps a generated NAV series.
type NAVHistoryResponse struct {
	FundID    string            `json:"fund_id"`
	Synthetic bool              `json:"synthetic"`
	Days      int               `json:"days"`
	Points    []models.NAVPoint `json:"points"`
}

// MetricsResponse carries a fund's extended metrics.
type MetricsResponse struct {
	FundID string `json:"fund_id"`
	synthetic.MetricsReport
}

// ProfileResponse carries the fund house and fund manager profiles.
type ProfileResponse struct {
	FundID  string                                         `json:"fund_id"`
	AMC     synthetic.ProfileReport[models.AMCProfile]     `json:"amc"`
	Manager synthetic.ProfileReport[models.ManagerProfile] `json:"manager"`
}

// ScreenResult is a preset screen with the funds it selects.
type ScreenResult struct {
	Screen screener.Screen `json:"screen"`
	Funds  []models.Fund   `json:"funds"`
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	Market  models.MarketStats  `json:"market"`
	Metrics models.MetricRanges `json:"metrics"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	loadedAt := s.repo.LoadedAt()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Funds:    s.repo.Len(),
		Source:   s.data.Name(),
		Loaded:   timeago.English.FormatReference(loadedAt, now),
		LoadedAt: loadedAt,
		TimeIST:  utils.FormatDateTimeIST(now),
	})
}

func (s *Server) handleListFunds(w http.ResponseWriter, r *http.Request) {
	funds, ok := s.screen(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, funds)
}

func (s *Server) handleExportFunds(w http.ResponseWriter, r *http.Request) {
	funds, ok := s.screen(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="funds.csv"`)
	if err := dataset.WriteCSV(w, funds); err != nil {
		s.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// screen parses the filter query and runs it through the facade. It writes
// the error response itself and reports whether the caller should go on.
func (s *Server) screen(w http.ResponseWriter, r *http.Request) ([]models.Fund, bool) {
	c, err := screener.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	funds, err := s.data.ListFunds(r.Context(), c)
	if err != nil {
		s.log.Error().Err(err).Msg("list funds failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if funds == nil {
		funds = []models.Fund{}
	}
	return funds, true
}

// lookupFund resolves the {id} URL parameter.
func (s *Server) lookupFund(w http.ResponseWriter, r *http.Request) (*models.Fund, bool) {
	f, err := s.data.GetFund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFundError(w, err)
		return nil, false
	}
	return f, true
}

func (s *Server) handleGetFund(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookupFund(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleNAVHistory(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r.URL.Query(), "days", defaultNAVDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if days > maxNAVDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be at most %d", maxNAVDays))
		return
	}

	f, ok := s.lookupFund(w, r)
	if !ok {
		return
	}
	points, err := calculator.NAVHistoryForFund(*f, days, s.now(), nil)
	if errors.Is(err, calculator.ErrInvalidDays) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		// The fund's own figures cannot anchor a series.
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, NAVHistoryResponse{
		FundID:    f.ID,
		Synthetic: true,
		Days:      days,
		Points:    points,
	})
}

func (s *Server) handleFundMetrics(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookupFund(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MetricsResponse{
		FundID:        f.ID,
		MetricsReport: s.synth.Metrics(*f, nil),
	})
}

func (s *Server) handleFundProfile(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookupFund(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{
		FundID:  f.ID,
		AMC:     s.synth.AMCProfile(*f),
		Manager: s.synth.ManagerProfile(*f),
	})
}

func (s *Server) handleFundNews(w http.ResponseWriter, r *http.Request) {
	if s.news == nil {
		writeError(w, http.StatusServiceUnavailable, "fund news is disabled")
		return
	}
	limit, err := intParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, ok := s.lookupFund(w, r)
	if !ok {
		return
	}
	articles, err := s.news.FundNews(r.Context(), *f, limit)
	switch {
	case errors.Is(err, datasource.ErrNoFeeds):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.log.Warn().Err(err).Str("fund", f.ID).Msg("fund news failed")
		writeError(w, http.StatusBadGateway, "news feeds unavailable")
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleTopFunds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period := models.Period1Y
	if raw := q.Get("period"); raw != "" {
		p, err := models.ParsePeriod(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		period = p
	}

	limit, err := intParam(q, "limit", repository.DefaultTopLimit)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	category := models.Category(q.Get("category"))
	if category != "" && !category.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", category))
		return
	}

	funds, err := s.data.TopFunds(r.Context(), period, limit, category)
	if err != nil {
		s.log.Error().Err(err).Msg("top funds failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if funds == nil {
		funds = []models.Fund{}
	}
	writeJSON(w, http.StatusOK, funds)
}

func (s *Server) handleAMCs(w http.ResponseWriter, r *http.Request) {
	amcs, err := s.data.AMCs(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list AMCs failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if amcs == nil {
		amcs = []string{}
	}
	writeJSON(w, http.StatusOK, amcs)
}

// handleCompare accepts ids as ?fundIds=A,B, as repeated ?id= or both.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids := append(screener.SplitIDs(q.Get("fundIds")), q["id"]...)

	funds, missing, err := s.data.Compare(r.Context(), ids)
	if err != nil {
		s.log.Error().Err(err).Msg("compare failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	labels := make(map[string]string, len(funds))
	for _, f := range funds {
		labels[f.ID] = f.RiskRating.DisplayLabel()
	}
	writeJSON(w, http.StatusOK, CompareResponse{
		Funds:      funds,
		Missing:    missing,
		RiskLabels: labels,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Market:  s.repo.Stats(),
		Metrics: s.repo.MetricStats(),
	})
}

func (s *Server) handleScreens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, screener.Screens())
}

func (s *Server) handleRunScreen(w http.ResponseWriter, r *http.Request) {
	sc, err := screener.LookupScreen(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	funds, err := s.data.ListFunds(r.Context(), sc.Criteria)
	if err != nil {
		s.log.Error().Err(err).Str("screen", sc.ID).Msg("screen failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if funds == nil {
		funds = []models.Fund{}
	}
	writeJSON(w, http.StatusOK, ScreenResult{Screen: sc, Funds: funds})
}

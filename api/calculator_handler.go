package api

import (
	"net/http"
	"strings"

	"github.com/seenimoa/fundlens/internal/calculator"
	"github.com/seenimoa/fundlens/pkg/models"
)

// CalculatorResponse is returned by the SIP and lumpsum calculators.
type CalculatorResponse struct {
	Kind       string             `json:"kind"` // "sip" or "lumpsum"
	Amount     float64            `json:"amount"`
	Rate       float64            `json:"rate"` // expected annual return, percent
	Years      int                `json:"years"`
	Projection models.Projection  `json:"projection"`
	PostTax    models.PostTax     `json:"postTax"`
	Schedule   []models.YearValue `json:"schedule"`
}

type projectFunc func(amount, rate float64, years int) (models.Projection, error)

type scheduleFunc func(amount, rate float64, years int) ([]models.YearValue, error)

// handleSIP projects a monthly SIP: ?amount=5000&rate=12&years=10.
func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request) {
	s.project(w, r, "sip", calculator.SIP, calculator.SIPSchedule)
}

// handleLumpsum projects a one-time investment: ?amount=100000&rate=12&years=10.
func (s *Server) handleLumpsum(w http.ResponseWriter, r *http.Request) {
	s.project(w, r, "lumpsum", calculator.Lumpsum, calculator.LumpsumSchedule)
}

func (s *Server) project(w http.ResponseWriter, r *http.Request, kind string, proj projectFunc, sched scheduleFunc) {
	q := r.URL.Query()

	amount, err := floatParam(q, "amount")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rate, err := floatParam(q, "rate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(q.Get("years")) == "" {
		writeError(w, http.StatusBadRequest, "years is required")
		return
	}
	years, err := intParam(q, "years", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	taxRate := s.cfg.Calculator.TaxRate
	if q.Get("tax_rate") != "" {
		if taxRate, err = floatParam(q, "tax_rate"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	p, err := proj(amount, rate, years)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pt, err := calculator.PostTax(p, taxRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	schedule, err := sched(amount, rate, years)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CalculatorResponse{
		Kind:       kind,
		Amount:     amount,
		Rate:       rate,
		Years:      years,
		Projection: p,
		PostTax:    pt,
		Schedule:   schedule,
	})
}

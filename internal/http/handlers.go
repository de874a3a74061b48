package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/services"
)

type textRequest struct {
	Text string `json:"text"`
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req textRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: expected {\"text\": \"...\"}")
		return "", false
	}
	return strings.TrimSpace(req.Text), true
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports whether the ledger answers a read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.svc.Totals(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("ledger unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}
	logger := log.FromContext(r.Context())

	e, err := s.svc.LogExpense(r.Context(), text)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNoAmountFound) || errors.Is(err, core.ErrInvalidAmount) {
			status = http.StatusUnprocessableEntity
		} else {
			logger.ErrorContext(r.Context(), "Expense append failed", log.FieldError, err)
		}
		writeError(w, status, services.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Expense expenseResponse `json:"expense"`
		Message string          `json:"message"`
	}{toExpenseResponse(e), services.FormatConfirmation(e)})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	all, err := s.svc.Expenses(r.Context())
	if err != nil {
		s.readFailed(w, r, err)
		return
	}
	out := make([]expenseResponse, len(all))
	for i, e := range all {
		out[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, struct {
		Expenses []expenseResponse `json:"expenses"`
	}{out})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		s.readFailed(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(summary))
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.svc.Totals(r.Context())
	if err != nil {
		s.readFailed(w, r, err)
		return
	}
	out := make(map[string]amountResponse, len(totals))
	for c, m := range totals {
		out[c.String()] = amountResponse{Amount: m.String(), AmountCents: m.Cents}
	}
	writeJSON(w, http.StatusOK, struct {
		Totals map[string]amountResponse `json:"totals"`
	}{out})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	tips, err := s.svc.Tips(r.Context())
	if err != nil {
		s.readFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tips []string `json:"tips"`
	}{tips})
}

// handleAsk is the free-form entry point; failures are part of the reply, so it always answers 200.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}
	intent, reply := s.svc.Respond(r.Context(), text)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Answered request", log.FieldIntent, string(intent))
	writeJSON(w, http.StatusOK, struct {
		Intent   string `json:"intent"`
		Response string `json:"response"`
	}{string(intent), reply})
}

func (s *Server) readFailed(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger read failed", log.FieldError, err)
	writeError(w, http.StatusInternalServerError, services.UserMessage(err))
}

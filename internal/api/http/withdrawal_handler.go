package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"earnx-backend/internal/domain"
)

type withdrawalRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req withdrawalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.ErrInvalidInput)
		return
	}
	withdrawal, err := s.withdrawals.Request(r.Context(), id, amount, domain.WithdrawalMethod(req.Method))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, withdrawal)
}

func (s *Server) handleWithdrawalHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page := pageParam(r)
	withdrawals, total, err := s.withdrawals.History(r.Context(), id, page)
	if err != nil {
		writeError(w, err)
		return
	}
	if withdrawals == nil {
		withdrawals = []domain.Withdrawal{}
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: withdrawals, Total: total, Page: page})
}

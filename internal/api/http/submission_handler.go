package http

import (
	"net/http"

	"earnx-backend/internal/domain"
)

type submitRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.submissions.Submit(r.Context(), id, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
	Page  int32 `json:"page"`
}

func (s *Server) handleSubmissionHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page := pageParam(r)
	subs, total, err := s.submissions.History(r.Context(), id, page)
	if err != nil {
		writeError(w, err)
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: subs, Total: total, Page: page})
}

package http

import (
	"errors"
	"net/http"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/security"
)

type loginRequest struct {
	AdminID  int64  `json:"admin_id"`
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.AdminID != s.adminCfg.ID {
		writeError(w, security.ErrInvalidCredentials)
		return
	}
	if err := security.VerifyPassword(s.adminCfg.PasswordHash, req.Password); err != nil {
		writeError(w, err)
		return
	}
	token, err := s.tokens.GenerateAdminToken(req.AdminID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handlePendingQueue(w http.ResponseWriter, r *http.Request) {
	groups, err := s.submissions.PendingQueue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.PendingGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

type pendingForUserResponse struct {
	Items       []domain.Submission `json:"items"`
	TotalReward string              `json:"total_reward"`
}

func (s *Server) handlePendingForUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	subs, total, err := s.submissions.PendingForUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	writeJSON(w, http.StatusOK, pendingForUserResponse{Items: subs, TotalReward: total.StringFixed(2)})
}

func (s *Server) handleApproveSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.submissions.Approve(r.Context(), adminID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRejectSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.submissions.Reject(r.Context(), adminID(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleApproveAll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.submissions.ApproveAll(r.Context(), adminID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRejectAll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := s.submissions.RejectAll(r.Context(), adminID(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNextWithdrawal(w http.ResponseWriter, r *http.Request) {
	next, err := s.withdrawals.NextPending(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"empty": true})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	withdrawal, err := s.withdrawals.Approve(r.Context(), adminID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

func (s *Server) handleRejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	withdrawal, err := s.withdrawals.Reject(r.Context(), adminID(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

func (s *Server) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	s.setBlocked(w, r, true)
}

func (s *Server) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	s.setBlocked(w, r, false)
}

func (s *Server) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.admin.BlockUser(r.Context(), adminID(r), id, blocked); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type broadcastRequest struct {
	Message string `json:"message"`
}

type broadcastResponse struct {
	Sent   int32 `json:"sent"`
	Failed int32 `json:"failed"`
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sent, failed, err := s.admin.Broadcast(r.Context(), adminID(r), req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, broadcastResponse{Sent: sent, Failed: failed})
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	entries, total, err := s.admin.AuditLog(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: entries, Total: total, Page: page})
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	drifts, err := s.admin.ReconcileBalances(r.Context(), adminID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if drifts == nil {
		drifts = []domain.ReconciliationDrift{}
	}
	writeJSON(w, http.StatusOK, drifts)
}

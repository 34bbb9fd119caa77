package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"earnx-backend/internal/config"
	"earnx-backend/internal/security"
	"earnx-backend/internal/service"
)

// Server wires the workflow services into the JSON API consumed by the
// chat gateway and the admin console.
type Server struct {
	users       service.UserService
	submissions service.SubmissionService
	withdrawals service.WithdrawalService
	referrals   service.ReferralService
	admin       service.AdminService
	tokens      security.TokenManager
	adminCfg    config.AdminConfig
}

func NewServer(
	users service.UserService,
	submissions service.SubmissionService,
	withdrawals service.WithdrawalService,
	referrals service.ReferralService,
	admin service.AdminService,
	tokens security.TokenManager,
	adminCfg config.AdminConfig,
) *Server {
	return &Server{
		users:       users,
		submissions: submissions,
		withdrawals: withdrawals,
		referrals:   referrals,
		admin:       admin,
		tokens:      tokens,
		adminCfg:    adminCfg,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID, RequestLogger)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/admin/login", s.handleAdminLogin).Methods(http.MethodPost)

	// User-facing routes, called by the trusted chat gateway.
	api.HandleFunc("/users", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/upi", s.handleSetUPI).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}/usdt", s.handleSetUSDT).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}/notifications", s.handleSetNotifications).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}/channel-bonus", s.handleClaimChannelBonus).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/earnings", s.handleEarnings).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/submissions", s.handleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/submissions", s.handleSubmissionHistory).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/withdrawals", s.handleRequestWithdrawal).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/withdrawals", s.handleWithdrawalHistory).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/referrals", s.handleReferralStats).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	// Review and operations routes, bearer token required.
	adm := api.PathPrefix("/admin").Subrouter()
	adm.Use(AdminAuth(s.tokens))
	adm.HandleFunc("/queue", s.handlePendingQueue).Methods(http.MethodGet)
	adm.HandleFunc("/users/{id:[0-9]+}/pending", s.handlePendingForUser).Methods(http.MethodGet)
	adm.HandleFunc("/submissions/{id:[0-9]+}/approve", s.handleApproveSubmission).Methods(http.MethodPost)
	adm.HandleFunc("/submissions/{id:[0-9]+}/reject", s.handleRejectSubmission).Methods(http.MethodPost)
	adm.HandleFunc("/users/{id:[0-9]+}/approve-all", s.handleApproveAll).Methods(http.MethodPost)
	adm.HandleFunc("/users/{id:[0-9]+}/reject-all", s.handleRejectAll).Methods(http.MethodPost)
	adm.HandleFunc("/withdrawals/next", s.handleNextWithdrawal).Methods(http.MethodGet)
	adm.HandleFunc("/withdrawals/{id:[0-9]+}/approve", s.handleApproveWithdrawal).Methods(http.MethodPost)
	adm.HandleFunc("/withdrawals/{id:[0-9]+}/reject", s.handleRejectWithdrawal).Methods(http.MethodPost)
	adm.HandleFunc("/users/{id:[0-9]+}/block", s.handleBlockUser).Methods(http.MethodPost)
	adm.HandleFunc("/users/{id:[0-9]+}/unblock", s.handleUnblockUser).Methods(http.MethodPost)
	adm.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	adm.HandleFunc("/broadcast", s.handleBroadcast).Methods(http.MethodPost)
	adm.HandleFunc("/audit", s.handleAuditLog).Methods(http.MethodGet)
	adm.HandleFunc("/reconcile", s.handleReconcile).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

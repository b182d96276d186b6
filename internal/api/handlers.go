/**
 * @description
 * HTTP handlers for the Silver Bank API. Handlers decode and validate the
 * request, resolve the session from the context, call the application
 * service, and map service errors onto HTTP status codes. They are the bridge
 * between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http, strconv: Standard Go libraries.
 * - github.com/prometheus/client_golang: Request counters and latency histograms.
 * - internal/app, internal/auth, internal/domain, internal/store: Service
 *   logic, sessions, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sumin-dev/Silver-Bank/internal/app"
	"github.com/sumin-dev/Silver-Bank/internal/auth"
	"github.com/sumin-dev/Silver-Bank/internal/domain"
	"github.com/sumin-dev/Silver-Bank/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "silverbank_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "silverbank_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// Handlers holds the application service and token manager that handlers use.
type Handlers struct {
	service *app.Service
	tokens  *auth.TokenManager
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service, tokens *auth.TokenManager) *Handlers {
	return &Handlers{service: service, tokens: tokens}
}

// SignupHandler registers a new sign-in credential.
func (h *Handlers) SignupHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/auth/signup")()

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "/auth/signup", http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := ValidateRequest(req); details != nil {
		h.writeValidationError(w, r, "/auth/signup", details)
		return
	}

	cred, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			h.writeError(w, r, "/auth/signup", http.StatusConflict, "Email is already registered")
			return
		}
		h.serverError(w, r, "/auth/signup", err)
		return
	}
	h.writeJSON(w, r, "/auth/signup", http.StatusCreated, cred)
}

// LoginHandler checks the email/password pair and issues a session token.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/auth/login")()

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "/auth/login", http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := ValidateRequest(req); details != nil {
		h.writeValidationError(w, r, "/auth/login", details)
		return
	}

	cred, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrCredentialNotFound) {
			h.writeError(w, r, "/auth/login", http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.serverError(w, r, "/auth/login", err)
		return
	}

	token, err := h.tokens.Issue(cred.ID, cred.Email)
	if err != nil {
		h.serverError(w, r, "/auth/login", err)
		return
	}
	h.writeJSON(w, r, "/auth/login", http.StatusOK, domain.LoginResponse{Token: token})
}

// LogoutHandler revokes the presented session token.
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/auth/logout")()

	tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.tokens.Revoke(r.Context(), tokenString); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.writeError(w, r, "/auth/logout", http.StatusUnauthorized, "Invalid token")
			return
		}
		h.serverError(w, r, "/auth/logout", err)
		return
	}
	h.writeJSON(w, r, "/auth/logout", http.StatusNoContent, nil)
}

// GetProfileHandler returns the session user's banking profile.
func (h *Handlers) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/profile")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/profile", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), session)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			h.writeError(w, r, "/profile", http.StatusNotFound, "Profile not found")
			return
		}
		h.serverError(w, r, "/profile", err)
		return
	}
	h.writeJSON(w, r, "/profile", http.StatusOK, profile)
}

// CreateProfileHandler stores the first-login banking profile.
func (h *Handlers) CreateProfileHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/profile")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/profile", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "/profile", http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := ValidateRequest(req); details != nil {
		h.writeValidationError(w, r, "/profile", details)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), session, req)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidPaymentPassword):
			h.writeError(w, r, "/profile", http.StatusBadRequest, "Payment password must be exactly six digits")
		case errors.Is(err, store.ErrProfileExists):
			h.writeError(w, r, "/profile", http.StatusConflict, "Profile already exists")
		default:
			h.serverError(w, r, "/profile", err)
		}
		return
	}
	h.writeJSON(w, r, "/profile", http.StatusCreated, profile)
}

// GetAccountHandler returns the session user's account.
func (h *Handlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/account")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/account", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	account, err := h.service.GetAccount(r.Context(), session)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			h.writeError(w, r, "/account", http.StatusNotFound, "No account has been opened yet")
			return
		}
		h.serverError(w, r, "/account", err)
		return
	}
	h.writeJSON(w, r, "/account", http.StatusOK, account)
}

// OpenAccountHandler provisions the session user's single account.
func (h *Handlers) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/account")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/account", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	account, err := h.service.OpenAccount(r.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProfileRequired):
			h.writeError(w, r, "/account", http.StatusPreconditionFailed, "Create your profile before opening an account")
		case errors.Is(err, store.ErrAccountExists):
			h.writeError(w, r, "/account", http.StatusConflict, "Account already exists")
		default:
			h.serverError(w, r, "/account", err)
		}
		return
	}

	log.Printf("level=info component=api endpoint=open_account outcome=created user_id=%s account_number=%s",
		session.UserID, account.Number)
	h.writeJSON(w, r, "/account", http.StatusCreated, account)
}

// ValidateTransferHandler runs the pre-commit checks and returns the receiver
// identity for the payment password prompt.
func (h *Handlers) ValidateTransferHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/transfer/validate")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/transfer/validate", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req domain.ValidateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "/transfer/validate", http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := ValidateRequest(req); details != nil {
		h.writeValidationError(w, r, "/transfer/validate", details)
		return
	}

	resp, err := h.service.ValidateTransfer(r.Context(), session, req)
	if err != nil {
		h.writeTransferError(w, r, "/transfer/validate", err)
		return
	}
	h.writeJSON(w, r, "/transfer/validate", http.StatusOK, resp)
}

// TransferHandler commits a transfer.
func (h *Handlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/transfer")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/transfer", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "/transfer", http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := ValidateRequest(req); details != nil {
		h.writeValidationError(w, r, "/transfer", details)
		return
	}

	record, err := h.service.Transfer(r.Context(), session, req)
	if err != nil {
		h.writeTransferError(w, r, "/transfer", err)
		return
	}

	log.Printf("level=info component=api endpoint=transfer outcome=committed sender=%s receiver=%s amount=%d",
		record.SenderNumber, record.ReceiverNumber, record.Amount)
	h.writeJSON(w, r, "/transfer", http.StatusCreated, record)
}

// writeTransferError maps transfer workflow errors onto HTTP statuses. Both
// the validation step and the commit share the same taxonomy.
func (h *Handlers) writeTransferError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	switch {
	case errors.Is(err, app.ErrSelfTransfer):
		h.writeError(w, r, endpoint, http.StatusUnprocessableEntity, "Cannot transfer to your own account")
	case errors.Is(err, store.ErrInsufficientFunds):
		h.writeError(w, r, endpoint, http.StatusUnprocessableEntity, "Insufficient balance")
	case errors.Is(err, app.ErrReceiverNotFound):
		h.writeError(w, r, endpoint, http.StatusNotFound, "Receiving account does not exist")
	case errors.Is(err, store.ErrAccountNotFound):
		h.writeError(w, r, endpoint, http.StatusNotFound, "No account has been opened yet")
	case errors.Is(err, app.ErrWrongPaymentPassword):
		h.writeError(w, r, endpoint, http.StatusForbidden, "Wrong payment password")
	case errors.Is(err, store.ErrStaleBalance):
		h.writeError(w, r, endpoint, http.StatusConflict, "Balance changed, please retry")
	default:
		h.serverError(w, r, endpoint, err)
	}
}

// SentAccountsHandler serves one page of the "accounts I've sent to" view.
func (h *Handlers) SentAccountsHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/ledger/sent")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/ledger/sent", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	sortMode := app.SentSort(r.URL.Query().Get("sort"))
	switch sortMode {
	case "":
		sortMode = app.SortByDate
	case app.SortByDate, app.SortByName, app.SortByCount:
	default:
		h.writeError(w, r, "/ledger/sent", http.StatusBadRequest, "sort must be one of date, name, count")
		return
	}

	page := queryPage(r)
	view, err := h.service.SentAccounts(r.Context(), session, sortMode, page)
	if err != nil {
		h.serverError(w, r, "/ledger/sent", err)
		return
	}
	h.writeJSON(w, r, "/ledger/sent", http.StatusOK, view)
}

// HistoryHandler serves one page of the merged transaction history.
func (h *Handlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r, "/ledger/history")()

	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.writeError(w, r, "/ledger/history", http.StatusInternalServerError, "Could not get session from context")
		return
	}

	filter := app.HistoryFilter(r.URL.Query().Get("filter"))
	switch filter {
	case "":
		filter = app.FilterAll
	case app.FilterAll, app.FilterSend, app.FilterReceive:
	default:
		h.writeError(w, r, "/ledger/history", http.StatusBadRequest, "filter must be one of all, send, receive")
		return
	}

	page := queryPage(r)
	view, err := h.service.History(r.Context(), session, filter, page)
	if err != nil {
		h.serverError(w, r, "/ledger/history", err)
		return
	}
	h.writeJSON(w, r, "/ledger/history", http.StatusOK, view)
}

// queryPage parses the 1-based page query parameter. Out-of-range values are
// clamped later by the service, so only the parse matters here.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handlers) observe(r *http.Request, endpoint string) func() {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(r.Method, endpoint))
	return func() { timer.ObserveDuration() }
}

// writeJSON is a helper for writing JSON responses.
func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, endpoint string, status int, data interface{}) {
	httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, endpoint string, status int, message string) {
	h.writeJSON(w, r, endpoint, status, map[string]string{"error": message})
}

func (h *Handlers) writeValidationError(w http.ResponseWriter, r *http.Request, endpoint string, details []ValidationError) {
	h.writeJSON(w, r, endpoint, http.StatusBadRequest, badRequestResponse{
		Error:   "Invalid request data",
		Details: details,
	})
}

// serverError logs the underlying cause and reports a generic message so
// store internals never leak to the client.
func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	log.Printf("level=error component=api endpoint=%s msg=\"request failed\" err=%v", endpoint, err)
	h.writeError(w, r, endpoint, http.StatusInternalServerError, "Internal server error")
}

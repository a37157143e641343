package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/bank/service"
	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
	"github.com/louisbranch/demobank/internal/platform/id"
	"github.com/louisbranch/demobank/internal/platform/requestctx"
	"github.com/louisbranch/demobank/internal/platform/timeouts"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Handler serves the console API over the bank services.
type Handler struct {
	bank   *service.Bank
	logger zerolog.Logger
}

// NewHandler builds a console handler.
func NewHandler(bank *service.Bank, logger zerolog.Logger) *Handler {
	return &Handler{bank: bank, logger: logger}
}

// Router mounts every console route.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(withRequestID, instrument, withTimeout)
	v1.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet)
	v1.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPatch)
	v1.HandleFunc("/transfers", h.CreateTransfer).Methods(http.MethodPost)
	v1.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	v1.HandleFunc("/cards", h.ListCards).Methods(http.MethodGet)
	v1.HandleFunc("/cards/{id}/freeze", h.ToggleFreeze).Methods(http.MethodPost)
	v1.HandleFunc("/loans", h.ListLoans).Methods(http.MethodGet)
	v1.HandleFunc("/loans", h.ApplyLoan).Methods(http.MethodPost)
	v1.HandleFunc("/loans/{id}/status", h.UpdateLoanStatus).Methods(http.MethodPost)
	v1.HandleFunc("/kyc", h.ListKYC).Methods(http.MethodGet)
	v1.HandleFunc("/kyc", h.SubmitKYC).Methods(http.MethodPost)
	v1.HandleFunc("/kyc/{id}/status", h.UpdateKYCStatus).Methods(http.MethodPost)
	v1.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	v1.HandleFunc("/posts", h.PublishPost).Methods(http.MethodPost)
	v1.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	return r
}

const requestIDHeader = "X-Request-ID"

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			generated, err := id.NewID()
			if err == nil {
				requestID = generated
			}
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), requestID)))
	})
}

func withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type transferRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient"`
	Note      string          `json:"note"`
}

type loanRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Type    string          `json:"type"`
	Purpose string          `json:"purpose"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type kycRequest struct {
	User    string `json:"user"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

type postRequest struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// GetProfile returns the account profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.bank.Ledger.Profile(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile merges a partial profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if err := decodeBody(r, w, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	profile, err := h.bank.Ledger.UpdateProfile(r.Context(), patch)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// CreateTransfer moves money out of the balance.
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	tx, err := h.bank.Ledger.Transfer(r.Context(), domain.TransferInput{
		Amount:    req.Amount,
		Recipient: req.Recipient,
		Note:      req.Note,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns the history, optionally filtered.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.bank.Ledger.Transactions(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// ListCards returns the profile's cards.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.bank.Cards.Cards(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// ToggleFreeze flips one card's frozen flag.
func (h *Handler) ToggleFreeze(w http.ResponseWriter, r *http.Request) {
	card, err := h.bank.Cards.ToggleFreeze(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// ListLoans returns loan applications.
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.bank.Loans.Loans(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// ApplyLoan records a new application.
func (h *Handler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	loan, err := h.bank.Loans.Apply(r.Context(), domain.LoanInput{
		Amount:  req.Amount,
		Type:    req.Type,
		Purpose: req.Purpose,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// UpdateLoanStatus approves or rejects a loan.
func (h *Handler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r, w)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	loan, err := h.bank.Loans.UpdateStatus(r.Context(), mux.Vars(r)["id"], status)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// ListKYC returns the compliance queue, optionally filtered.
func (h *Handler) ListKYC(w http.ResponseWriter, r *http.Request) {
	requests, err := h.bank.Compliance.Search(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// SubmitKYC queues a verification request.
func (h *Handler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	var req kycRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	request, err := h.bank.Compliance.Submit(r.Context(), domain.KYCInput{
		User:    req.User,
		Email:   req.Email,
		Type:    req.Type,
		Details: req.Details,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

// UpdateKYCStatus approves or rejects a verification request.
func (h *Handler) UpdateKYCStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r, w)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	request, err := h.bank.Compliance.UpdateStatus(r.Context(), mux.Vars(r)["id"], status)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// ListPosts returns articles, optionally filtered.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.bank.Content.Search(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPost returns one article.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.bank.Content.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// PublishPost adds an article.
func (h *Handler) PublishPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	post, err := h.bank.Content.Publish(r.Context(), domain.PostInput{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/posts/"+post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func decodeStatus(r *http.Request, w http.ResponseWriter) (domain.ReviewStatus, error) {
	var req statusRequest
	if err := decodeBody(r, w, &req); err != nil {
		return "", err
	}
	status, ok := domain.ParseReviewStatus(req.Status)
	if !ok {
		return "", apperrors.WithMetadata(
			apperrors.CodeInvalidArgument,
			"unknown status "+req.Status,
			map[string]string{"Field": "status", "Reason": "must be approved or rejected"},
		)
	}
	return status, nil
}

package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/platform/middleware"
	"petitionsigner/internal/signature"
	dErrors "petitionsigner/pkg/domain-errors"
	"petitionsigner/pkg/platform/httputil"
)

// Service is the petition workflow as seen by the HTTP layer.
type Service interface {
	Login(ctx context.Context, root, email, password string) (*models.Session, error)
	Logout(sessionID string)
	Normalize(ctx context.Context, sessionID string, raw models.Parameters) (models.Normalized, error)
	EnsureTemplate(ctx context.Context, sessionID, title, text string) (string, error)
	CreateContract(ctx context.Context, sessionID string, raw models.Parameters) (*models.ContractRecord, error)
	Contract(sessionID, contractID string) (*models.ContractRecord, error)
	Sign(ctx context.Context, sessionID, contractID string, wallet signature.Wallet, declared string) (*models.Verification, error)
	Reconcile(ctx context.Context, sessionID, contractID string) (*models.ContractRecord, error)
	Status(ctx context.Context, sessionID, contractID string) (json.RawMessage, error)
	Export(ctx context.Context, sessionID, contractID, format string) (*openlaw.Document, error)
}

// Handler exposes the petition wizard operations. It holds no state of its own;
// the session travels in the X-Session-ID header.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/login", h.HandleLogin)
	r.Delete("/api/session", h.HandleLogout)
	r.Post("/api/parameters/normalize", h.HandleNormalize)
	r.Post("/api/templates/ensure", h.HandleEnsureTemplate)
	r.Post("/api/contracts", h.HandleCreateContract)
	r.Get("/api/contracts/{id}", h.HandleGetContract)
	r.Post("/api/contracts/{id}/sign", h.HandleSign)
	r.Post("/api/contracts/{id}/reconcile", h.HandleReconcile)
	r.Get("/api/contracts/{id}/status", h.HandleStatus)
	r.Get("/api/contracts/{id}/export", h.HandleExport)
}

// HandleLogin opens a session against the contract-hosting service.
//
// Input:  {"email": "...", "password": "...", "root": "https://host/api/v1/ws"}
// Output: {"session_id": "...", "creator_id": "...", "email": "...", "token_present": true}
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[loginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.svc.Login(ctx, req.Root, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"error", err,
			"request_id", requestID,
			"client", middleware.ClientDescription(r.UserAgent()),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		SessionID:    session.ID,
		CreatorID:    session.CreatorID,
		Email:        session.Email,
		TokenPresent: session.HasToken(),
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	h.svc.Logout(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[parametersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	normalized, err := h.svc.Normalize(ctx, sessionID, req.Parameters)
	if err != nil {
		h.fail(ctx, w, "normalize failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, normalizeResponse{Parameters: normalized})
}

func (h *Handler) HandleEnsureTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req := &templateRequest{}
	if r.ContentLength != 0 {
		if req, ok = httputil.DecodeAndPrepare[templateRequest](w, r, h.logger, ctx, requestID); !ok {
			return
		}
	}

	templateID, err := h.svc.EnsureTemplate(ctx, sessionID, req.Title, req.Text)
	if err != nil {
		h.fail(ctx, w, "template ensure failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, templateResponse{TemplateID: templateID})
}

// HandleCreateContract normalizes the parameters, ensures the petition template
// and submits the contract. Answers 201 with the ContractRecord.
func (h *Handler) HandleCreateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[parametersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.svc.CreateContract(ctx, sessionID, req.Parameters)
	if err != nil {
		h.fail(ctx, w, "contract submission failed", err)
		return
	}

	h.logger.InfoContext(ctx, "contract created",
		"request_id", requestID,
		"contract_id", record.ContractID,
		"resolved_by", record.ResolvedBy,
	)
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) HandleGetContract(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	record, err := h.svc.Contract(sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(r.Context(), w, "contract lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleSign verifies a signature the browser wallet produced over "<id>_sign".
// A mismatch is not an error: the verification is returned with its mismatch set.
func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[signRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	contractID := chi.URLParam(r, "id")

	wallet := signature.PresignedWallet{Account: req.Account, Signature: req.Signature}
	verification, err := h.svc.Sign(ctx, sessionID, contractID, wallet, req.DeclaredAddress)
	if err != nil {
		h.fail(ctx, w, "signing failed", err)
		return
	}

	if verification.Mismatched() {
		h.logger.WarnContext(ctx, "signer differs from declared wallet",
			"request_id", requestID,
			"contract_id", contractID,
			"client", middleware.ClientDescription(r.UserAgent()),
		)
	}
	httputil.WriteJSON(w, http.StatusOK, verification)
}

func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	record, err := h.svc.Reconcile(ctx, sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "reconciliation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	status, err := h.svc.Status(ctx, sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "status lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleExport streams the contract document. format is pdf (default) or docx.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	contractID := chi.URLParam(r, "id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	doc, err := h.svc.Export(ctx, sessionID, contractID, format)
	if err != nil {
		h.fail(ctx, w, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", contractID+"."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing "+middleware.SessionIDHeader+" header"))
		return "", false
	}
	return sessionID, true
}

// fail logs at warn for caller-fixable failures and at error for the rest.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelError
	if status := httputil.DomainCodeToHTTPStatus(codeOf(err)); status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"request_id", middleware.GetRequestID(ctx),
		"retryable", dErrors.IsRetryable(err),
	)
	httputil.WriteError(w, err)
}

func codeOf(err error) dErrors.Code {
	var e *dErrors.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return dErrors.CodeInternal
}

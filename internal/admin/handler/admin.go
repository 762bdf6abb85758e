package handler

import (
	"bytes"
	"net/http"

	"roombook/internal/admin/service"
	"roombook/pkg/client"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/password"

	"github.com/julienschmidt/httprouter"
)

const exportFilename = "transaction_log.csv"

type AdminHandler struct {
	service      service.AdminService
	passwordHash string
	log          *logger.Logger
}

// NewAdminHandler guards every route with the bcrypt hash of the administrator
// password.
func NewAdminHandler(service service.AdminService, passwordHash string, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service:      service,
		passwordHash: passwordHash,
		log:          log,
	}
}

func (h *AdminHandler) Transactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	recs, err := h.service.Transactions(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeError(w, "Transactions", err)
		return
	}

	if err := httputil.WriteSuccess(w, recs); err != nil {
		h.log.Error("failed to write success response", "handler", "Transactions", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) ExportTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	var buf bytes.Buffer
	if err := h.service.ExportTransactions(r.Context(), &buf, q.Get("from"), q.Get("to")); err != nil {
		h.writeError(w, "ExportTransactions", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error("failed to write export", "handler", "ExportTransactions", "operation", "Write", "error", err)
	}
}

func (h *AdminHandler) BlockedDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dates, err := h.service.BlockedDates(r.Context())
	if err != nil {
		h.writeError(w, "BlockedDates", err)
		return
	}

	if err := httputil.WriteSuccess(w, dates); err != nil {
		h.log.Error("failed to write success response", "handler", "BlockedDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) BlockDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BlockDateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "BlockDate", err)
		return
	}

	result, err := h.service.BlockDate(r.Context(), &req)
	if err != nil {
		h.writeError(w, "BlockDate", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "BlockDate", "operation", "WriteCreated", "error", err)
	}
}

func (h *AdminHandler) UnblockDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.UnblockDate(r.Context(), ps.ByName("date")); err != nil {
		h.writeError(w, "UnblockDate", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AdminHandler) Usage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	report, err := h.service.Usage(r.Context(), q.Get("from"), q.Get("to"), q.Get("room"))
	if err != nil {
		h.writeError(w, "Usage", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Usage", "operation", "WriteSuccess", "error", err)
	}
}

// authorized rejects requests that do not carry the administrator password.
func (h *AdminHandler) authorized(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := password.ComparePassword(h.passwordHash, r.Header.Get(client.AdminPasswordHeader)); err != nil {
			h.log.Warn("Admin authentication failed",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			h.writeError(w, "Authorize", apperrors.Unauthorized("Invalid admin password"))
			return
		}
		next(w, r, ps)
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/transactions", h.authorized(h.Transactions))
	router.GET("/api/v1/admin/transactions/export", h.authorized(h.ExportTransactions))
	router.GET("/api/v1/admin/blocked-dates", h.authorized(h.BlockedDates))
	router.POST("/api/v1/admin/blocked-dates", h.authorized(h.BlockDate))
	router.DELETE("/api/v1/admin/blocked-dates/:date", h.authorized(h.UnblockDate))
	router.GET("/api/v1/admin/usage", h.authorized(h.Usage))
}

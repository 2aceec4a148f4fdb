package statusrequest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/transport"
	"github.com/statusdesk/statusdesk/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, requesterID int64, dto SubmitStatusRequestDTO) ([]*StatusRequest, error)
	DecideEmergencyBriefing(ctx context.Context, approverID, targetUserID int64, dto DecideEmergencyBriefingDTO) (*StatusRequest, error)
	RequestsForUser(ctx context.Context, userID int64) ([]*StatusRequest, error)
	AllRequests(ctx context.Context) ([]*StatusRequest, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	requesterID := internal.UserIDFromContext(r.Context())
	if requesterID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requests, err := h.Service.Submit(r.Context(), requesterID, dto)
	if err != nil {
		h.Logger.Error("SubmitRequest: service error",
			"error", err,
			"requester_id", requesterID,
			"status_name", dto.StatusName)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitRequest: request admitted",
		"requester_id", requesterID,
		"status_name", dto.StatusName,
		"rows", len(requests))

	h.WriteJSON(w, http.StatusCreated, requests)
}

func (h *Handler) DecideEmergencyBriefing(w http.ResponseWriter, r *http.Request) {
	approverID := internal.UserIDFromContext(r.Context())
	if approverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetIDStr := chi.URLParam(r, "userId")
	targetID, err := strconv.ParseInt(targetIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("DecideEmergencyBriefing: invalid user ID", "user_id", targetIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto DecideEmergencyBriefingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DecideEmergencyBriefing: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.DecideEmergencyBriefing(r.Context(), approverID, targetID, dto)
	if err != nil {
		h.Logger.Error("DecideEmergencyBriefing: service error",
			"error", err,
			"approver_id", approverID,
			"target_user_id", targetID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DecideEmergencyBriefing: request decided",
		"approver_id", approverID,
		"target_user_id", targetID,
		"approval_status", req.ApprovalStatus)

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) MyRequests(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requests, err := h.Service.RequestsForUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("MyRequests: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) UserRequests(w http.ResponseWriter, r *http.Request) {
	targetIDStr := chi.URLParam(r, "userId")
	targetID, err := strconv.ParseInt(targetIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("UserRequests: invalid user ID", "user_id", targetIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	requests, err := h.Service.RequestsForUser(r.Context(), targetID)
	if err != nil {
		h.Logger.Error("UserRequests: service error", "error", err, "user_id", targetID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.AllRequests(r.Context())
	if err != nil {
		h.Logger.Error("ListRequests: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

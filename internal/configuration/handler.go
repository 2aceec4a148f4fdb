package configuration

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
	CreateConfiguration(ctx context.Context, createdBy int64, dto CreateConfigurationDTO) (*Configuration, error)
	GetConfiguration(ctx context.Context, id int64) (*Configuration, error)
	ListConfigurations(ctx context.Context) ([]*Configuration, error)
	ListByType(ctx context.Context, cfgType string) ([]*Configuration, error)
	UpdateConfiguration(ctx context.Context, id int64, dto UpdateConfigurationDTO) (*Configuration, error)
	DeleteConfiguration(ctx context.Context, id int64) error
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

func (h *Handler) CreateConfiguration(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateConfigurationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateConfiguration: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.Service.CreateConfiguration(r.Context(), actorID, dto)
	if err != nil {
		h.Logger.Error("CreateConfiguration: service error", "error", err, "status_name", dto.StatusName)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateConfiguration: configuration created",
		"id", cfg.ID,
		"type", cfg.Type,
		"status_name", cfg.StatusName)

	h.WriteJSON(w, http.StatusCreated, cfg)
}

func (h *Handler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	cfg, err := h.Service.GetConfiguration(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) ListConfigurations(w http.ResponseWriter, r *http.Request) {
	cfgType := r.URL.Query().Get("type")

	var (
		configs []*Configuration
		err     error
	)
	if cfgType != "" {
		configs, err = h.Service.ListByType(r.Context(), cfgType)
	} else {
		configs, err = h.Service.ListConfigurations(r.Context())
	}
	if err != nil {
		h.Logger.Error("ListConfigurations: service error", "error", err, "type", cfgType)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, configs)
}

func (h *Handler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var dto UpdateConfigurationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateConfiguration: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.Service.UpdateConfiguration(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateConfiguration: service error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) DeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteConfiguration(r.Context(), id); err != nil {
		h.Logger.Error("DeleteConfiguration: service error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "configuration deleted"})
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid configuration ID in path", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid configuration ID")
		return 0, false
	}
	return id, true
}

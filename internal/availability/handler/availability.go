package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"ayurclinic/internal/availability/service"
	httputil "ayurclinic/pkg/http"
	"ayurclinic/pkg/logger"
	"ayurclinic/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")

	cfg, err := h.service.GetOrCreate(r.Context(), practitionerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cfg); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")

	var updates model.AvailabilityConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	cfg, err := h.service.Update(r.Context(), practitionerID, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cfg); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) AddUnavailableDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")

	var date model.UnavailableDate
	if err := json.NewDecoder(r.Body).Decode(&date); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddUnavailableDate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	date.PractitionerID = practitionerID

	if err := h.service.AddUnavailableDate(r.Context(), &date); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddUnavailableDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, date); err != nil {
		h.log.Error("failed to write created response", "handler", "AddUnavailableDate", "operation", "WriteCreated", "error", err)
	}
}

func (h *AvailabilityHandler) RemoveUnavailableDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")
	date := ps.ByName("date")

	if err := h.service.RemoveUnavailableDate(r.Context(), practitionerID, date); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveUnavailableDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) ListUnavailableDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")

	dates, err := h.service.ListUnavailableDates(r.Context(), practitionerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListUnavailableDates", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, dates); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUnavailableDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/practitioners/:id/availability", h.Get)
	router.PUT("/api/v1/practitioners/:id/availability", h.Update)
	router.GET("/api/v1/practitioners/:id/unavailable-dates", h.ListUnavailableDates)
	router.POST("/api/v1/practitioners/:id/unavailable-dates", h.AddUnavailableDate)
	router.DELETE("/api/v1/practitioners/:id/unavailable-dates/:date", h.RemoveUnavailableDate)
}

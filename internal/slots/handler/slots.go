package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"ayurclinic/internal/slots/service"
	apperrors "ayurclinic/pkg/errors"
	httputil "ayurclinic/pkg/http"
	"ayurclinic/pkg/logger"
)

const defaultNextSlotCount = 5

type SlotHandler struct {
	service service.SlotService
	log     *logger.Logger
}

func NewSlotHandler(service service.SlotService, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log,
	}
}

func (h *SlotHandler) GetDaySchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")
	date := r.URL.Query().Get("date")

	if date == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'date' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDaySchedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	schedule, err := h.service.Generate(r.Context(), practitionerID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDaySchedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDaySchedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) GetNextAvailable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")
	query := r.URL.Query()

	from := query.Get("from")
	if from == "" {
		from = time.Now().UTC().Format("2006-01-02")
	}

	count := defaultNextSlotCount
	if countStr := query.Get("count"); countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid count parameter: %s", countStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetNextAvailable", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	slots, err := h.service.NextAvailable(r.Context(), practitionerID, from, count)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetNextAvailable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetNextAvailable", "operation", "WriteSuccess", "error", err)
	}
}

type validateSlotRequest struct {
	Date      string    `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (h *SlotHandler) ValidateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	practitionerID := ps.ByName("id")

	var req validateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ValidateSlot", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if req.Date == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date, start_time, and end_time are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ValidateSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.Validate(r.Context(), practitionerID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ValidateSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ValidateSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/practitioners/:id/slots", h.GetDaySchedule)
	router.GET("/api/v1/practitioners/:id/slots/next", h.GetNextAvailable)
	router.POST("/api/v1/practitioners/:id/slots/validate", h.ValidateSlot)
}

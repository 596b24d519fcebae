package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/dto"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/medspa-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	update       *ucAppointment.UpdateAppointment
	updateStatus *ucAppointment.UpdateStatus
	remove       *ucAppointment.DeleteAppointment
	get          *ucAppointment.GetAppointment
	list         *ucAppointment.ListAppointments
	availability *ucAppointment.GetAvailability

	log *zap.Logger
}

// NewAppointmentHandler wires the appointment use cases. now may be nil.
func NewAppointmentHandler(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now ucAppointment.Clock,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       ucAppointment.NewCreateAppointment(repo, audit, now),
		update:       ucAppointment.NewUpdateAppointment(repo, audit, now),
		updateStatus: ucAppointment.NewUpdateStatus(repo, audit),
		remove:       ucAppointment.NewDeleteAppointment(repo, audit),
		get:          ucAppointment.NewGetAppointment(repo),
		list:         ucAppointment.NewListAppointments(repo),
		availability: ucAppointment.NewGetAvailability(repo),
		log:          logging.OrNop(log),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentRequest struct {
	StartTime *string `json:"start_time"`
	Medspa    *uint   `json:"medspa"`
	Services  *[]uint `json:"services"`
	Status    *string `json:"status"`
}

type UpdateStatusRequest struct {
	Status *string `json:"status"`
}

func invalidStartTime() error {
	return httperr.FieldError("start_time", "invalid_datetime",
		"Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z].")
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireFields(c, map[string]bool{
		"start_time": req.StartTime != nil,
		"medspa":     req.Medspa != nil,
		"services":   req.Services != nil,
	}) {
		return
	}

	start, err := parseStartTime(*req.StartTime)
	if err != nil {
		httperr.Respond(c, h.log, invalidStartTime())
		return
	}

	in := ucAppointment.CreateAppointmentInput{
		ActorID:    middleware.UserID(c),
		MedspaID:   *req.Medspa,
		StartTime:  start,
		ServiceIDs: *req.Services,
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	ap, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// UPDATE (PUT / PATCH)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && !requireFields(c, map[string]bool{
		"start_time": req.StartTime != nil,
		"medspa":     req.Medspa != nil,
		"services":   req.Services != nil,
	}) {
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		ActorID:  middleware.UserID(c),
		ID:       id,
		MedspaID: req.Medspa,
		Status:   req.Status,
	}
	if req.StartTime != nil {
		start, err := parseStartTime(*req.StartTime)
		if err != nil {
			httperr.Respond(c, h.log, invalidStartTime())
			return
		}
		in.StartTime = &start
	}
	if req.Services != nil {
		in.ServiceIDs = *req.Services
		in.ServicesSet = true
	}

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// UPDATE STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireFields(c, map[string]bool{"status": req.Status != nil}) {
		return
	}

	done := startAction(h.log, c, "update_status")
	ap, err := h.updateStatus.Execute(c.Request.Context(), middleware.UserID(c), id, *req.Status)
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// DELETE / GET / LIST
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.NoContent(c)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	medspaID, ok := queryUint(c, "medspa_id")
	if !ok {
		return
	}

	apps, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		Status:   c.Query("status"),
		Date:     strings.TrimSpace(c.Query("date")),
		MedspaID: medspaID,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentList(apps))
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability answers GET /medspas/:id/availability.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	in := ucAppointment.AvailabilityInput{
		MedspaID: id,
		Date:     c.Query("date"),
	}
	if raw := strings.TrimSpace(c.Query("duration")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperr.Respond(c, h.log, httperr.FieldError("duration", "invalid_duration", "Duration must be an integer number of minutes"))
			return
		}
		in.Duration = &n
	}

	done := startAction(h.log, c, "availability")
	res, err := h.availability.Execute(c.Request.Context(), in)
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

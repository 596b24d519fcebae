package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/dto"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/medspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/validators"
)

type MedspaHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewMedspaHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *MedspaHandler {
	return &MedspaHandler{db: db, audit: audit, log: logging.OrNop(log)}
}

// --------- Requests ---------

type MedspaRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Address      *string `json:"address" binding:"omitempty,max=255"`
	PhoneNumber  *string `json:"phone_number"`
	EmailAddress *string `json:"email_address" binding:"omitempty,max=254"`
}

// apply copies the provided fields onto m, normalizing and validating
// them. Returned fields map is empty when everything is valid.
func (req *MedspaRequest) apply(m *models.Medspa) map[string][]string {
	errs := map[string][]string{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			errs["name"] = []string{"This field may not be blank."}
		}
		m.Name = name
	}
	if req.Address != nil {
		m.Address = strings.TrimSpace(*req.Address)
	}
	if req.PhoneNumber != nil {
		phone := validators.NormalizePhone(*req.PhoneNumber)
		if !validators.IsPhoneValid(phone) {
			errs["phone_number"] = []string{"Phone number must have at least 10 digits"}
		}
		m.PhoneNumber = phone
	}
	if req.EmailAddress != nil {
		email := validators.NormalizeEmail(*req.EmailAddress)
		if !validators.IsEmailValid(email) {
			errs["email_address"] = []string{"Enter a valid email address."}
		}
		m.EmailAddress = email
	}

	return errs
}

// --------- Handlers ---------

func (h *MedspaHandler) List(c *gin.Context) {
	var medspas []models.Medspa
	if err := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&medspas).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	ids := make([]uint, 0, len(medspas))
	for _, m := range medspas {
		ids = append(ids, m.ID)
	}
	counts, err := infraRepo.MedspaCounts(h.db.WithContext(c.Request.Context()), ids)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	out := make([]dto.MedspaDTO, 0, len(medspas))
	for i := range medspas {
		t := counts[medspas[i].ID]
		out = append(out, dto.NewMedspaDTO(&medspas[i], t.TotalServices, t.TotalAppointments))
	}

	httpresp.List(c, out)
}

func (h *MedspaHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	m, ok := h.load(c, id)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, m)
}

func (h *MedspaHandler) Create(c *gin.Context) {
	var req MedspaRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireFields(c, map[string]bool{
		"name":          req.Name != nil,
		"email_address": req.EmailAddress != nil,
	}) {
		return
	}

	var m models.Medspa
	if errs := req.apply(&m); len(errs) > 0 {
		httperr.WriteFields(c, httperr.TypeValidation, "Invalid input.", errs)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&m).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, &m.ID, "medspa_created", "medspa", m.ID, nil)
	h.render(c, http.StatusCreated, &m)
}

// Update serves PUT and PATCH; PUT requires the mandatory fields.
func (h *MedspaHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	m, ok := h.load(c, id)
	if !ok {
		return
	}

	var req MedspaRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && !requireFields(c, map[string]bool{
		"name":          req.Name != nil,
		"email_address": req.EmailAddress != nil,
	}) {
		return
	}

	if errs := req.apply(m); len(errs) > 0 {
		httperr.WriteFields(c, httperr.TypeValidation, "Invalid input.", errs)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(m).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, &m.ID, "medspa_updated", "medspa", m.ID, nil)
	h.render(c, http.StatusOK, m)
}

func (h *MedspaHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Medspa{}, id)
	if res.Error != nil {
		httperr.Respond(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Medspa not found.")
		return
	}

	writeAudit(c, h.audit, nil, "medspa_deleted", "medspa", id, nil)
	httpresp.NoContent(c)
}

// --------- Helpers ---------

func (h *MedspaHandler) load(c *gin.Context, id uint) (*models.Medspa, bool) {
	var m models.Medspa
	if err := h.db.WithContext(c.Request.Context()).First(&m, id).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return nil, false
	}
	return &m, true
}

func (h *MedspaHandler) render(c *gin.Context, status int, m *models.Medspa) {
	counts, err := infraRepo.MedspaCounts(h.db.WithContext(c.Request.Context()), []uint{m.ID})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	t := counts[m.ID]
	c.JSON(status, dto.NewMedspaDTO(m, t.TotalServices, t.TotalAppointments))
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/medspa-scheduler/internal/dto"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/medspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/media"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type ServiceHandler struct {
	db      *gorm.DB
	storage media.Storage
	audit   *audit.Dispatcher
	log     *zap.Logger
}

// NewServiceHandler builds the handler. storage may be nil, in which case
// image uploads answer 503.
func NewServiceHandler(db *gorm.DB, storage media.Storage, audit *audit.Dispatcher, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{db: db, storage: storage, audit: audit, log: logging.OrNop(log)}
}

// --------- Requests ---------

type ServiceRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description"`
	Product     *string          `json:"product" binding:"omitempty,max=200"`
	Supplier    *string          `json:"supplier" binding:"omitempty,max=200"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration"`
	Active      *bool            `json:"active"`
	Medspa      *uint            `json:"medspa"`
	Category    *uint            `json:"category"`
	ServiceType *uint            `json:"service_type"`
}

func (req *ServiceRequest) required() map[string]bool {
	return map[string]bool{
		"name":         req.Name != nil,
		"price":        req.Price != nil,
		"duration":     req.Duration != nil,
		"medspa":       req.Medspa != nil,
		"category":     req.Category != nil,
		"service_type": req.ServiceType != nil,
	}
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Preload("Medspa").
		Preload("Category").
		Preload("ServiceType")

	for _, f := range []struct{ param, column string }{
		{"medspa_id", "medspa_id"},
		{"category_id", "category_id"},
		{"service_type_id", "service_type_id"},
	} {
		v, ok := queryUint(c, f.param)
		if !ok {
			return
		}
		if v != nil {
			q = q.Where(f.column+" = ?", *v)
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("active"))) {
	case "true", "1":
		q = q.Where("active = ?", true)
	case "false", "0":
		q = q.Where("active = ?", false)
	}

	for _, f := range []struct{ param, op string }{
		{"min_price", ">="},
		{"max_price", "<="},
	} {
		raw := strings.TrimSpace(c.Query(f.param))
		if raw == "" {
			continue
		}
		p, err := decimal.NewFromString(raw)
		if err != nil {
			httperr.WriteFields(c, httperr.TypeValidation, "Invalid query parameter: "+f.param,
				map[string][]string{f.param: {"A valid number is required."}})
			return
		}
		q = q.Where("price "+f.op+" ?", p)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	ids := make([]uint, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	counts, err := infraRepo.ServiceAppointmentCounts(h.db.WithContext(c.Request.Context()), ids)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	out := make([]dto.ServiceDTO, 0, len(services))
	for i := range services {
		out = append(out, dto.NewServiceDTO(&services[i], counts[services[i].ID]))
	}
	httpresp.List(c, out)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, ok := h.load(c, id)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, s)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireFields(c, req.required()) {
		return
	}

	s := models.Service{Active: true}
	if err := h.apply(c, &req, &s); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Omit(clause.Associations).
		Create(&s).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, &s.MedspaID, "service_created", "service", s.ID, map[string]any{
		"price":    s.Price.StringFixed(2),
		"duration": s.Duration,
	})
	h.render(c, http.StatusCreated, &s)
}

// Update serves PUT and PATCH. A price or duration change is propagated
// to the totals of every appointment that includes the service.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, ok := h.load(c, id)
	if !ok {
		return
	}

	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && !requireFields(c, req.required()) {
		return
	}

	oldPrice, oldDuration := s.Price, s.Duration
	if err := h.apply(c, &req, s); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(s).Error; err != nil {
			return err
		}
		if s.Price.Equal(oldPrice) && s.Duration == oldDuration {
			return nil
		}
		return infraRepo.RecomputeTotalsForService(tx, s.ID)
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, &s.MedspaID, "service_updated", "service", s.ID, nil)
	h.render(c, http.StatusOK, s)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, ok := h.load(c, id)
	if !ok {
		return
	}

	booked, err := infraRepo.ServiceIsBooked(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	if booked {
		httperr.Respond(c, h.log, httperr.Conflict(
			"service_in_use",
			"Service is referenced by appointments; deactivate it instead",
		))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Service{}, id).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, &s.MedspaID, "service_deleted", "service", id, nil)
	httpresp.NoContent(c)
}

// UploadImage stores a webp rendition of the uploaded image and records
// its public URL on the service.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if h.storage == nil {
		httperr.Respond(c, h.log, httperr.Unavailable("storage_not_configured", "Image storage is not configured"))
		return
	}
	s, ok := h.load(c, id)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.WriteFields(c, httperr.TypeValidation, "Missing required fields",
			map[string][]string{"image": {fieldRequired}})
		return
	}
	if fh.Size > media.MaxUpload {
		httperr.Write(c, http.StatusRequestEntityTooLarge, httperr.TypeTooLarge,
			"Image exceeds "+strconv.Itoa(media.MaxUpload>>20)+" MiB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer f.Close()

	body, err := media.ToWebP(f, media.MaxSide)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			httperr.Respond(c, h.log, httperr.FieldError("image", "invalid_image", "Upload a valid jpeg, png, gif or webp image"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	url, err := h.storage.Put(c.Request.Context(), media.ServiceImageKey(s.ID), "image/webp", body)
	if err != nil {
		h.log.Error("image upload failed", zap.Uint("service_id", s.ID), zap.Error(err))
		httperr.Respond(c, h.log, httperr.Unavailable("storage_error", "Image storage is unavailable"))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Where("id = ?", s.ID).
		Update("image_url", url).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	s.ImageURL = url

	writeAudit(c, h.audit, &s.MedspaID, "service_image_uploaded", "service", s.ID, map[string]any{"image_url": url})
	h.render(c, http.StatusOK, s)
}

// --------- Helpers ---------

func (h *ServiceHandler) load(c *gin.Context, id uint) (*models.Service, bool) {
	var s models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Medspa").
		Preload("Category").
		Preload("ServiceType").
		First(&s, id).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return nil, false
	}
	return &s, true
}

// apply copies the request onto s and checks the catalog rules against
// the resulting state, so a partial update is validated as a whole.
func (h *ServiceHandler) apply(c *gin.Context, req *ServiceRequest, s *models.Service) error {
	db := h.db.WithContext(c.Request.Context())

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return httperr.FieldError("name", "blank", "This field may not be blank.")
		}
		s.Name = name
	}
	if req.Description != nil {
		s.Description = strings.TrimSpace(*req.Description)
	}
	if req.Product != nil {
		s.Product = strings.TrimSpace(*req.Product)
	}
	if req.Supplier != nil {
		s.Supplier = strings.TrimSpace(*req.Supplier)
	}
	if req.Active != nil {
		s.Active = *req.Active
	}

	if req.Price != nil {
		if err := catalog.ValidatePrice(*req.Price); err != nil {
			return err
		}
		s.Price = req.Price.Round(2)
	}
	if req.Duration != nil {
		if err := catalog.ValidateDuration(*req.Duration); err != nil {
			return err
		}
		s.Duration = *req.Duration
	}

	if req.Medspa != nil {
		var m models.Medspa
		if err := db.First(&m, *req.Medspa).Error; err != nil {
			return refError(err, "medspa", *req.Medspa)
		}
		s.MedspaID, s.Medspa = m.ID, m
	}
	if req.Category != nil {
		var cat models.ServiceCategory
		if err := db.First(&cat, *req.Category).Error; err != nil {
			return refError(err, "category", *req.Category)
		}
		s.CategoryID, s.Category = cat.ID, cat
	}
	if req.ServiceType != nil {
		var t models.ServiceType
		if err := db.First(&t, *req.ServiceType).Error; err != nil {
			return refError(err, "service_type", *req.ServiceType)
		}
		s.ServiceTypeID, s.ServiceType = t.ID, t
	}

	if req.Category != nil || req.ServiceType != nil {
		return catalog.ValidateTypeCategory(s.CategoryID, s.ServiceType.CategoryID)
	}
	return nil
}

func (h *ServiceHandler) render(c *gin.Context, status int, s *models.Service) {
	counts, err := infraRepo.ServiceAppointmentCounts(h.db.WithContext(c.Request.Context()), []uint{s.ID})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	c.JSON(status, dto.NewServiceDTO(s, counts[s.ID]))
}

func refError(err error, field string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalidPK(field, id)
	}
	return err
}

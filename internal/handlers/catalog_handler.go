package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/dto"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

// ======================================================
// SERVICE CATEGORIES
// ======================================================

type CategoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewCategoryHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{db: db, audit: audit, log: logging.OrNop(log)}
}

type CategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	var cats []models.ServiceCategory
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&cats).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, cats)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cat models.ServiceCategory
	if err := h.db.WithContext(c.Request.Context()).First(&cat, id).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}

	var cat models.ServiceCategory
	if !applyNamed(c, &cat.Name, &cat.Description, req.Name, req.Description) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cat).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, nil, "category_created", "service_category", cat.ID, nil)
	httpresp.Created(c, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var cat models.ServiceCategory
	if err := h.db.WithContext(c.Request.Context()).First(&cat, id).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && !requireFields(c, map[string]bool{"name": req.Name != nil}) {
		return
	}
	if !applyNamed(c, &cat.Name, &cat.Description, req.Name, req.Description) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&cat).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, nil, "category_updated", "service_category", cat.ID, nil)
	httpresp.OK(c, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.ServiceCategory{}, id)
	if res.Error != nil {
		httperr.Respond(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Service category not found.")
		return
	}

	writeAudit(c, h.audit, nil, "category_deleted", "service_category", id, nil)
	httpresp.NoContent(c)
}

// ======================================================
// SERVICE TYPES
// ======================================================

type ServiceTypeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewServiceTypeHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *ServiceTypeHandler {
	return &ServiceTypeHandler{db: db, audit: audit, log: logging.OrNop(log)}
}

type ServiceTypeRequest struct {
	Category    *uint   `json:"category"`
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

func (h *ServiceTypeHandler) List(c *gin.Context) {
	categoryID, ok := queryUint(c, "category_id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var types []models.ServiceType
	if err := q.Order("id ASC").Find(&types).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	out := make([]dto.ServiceTypeDTO, 0, len(types))
	for i := range types {
		out = append(out, dto.NewServiceTypeDTO(&types[i]))
	}
	httpresp.List(c, out)
}

func (h *ServiceTypeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, ok := h.load(c, id)
	if !ok {
		return
	}
	httpresp.OK(c, dto.NewServiceTypeDTO(t))
}

func (h *ServiceTypeHandler) Create(c *gin.Context) {
	var req ServiceTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireFields(c, map[string]bool{
		"name":     req.Name != nil,
		"category": req.Category != nil,
	}) {
		return
	}

	var t models.ServiceType
	if !applyNamed(c, &t.Name, &t.Description, req.Name, req.Description) {
		return
	}
	if !h.setCategory(c, &t, *req.Category) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Category").Create(&t).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, nil, "service_type_created", "service_type", t.ID, nil)
	httpresp.Created(c, dto.NewServiceTypeDTO(&t))
}

func (h *ServiceTypeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, ok := h.load(c, id)
	if !ok {
		return
	}

	var req ServiceTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && !requireFields(c, map[string]bool{
		"name":     req.Name != nil,
		"category": req.Category != nil,
	}) {
		return
	}
	if !applyNamed(c, &t.Name, &t.Description, req.Name, req.Description) {
		return
	}
	if req.Category != nil && !h.setCategory(c, t, *req.Category) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Category").Save(t).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	writeAudit(c, h.audit, nil, "service_type_updated", "service_type", t.ID, nil)
	httpresp.OK(c, dto.NewServiceTypeDTO(t))
}

func (h *ServiceTypeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.ServiceType{}, id)
	if res.Error != nil {
		httperr.Respond(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Service type not found.")
		return
	}

	writeAudit(c, h.audit, nil, "service_type_deleted", "service_type", id, nil)
	httpresp.NoContent(c)
}

func (h *ServiceTypeHandler) load(c *gin.Context, id uint) (*models.ServiceType, bool) {
	var t models.ServiceType
	if err := h.db.WithContext(c.Request.Context()).Preload("Category").First(&t, id).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return nil, false
	}
	return &t, true
}

func (h *ServiceTypeHandler) setCategory(c *gin.Context, t *models.ServiceType, categoryID uint) bool {
	var cat models.ServiceCategory
	if err := h.db.WithContext(c.Request.Context()).First(&cat, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, h.log, invalidPK("category", categoryID))
			return false
		}
		httperr.Respond(c, h.log, err)
		return false
	}
	t.CategoryID = cat.ID
	t.Category = cat
	return true
}

// ======================================================
// HELPERS
// ======================================================

// applyNamed sets the name/description pair shared by catalog entities.
func applyNamed(c *gin.Context, name, description *string, reqName, reqDescription *string) bool {
	if reqName != nil {
		v := strings.TrimSpace(*reqName)
		if v == "" {
			httperr.WriteFields(c, httperr.TypeValidation, "Invalid input.",
				map[string][]string{"name": {"This field may not be blank."}})
			return false
		}
		*name = v
	}
	if reqDescription != nil {
		*description = strings.TrimSpace(*reqDescription)
	}
	return true
}

func invalidPK(field string, id uint) error {
	return httperr.FieldError(field, "does_not_exist",
		fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditLogsHandler(db *gorm.DB, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, log: logging.OrNop(log)}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	medspaID, ok := queryUint(c, "medspa_id")
	if !ok {
		return
	}

	// --------------------------------------------------
	// Filters
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if medspaID != nil {
		q = q.Where("medspa_id = ?", *medspaID)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	loc := timezone.Business()
	if fromStr != "" {
		if from, err := timezone.ParseDate(fromStr); err == nil {
			start, _ := timezone.DayBounds(from, loc)
			q = q.Where("created_at >= ?", start)
		}
	}
	if toStr != "" {
		if to, err := timezone.ParseDate(toStr); err == nil {
			_, end := timezone.DayBounds(to, loc)
			q = q.Where("created_at < ?", end)
		}
	}

	// --------------------------------------------------
	// Total + page
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}

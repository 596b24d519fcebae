package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type MeHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewMeHandler(db *gorm.DB, log *zap.Logger) *MeHandler {
	return &MeHandler{db: db, log: logging.OrNop(log)}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		httperr.Unauthorized(c, "Authentication credentials were not provided.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, *userID).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	permissions := []string{}
	for _, p := range []string{
		middleware.PermCreateMedspa,
		middleware.PermUpdateMedspa,
		middleware.PermCreateService,
		middleware.PermCreateAppointment,
		middleware.PermUpdateAppointment,
	} {
		if middleware.HasPermission(user.Role, p) {
			permissions = append(permissions, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"role":        user.Role,
		"active":      user.Active,
		"permissions": permissions,
	})
}

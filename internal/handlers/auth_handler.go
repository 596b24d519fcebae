package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/config"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, log: logging.OrNop(log), now: time.Now}
}

// --------- Requests ---------

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

const noActiveAccount = "No active account found with the given credentials"

// --------- Handlers ---------

func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("username = ?", username).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, noActiveAccount)
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, noActiveAccount)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, noActiveAccount)
		return
	}

	now := h.now()
	access, err := h.sign(&user, middleware.TokenAccess, h.config.AccessTokenTTL, now)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	refresh, err := h.sign(&user, middleware.TokenRefresh, h.config.RefreshTokenTTL, now)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.log.Info("token issued", zap.Uint("user_id", user.ID))

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, err := middleware.ParseToken(h.config.JWTSecret, req.Refresh, middleware.TokenRefresh)
	if err != nil {
		httperr.Unauthorized(c, "Token is invalid or expired")
		return
	}
	userID, _ := claims.UserID()

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "Token is invalid or expired")
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}
	if !user.Active {
		httperr.Unauthorized(c, noActiveAccount)
		return
	}

	access, err := h.sign(&user, middleware.TokenAccess, h.config.AccessTokenTTL, h.now())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// --------- JWT ---------

func (h *AuthHandler) sign(user *models.User, typ string, ttl time.Duration, now time.Time) (string, error) {
	return middleware.SignToken(h.config.JWTSecret, user.ID, user.Username, user.Role, typ, ttl, now)
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

const (
	PermCreateMedspa      = "can_create_medspa"
	PermUpdateMedspa      = "can_update_medspa"
	PermCreateService     = "can_create_service"
	PermCreateAppointment = "can_create_appointment"
	PermUpdateAppointment = "can_update_appointment"
)

// admins hold every permission
var rolePermissions = map[string]map[string]bool{
	models.RoleStaff: {
		PermCreateAppointment: true,
		PermUpdateAppointment: true,
	},
}

func HasPermission(role, perm string) bool {
	if role == models.RoleAdmin {
		return true
	}
	return rolePermissions[role][perm]
}

func RequirePermissions(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, p := range perms {
			if !HasPermission(role, p) {
				forbid(c)
				return
			}
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != models.RoleAdmin {
			forbid(c)
			return
		}
		c.Next()
	}
}

func forbid(c *gin.Context) {
	httperr.Forbidden(c, "You do not have permission to perform this action.")
}

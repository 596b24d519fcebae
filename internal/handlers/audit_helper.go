package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/middleware"
)

// writeAudit queues an audit event attributed to the authenticated user.
func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	medspaID *uint,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		MedspaID: medspaID,
		UserID:   middleware.UserID(c),
		Action:   action,
		Entity:   entity,
		EntityID: audit.UintPtr(entityID),
		Metadata: meta,
	})
}

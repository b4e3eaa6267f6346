package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/database"
	apierrors "github.com/jleignadier/nueva-generacion-sub000/internal/errors"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
)

// RequireEvent loads the event named by the :id parameter into context.
func RequireEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventIDStr := c.Param("id")
		eventID, err := strconv.ParseUint(eventIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid event ID")
			c.Abort()
			return
		}

		var event models.Event
		if err := database.GetDB().First(&event, eventID).Error; err != nil {
			apierrors.NotFound(c, "Event not found")
			c.Abort()
			return
		}

		c.Set("event", event)
		c.Next()
	}
}

// GetEvent retrieves the event loaded by RequireEvent.
func GetEvent(c *gin.Context) (*models.Event, bool) {
	v, exists := c.Get("event")
	if !exists {
		return nil, false
	}
	event, ok := v.(models.Event)
	if !ok {
		return nil, false
	}
	return &event, true
}

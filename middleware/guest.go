package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const GuestHeader = "X-Guest-ID"

// GuestMiddleware identifies anonymous shoppers by the X-Guest-ID header,
// issuing a fresh id (echoed back in the response header) when it is missing
// or malformed.
func GuestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.GetHeader(GuestHeader)
		if _, err := uuid.Parse(guestID); err != nil {
			guestID = uuid.NewString()
		}
		c.Set("guest_id", guestID)
		c.Header(GuestHeader, guestID)
		c.Next()
	}
}

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const staffIDKey = contextKey("staffID")

// WithStaffID returns a copy of ctx carrying the authenticated staff member's id.
func WithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDKey, staffID)
}

// GetStaffIDFromContext retrieves the authenticated staff id from the request context.
// It returns the id and a boolean indicating if it was found.
func GetStaffIDFromContext(c *gin.Context) (string, bool) {
	staffID, ok := c.Request.Context().Value(staffIDKey).(string)
	if !ok || staffID == "" {
		return "", false
	}
	return staffID, true
}

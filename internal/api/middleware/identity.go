package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader carries the authenticated user's id, set by the
	// perimeter in front of this service
	UserIDHeader = "X-User-ID"

	// UserIDKey is the key used to store the user id in the context
	UserIDKey = "user_id"
)

// Identity middleware requires a valid user id on every request and
// makes it available to handlers
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			abortUnauthorized(c, "missing "+UserIDHeader+" header")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			abortUnauthorized(c, UserIDHeader+" header is not a valid UUID")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(UserIDKey); exists {
		if userID, ok := v.(uuid.UUID); ok {
			return userID, true
		}
	}
	return uuid.Nil, false
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}

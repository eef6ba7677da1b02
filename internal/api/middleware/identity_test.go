package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityRouter(captured *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if captured != nil && ok {
			*captured = userID
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestIdentity(t *testing.T) {
	t.Run("valid user id passes through", func(t *testing.T) {
		var captured uuid.UUID
		router := newIdentityRouter(&captured)
		userID := uuid.New()

		req, err := http.NewRequest(http.MethodGet, "/test", nil)
		require.NoError(t, err)
		req.Header.Set(UserIDHeader, userID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, captured)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		router := newIdentityRouter(nil)

		req, err := http.NewRequest(http.MethodGet, "/test", nil)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("malformed user id is rejected", func(t *testing.T) {
		router := newIdentityRouter(nil)

		req, err := http.NewRequest(http.MethodGet, "/test", nil)
		require.NoError(t, err)
		req.Header.Set(UserIDHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	userID, ok := GetUserID(c)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, userID)
}

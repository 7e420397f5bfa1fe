package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// serve runs one request through RequestID and returns the id the handler
// saw along with the response header.
func serve(t *testing.T, header string) (seen, echoed string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/recipes", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return seen, w.Header().Get(RequestIDHeader)
}

func TestRequestID_WhenClientProvidesRequestID_ThenUsesProvidedID(t *testing.T) {
	seen, echoed := serve(t, "client-provided-request-id")

	assert.Equal(t, "client-provided-request-id", seen)
	assert.Equal(t, seen, echoed)
}

func TestRequestID_WhenHeaderMissingOrUnusable_ThenGeneratesUUID(t *testing.T) {
	for name, header := range map[string]string{
		"missing":  "",
		"blank":    "   ",
		"too long": strings.Repeat("x", maxRequestIDLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			seen, echoed := serve(t, header)

			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			assert.Equal(t, seen, echoed)
		})
	}
}

func TestRequestID_WhenMultipleRequests_ThenEachGetsDifferentID(t *testing.T) {
	first, _ := serve(t, "")
	second, _ := serve(t, "")

	assert.NotEqual(t, first, second)
}

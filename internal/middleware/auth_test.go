package middleware

import (
	"mlda_backend/internal/model"
	"mlda_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAuthAndRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const secret = "mw-secret"

	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).UserID)
	})
	r.GET("/teach", AuthMiddleware(secret), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	student, _ := util.GenerateJWT("s1", model.Student, secret, time.Hour)
	admin, _ := util.GenerateJWT("a1", model.Admin, secret, time.Hour)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "garbage", http.StatusUnauthorized},
		{"valid token", "/me", student, http.StatusOK},
		{"wrong role", "/teach", student, http.StatusForbidden},
		{"admin passes any role", "/teach", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("%s = %d, want %d", tt.path, w.Code, tt.want)
			}
		})
	}
}

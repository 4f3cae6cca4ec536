package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
	"github.com/samber/lo"
)

// NewCORS builds the CORS handler from a comma separated origin list
func NewCORS(allowedOrigins string) *cors.Cors {
	origins := lo.Compact(lo.Map(strings.Split(allowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         600,
	})
}

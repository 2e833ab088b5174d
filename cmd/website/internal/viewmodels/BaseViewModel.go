package viewmodels

import (
	"context"
	"net/http"

	"github.com/danielcfuentes/album-studio/pkg/models"
)

type contextKey string

const adminContextKey contextKey = "admin"

/*
Message is the body of endpoints that only report success.
*/
type Message struct {
	Message string `json:"message"`
}

func WithAdmin(ctx context.Context, admin *models.AdminSession) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

func GetAdminFromContext(r *http.Request) *models.AdminSession {
	if result, ok := r.Context().Value(adminContextKey).(*models.AdminSession); ok {
		return result
	}

	return &models.AdminSession{}
}

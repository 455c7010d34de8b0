package services

import (
	"context"

	"quill/internal/domain/models"
)

// EditorAuthorizer decides who may use the admin editor.
// Services stay unaware of it; the HTTP layer checks once per request.
type EditorAuthorizer interface {
	// CanEdit returns nil when the caller may create and change articles,
	// domain.ErrForbidden otherwise.
	CanEdit(ctx context.Context, claims *models.Claims) error
}

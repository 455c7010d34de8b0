package auth

import (
	"context"
	"fmt"
	"strings"

	"quill/internal/domain"
	"quill/internal/domain/models"
)

// AllowListAuthorizer implements EditorAuthorizer with a fixed set of
// editor emails. Any verified user whose email is on the list is an editor;
// everyone else only sees the public site.
type AllowListAuthorizer struct {
	emails map[string]struct{}
}

// NewAllowListAuthorizer creates an authorizer over emails (case-insensitive).
func NewAllowListAuthorizer(emails []string) *AllowListAuthorizer {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = struct{}{}
		}
	}
	return &AllowListAuthorizer{emails: set}
}

// CanEdit checks the caller's email against the allow-list
func (a *AllowListAuthorizer) CanEdit(ctx context.Context, claims *models.Claims) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	if _, ok := a.emails[strings.ToLower(claims.Email)]; !ok {
		return fmt.Errorf("%w: %s is not an editor", domain.ErrForbidden, claims.GetUserID())
	}
	return nil
}

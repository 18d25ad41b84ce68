package screen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// ErrLoginFailed is returned for rejected credentials.
var ErrLoginFailed = errors.New("login failed")

// LoginScreen authenticates an administrator.
type LoginScreen struct {
	deps    Deps
	Session *Session
}

// NewLoginScreen visits the login page.
func NewLoginScreen(nav *Navigator, deps Deps) *LoginScreen {
	return &LoginScreen{deps: deps.withDefaults("login"), Session: nav.Visit("login")}
}

// Submit posts the credentials and returns the admin record. A 401 is
// reported as ErrLoginFailed.
func (s *LoginScreen) Submit(ctx context.Context, creds types.Credentials) (types.Admin, error) {
	if err := form.Validate(creds); err != nil {
		return types.Admin{}, s.deps.fail("log in", err)
	}
	var admin types.Admin
	err := s.deps.Client.Do(ctx, http.MethodPost, api.LoginPath, creds, &admin)
	if api.StatusOf(err) == http.StatusUnauthorized {
		err = fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if err != nil {
		return types.Admin{}, s.deps.fail("log in", err)
	}
	if !s.Session.Current() {
		return types.Admin{}, types.ErrStale
	}
	return admin, nil
}

// Package identity talks to the identity collaborator: it issues and
// validates the bearer credential and supplies the user identity record.
package identity

import (
	"context"
	"fmt"
	"net/url"

	"github.com/acastellon/shopfront/internal/api"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

type Client struct {
	api  *api.Client
	logg *logger.Logger
}

func NewClient(apiClient *api.Client, logg *logger.Logger) (*Client, error) {
	if apiClient == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Client{api: apiClient, logg: logg}, nil
}

// SignIn exchanges credentials for a bearer token and the user record.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, *types.User, error) {
	if err := validateStruct(creds); err != nil {
		return "", nil, err
	}

	var resp loginResponse
	if err := c.api.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing token")
	}
	return resp.Token, resp.userRecord(), nil
}

// SocialSignIn exchanges a third-party identity token for a session.
func (c *Client) SocialSignIn(ctx context.Context, provider, idToken string) (string, *types.User, error) {
	if provider == "" || idToken == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "provider and id token are required")
	}

	query := url.Values{}
	query.Set("idToken", idToken)
	query.Set("provider", provider)

	var resp loginResponse
	if err := c.api.Post(ctx, "/auth/social-login?"+query.Encode(), nil, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeDependency, "social login response missing token")
	}
	return resp.Token, resp.userRecord(), nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return c.api.Post(ctx, "/auth/register", req, nil)
}

// CurrentUser validates the active credential against the backend and
// returns the identity it resolves to.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.api.Get(ctx, "/auth/current-user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the session server-side. Best effort: local credential
// cleanup does not depend on it succeeding.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		c.logg.Warn(ctx, "server-side sign out failed: "+err.Error())
		return err
	}
	return nil
}

// ForgotPassword starts a password reset for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("email", email)
	return c.api.Post(ctx, "/auth/forgot-password?"+query.Encode(), nil, nil)
}

// ResetPassword completes a password reset with the emailed code.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("email", req.Email)
	query.Set("code", req.Code)
	query.Set("newPassword", req.NewPassword)
	return c.api.Post(ctx, "/auth/reset-password?"+query.Encode(), nil, nil)
}

type loginResponse struct {
	Token     string `json:"token"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}

func (r loginResponse) userRecord() *types.User {
	return &types.User{ID: r.ID, Email: r.Email, FirstName: r.FirstName}
}

// Package auth is the resource client for the backend's /auth surface.
//
// Every operation here follows the soft contract: expected failures
// (network errors, rejected credentials, missing endpoints) come back as a
// Result with Success=false and a human-readable message, never as an
// error. Callers branch on Result.Success.
package auth

import (
	"context"
	"encoding/json"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/session"
	"github.com/okian/arena/internal/transport"
	"github.com/okian/arena/pkg/logger"
)

// API endpoints.
const (
	loginPath      = "/auth/login"
	loginUserPath  = "/auth/login/user"
	loginAdminPath = "/auth/login/admin"
	registerPath   = "/auth/register"
	logoutPath     = "/auth/logout"
	refreshPath    = "/auth/refresh"
)

// Fallback messages for failures that produced no server detail.
const (
	msgLoginFailed     = "Unable to login. Please verify API URL and credentials."
	msgRegisterFailed  = "Unable to register. Please try again."
	msgLoggedOutLocal  = "Logged out locally"
	msgLoggedOut       = "Logged out"
	msgRefreshMissing  = "Refresh endpoint is unavailable"
	msgLoginSucceeded  = "Login successful"
	msgLoginRejected   = "Login failed"
	msgTokenRefreshed  = "Token refreshed"
	msgSessionNotSaved = "Signed in, but the session could not be saved locally"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Result is the normalized outcome of an auth operation. Data is set only
// when the backend produced a usable (token, user) pair.
type Result struct {
	Success bool
	Message string
	Data    *session.Session
}

// Client exposes the auth operations.
type Client struct {
	api   *transport.Client
	store session.Store
	log   logger.Logger
}

// New creates an auth client on top of the shared transport and session store.
func New(api *transport.Client, store session.Store) *Client {
	return &Client{
		api:   api,
		store: store,
		log:   logger.Named("auth"),
	}
}

// Login authenticates against the generic endpoint accepting either role.
func (c *Client) Login(ctx context.Context, creds Credentials) Result {
	return c.loginWith(ctx, loginPath, creds)
}

// LoginAsUser authenticates against the user-only endpoint.
func (c *Client) LoginAsUser(ctx context.Context, creds Credentials) Result {
	return c.loginWith(ctx, loginUserPath, creds)
}

// LoginAsAdmin authenticates against the admin-only endpoint.
func (c *Client) LoginAsAdmin(ctx context.Context, creds Credentials) Result {
	return c.loginWith(ctx, loginAdminPath, creds)
}

func (c *Client) loginWith(ctx context.Context, path string, creds Credentials) Result {
	payload, err := c.api.Post(ctx, path, creds)
	if err != nil {
		c.log.Warn(ctx, "login failed", logger.String("path", path), logger.Error(err))
		return Result{Success: false, Message: failureMessage(err, msgLoginFailed)}
	}

	result := normalize(payload, msgLoginSucceeded, msgLoginRejected)
	c.persist(ctx, &result)
	return result
}

// Register creates a new account. The backend responds without a token, so
// a session is only persisted should the response ever carry one.
func (c *Client) Register(ctx context.Context, req RegisterRequest) Result {
	payload, err := c.api.Post(ctx, registerPath, req)
	if err != nil {
		c.log.Warn(ctx, "registration failed", logger.Error(err))
		return Result{Success: false, Message: failureMessage(err, msgRegisterFailed)}
	}

	result := normalize(payload, "Registration successful", "Registration failed")
	c.persist(ctx, &result)
	return result
}

// Logout tells the backend best-effort and always clears the local session.
// Logging out is a local guarantee, not contingent on server acknowledgment.
func (c *Client) Logout(ctx context.Context) Result {
	payload, err := c.api.Post(ctx, logoutPath, nil)

	c.store.Clear()

	if err != nil {
		c.log.Warn(ctx, "logout request failed; session cleared locally", logger.Error(err))
		return Result{Success: true, Message: msgLoggedOutLocal}
	}

	var body struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	result := Result{Success: true, Message: msgLoggedOut}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Success != nil {
			result.Success = *body.Success
		}
		if body.Message != "" {
			result.Message = body.Message
		}
	}
	return result
}

// RefreshToken asks the backend for a fresh token. The endpoint is not yet
// implemented server-side, so failures are expected; the existing session
// is left untouched on any failure.
func (c *Client) RefreshToken(ctx context.Context) Result {
	payload, err := c.api.Post(ctx, refreshPath, nil)
	if err != nil {
		c.log.Warn(ctx, "token refresh failed; keeping current session", logger.Error(err))
		return Result{Success: false, Message: msgRefreshMissing}
	}

	result := normalize(payload, msgTokenRefreshed, msgRefreshMissing)
	if result.Success && result.Data != nil && result.Data.Token != "" {
		// The refresh response may omit the user; reuse the stored one.
		user := result.Data.User
		if user.ID == "" {
			if stored := c.store.StoredUser(); stored != nil {
				user = *stored
				result.Data.User = user
			}
		}
		if err := c.store.SetSession(result.Data.Token, user); err != nil {
			c.log.Error(ctx, "failed to persist refreshed session", logger.Error(err))
		}
	}
	return result
}

// persist stores the session when a normalized result carries a token.
func (c *Client) persist(ctx context.Context, result *Result) {
	if !result.Success || result.Data == nil || result.Data.Token == "" {
		return
	}
	if err := c.store.SetSession(result.Data.Token, result.Data.User); err != nil {
		c.log.Error(ctx, "failed to persist session", logger.Error(err))
		result.Message = msgSessionNotSaved
	}
}

// failureMessage prefers a server-supplied detail over the generic fallback.
func failureMessage(err error, fallback string) string {
	if statusErr, ok := transport.AsStatus(err); ok && statusErr.Detail != "" {
		return statusErr.Detail
	}
	return fallback
}

// wireUser matches the user object in both response shapes.
type wireUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// wirePayload matches the closed set of known login-family response shapes:
// the nested {success, message, data: {token, user}} and the flatter
// {success, token, user, expires_at} the backend currently returns.
type wirePayload struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    *wireUser `json:"user"`
	Data    *struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	} `json:"data"`
}

// normalize reconciles both known shapes into one Result. The nested shape
// is used as-is; the flat shape is lifted with name defaulting to "User"
// and role to "user".
func normalize(payload []byte, successMsg, failureMsg string) Result {
	var body wirePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return Result{Success: false, Message: failureMsg}
	}

	result := Result{Success: body.Success}
	if body.Message != "" {
		result.Message = body.Message
	} else if body.Success {
		result.Message = successMsg
	} else {
		result.Message = failureMsg
	}

	switch {
	case body.Data != nil:
		result.Data = &session.Session{
			Token: body.Data.Token,
			User:  toUser(body.Data.User, false),
		}
	case body.Token != "" && body.User != nil:
		result.Data = &session.Session{
			Token: body.Token,
			User:  toUser(*body.User, true),
		}
	}
	return result
}

// toUser converts a wire user, optionally applying the flat-shape defaults.
func toUser(w wireUser, applyDefaults bool) model.User {
	user := model.User{
		ID:    w.ID,
		Email: w.Email,
		Name:  w.Name,
		Role:  w.Role,
	}
	if applyDefaults {
		if user.Name == "" {
			user.Name = "User"
		}
		if user.Role == "" {
			user.Role = model.RoleUser
		}
	}
	return user
}

package movieverse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	pathCSRF          = "api/auth/csrf/"
	pathMe            = "api/auth/me/"
	pathLogin         = "api/auth/login/"
	pathLogout        = "api/auth/logout/"
	pathRegister      = "api/auth/register/"
	pathCheckUsername = "api/auth/check-username/"
	pathForgot        = "api/auth/forgot-password/"
	pathVerifyOTP     = "api/auth/verify-otp/"
	pathReset         = "api/auth/reset-password/"
	pathEmail         = "api/auth/getEmail/"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CSRF primes the anti-forgery cookie.
func (c *Client) CSRF(ctx context.Context) error {
	if err := c.do(ctx, call{method: http.MethodGet, rel: &url.URL{Path: pathCSRF}, expectAuthFailure: true}, nil); err != nil {
		return fmt.Errorf("fetch csrf token: %w", err)
	}
	return nil
}

// Me returns the user bound to the current session cookie.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, call{method: http.MethodGet, rel: &url.URL{Path: pathMe}, expectAuthFailure: true}, &user); err != nil {
		return User{}, fmt.Errorf("fetch current user: %w", err)
	}
	if strings.TrimSpace(user.Username) == "" {
		return User{}, fmt.Errorf("fetch current user: %w", ErrUnauthorized)
	}
	return user, nil
}

// Login submits credentials. Callers fetch a fresh CSRF token first.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, call{method: http.MethodPost, rel: &url.URL{Path: pathLogin}, body: body, expectAuthFailure: true}, nil); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Logout ends the server session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, call{method: http.MethodPost, rel: &url.URL{Path: pathLogout}, expectAuthFailure: true}, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ValidateRegistration checks the form locally and reports problems keyed by
// the same field names the backend uses.
func ValidateRegistration(req RegisterRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], describeRule(fe))
	}
	return fields
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	}
	return "Invalid value."
}

// Register creates an account. Validation problems, local or from the
// backend, come back as FieldErrors.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := ValidateRegistration(req); err != nil {
		return err
	}
	if err := c.post(ctx, pathRegister, req, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			return apiErr.Fields
		}
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// UsernameAvailable asks whether name is free.
func (c *Client) UsernameAvailable(ctx context.Context, name string) (bool, error) {
	var resp struct {
		Available bool `json:"available"`
	}
	if err := c.get(ctx, pathCheckUsername, url.Values{"username": {name}}, &resp); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return resp.Available, nil
}

// ForgotPassword asks the backend to mail a one-time code.
func (c *Client) ForgotPassword(ctx context.Context, username string) error {
	if err := c.post(ctx, pathForgot, map[string]string{"username": username}, nil); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// VerifyOTP checks the one-time code.
func (c *Client) VerifyOTP(ctx context.Context, username, otp string) error {
	body := map[string]string{"username": username, "otp": strings.TrimSpace(otp)}
	if err := c.post(ctx, pathVerifyOTP, body, nil); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}

// ResetPassword sets a new password after a verified code.
func (c *Client) ResetPassword(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, pathReset, body, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Email returns the address on file for username.
func (c *Client) Email(ctx context.Context, username string) (string, error) {
	var resp struct {
		Email string `json:"email"`
	}
	if err := c.post(ctx, pathEmail, map[string]string{"username": username}, &resp); err != nil {
		return "", fmt.Errorf("fetch email: %w", err)
	}
	return resp.Email, nil
}

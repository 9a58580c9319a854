package castsdk

import (
	"context"
	"net/http"
)

// Signup registers a student account. It cannot sign in until approved.
func (c *Client) Signup(ctx context.Context, email, password string) (*SignupResponse, error) {
	var out SignupResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup",
		SignupRequest{Email: email, Password: password}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login",
		LoginRequest{Email: email, Password: password}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the server to mail a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password",
		ForgotPasswordRequest{Email: email}, nil, http.StatusOK)
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/verify-otp",
		VerifyOTPRequest{Email: email, OTP: otp}, nil, http.StatusOK)
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password",
		ResetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}, nil, http.StatusOK)
}

// Me returns the account behind the credential.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

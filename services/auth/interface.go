package auth

import (
	"context"

	"labprobe/client"
	"labprobe/models"
)

// AuthService handles customer OTP login, membership verification, and
// phlebotomist credentials.
type AuthService interface {
	// LoginWithOTP requests a one-time code for the mobile number and
	// redeems it, populating the session's token, user id, and names.
	LoginWithOTP(ctx context.Context, session *models.CustomerSession, mobile string) error

	// RegisterNewUser creates a fresh account on a random mobile number and
	// logs it in.
	RegisterNewUser(ctx context.Context, session *models.CustomerSession) error

	// VerifyMembership fetches the user profile and records whether an
	// active membership exists.
	VerifyMembership(ctx context.Context, session *models.CustomerSession) error

	// LoginPhlebotomist authenticates the field phlebotomist and returns
	// the token and phlebotomist guid.
	LoginPhlebotomist(ctx context.Context, mobile, password string) (token string, guid string, err error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Exec        client.Executor
	CountryCode string
	StaticOTP   string
}

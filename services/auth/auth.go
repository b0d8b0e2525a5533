package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/config"
	"labprobe/models"
	"labprobe/utils"
)

// loginReply is the addUser response payload.
type loginReply struct {
	Token     string `json:"token"`
	AuthToken string `json:"auth_token"`
	GUID      string `json:"guid"`
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
}

// userProfile is the getUser response payload.
type userProfile struct {
	GUID                 string `json:"guid"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	MembershipExpiryDate string `json:"membership_expiry_date"`
}

// phleboReply is the loginPhlebo response payload.
type phleboReply struct {
	Token string `json:"token"`
	GUID  string `json:"guid"`
}

func (s *DefaultAuthService) LoginWithOTP(ctx context.Context, session *models.CustomerSession, mobile string) error {
	logger := utils.GetLogger()

	otpReq := map[string]string{
		"country_code": s.CountryCode,
		"mobile":       mobile,
	}
	if _, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathGetOTP,
		Body:   otpReq,
	}); err != nil {
		return fmt.Errorf("request otp for %s: %w", mobile, err)
	}

	loginReq := map[string]string{
		"country_code": s.CountryCode,
		"mobile":       mobile,
		"otp":          s.StaticOTP,
	}
	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAddUser,
		Body:   loginReq,
	})
	if err != nil {
		return fmt.Errorf("redeem otp for %s: %w", mobile, err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var reply loginReply
	if err := env.Object(&reply); err != nil {
		return fmt.Errorf("parse login reply: %w", err)
	}

	token := reply.Token
	if token == "" {
		token = reply.AuthToken
	}
	if token == "" {
		return ErrNoToken
	}

	userID := reply.GUID
	if userID == "" {
		userID = reply.UserID
	}
	if userID == "" {
		// Some builds omit the guid from the login reply but embed it in
		// the token claims.
		userID = userIDFromToken(token)
	}
	if userID == "" {
		return ErrNoUserID
	}

	session.AuthToken = token
	session.UserID = userID
	session.FirstName = reply.FirstName
	session.LastName = reply.LastName
	session.Mobile = mobile

	logger.Info("customer logged in",
		zap.String("actor", string(session.Actor)),
		zap.String("user_id", userID))
	return nil
}

func (s *DefaultAuthService) RegisterNewUser(ctx context.Context, session *models.CustomerSession) error {
	mobile := utils.RandomMobile(config.AppConfig.NewUserMobilePrefix)
	utils.GetLogger().Info("registering new user", zap.String("mobile", mobile))
	return s.LoginWithOTP(ctx, session, mobile)
}

func (s *DefaultAuthService) VerifyMembership(ctx context.Context, session *models.CustomerSession) error {
	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathGetUser + session.UserID,
		Token:  session.AuthToken,
		Base:   config.AppConfig.MembershipBaseURL,
	})
	if err != nil {
		return fmt.Errorf("fetch user profile: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var profile userProfile
	if err := env.Object(&profile); err != nil {
		return fmt.Errorf("parse user profile: %w", err)
	}

	session.IsMember = membershipActive(profile.MembershipExpiryDate)
	if session.FirstName == "" {
		session.FirstName = profile.FirstName
		session.LastName = profile.LastName
	}

	utils.GetLogger().Info("membership checked",
		zap.String("actor", string(session.Actor)),
		zap.Bool("is_member", session.IsMember),
		zap.String("expiry", profile.MembershipExpiryDate))
	return nil
}

func (s *DefaultAuthService) LoginPhlebotomist(ctx context.Context, mobile, password string) (string, string, error) {
	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathPhleboLogin,
		Body: map[string]string{
			"mobile":   mobile,
			"password": password,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("phlebotomist login: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return "", "", err
	}
	var reply phleboReply
	if err := env.Object(&reply); err != nil {
		return "", "", fmt.Errorf("parse phlebotomist login reply: %w", err)
	}
	if reply.Token == "" {
		return "", "", ErrNoToken
	}
	guid := reply.GUID
	if guid == "" {
		guid = userIDFromToken(reply.Token)
	}
	return reply.Token, guid, nil
}

// membershipActive reports whether the expiry date is set and in the future.
// Bare dates and RFC3339 timestamps both occur in the wild.
func membershipActive(expiry string) bool {
	expiry = strings.TrimSpace(expiry)
	if expiry == "" || expiry == "null" {
		return false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, expiry); err == nil {
			return t.After(time.Now())
		}
	}
	return false
}

// userIDFromToken peeks at the JWT claims without verifying the signature.
// The harness never validates tokens, it only needs the subject guid.
func userIDFromToken(token string) string {
	parser := &jwt.Parser{}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"guid", "user_id", "sub", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labprobe/client"
	"labprobe/models"
)

// scriptedExecutor returns canned envelopes keyed by request path.
type scriptedExecutor struct {
	replies map[string]interface{}
	calls   []string
}

func (s *scriptedExecutor) Do(_ context.Context, req client.Request) (client.Response, error) {
	s.calls = append(s.calls, req.Path)
	raw, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"msg":     "ok",
		"data":    s.replies[req.Path],
	})
	return client.Response{Status: 200, Body: raw}, nil
}

func TestLoginWithOTP_PopulatesSession(t *testing.T) {
	exec := &scriptedExecutor{replies: map[string]interface{}{
		client.PathGetOTP: map[string]bool{"otp_sent": true},
		client.PathAddUser: map[string]string{
			"token":      "tok-1",
			"guid":       "user-1",
			"first_name": "Asha",
		},
	}}
	svc := &DefaultAuthService{Exec: exec, CountryCode: "+91", StaticOTP: "123456"}
	session := models.NewCustomerSession(models.ActorMember)

	err := svc.LoginWithOTP(context.Background(), session, "9000000001")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", session.AuthToken)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "Asha", session.FirstName)
	assert.Equal(t, "9000000001", session.Mobile)
	assert.Equal(t, []string{client.PathGetOTP, client.PathAddUser}, exec.calls)
}

func TestLoginWithOTP_NoToken(t *testing.T) {
	exec := &scriptedExecutor{replies: map[string]interface{}{
		client.PathAddUser: map[string]string{"guid": "user-1"},
	}}
	svc := &DefaultAuthService{Exec: exec, CountryCode: "+91", StaticOTP: "123456"}

	err := svc.LoginWithOTP(context.Background(), models.NewCustomerSession(models.ActorMember), "9000000001")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLoginWithOTP_RecoversUserIDFromToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"guid": "user-from-jwt"})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)

	exec := &scriptedExecutor{replies: map[string]interface{}{
		client.PathAddUser: map[string]string{"token": signed},
	}}
	svc := &DefaultAuthService{Exec: exec, CountryCode: "+91", StaticOTP: "123456"}
	session := models.NewCustomerSession(models.ActorNonMember)

	require.NoError(t, svc.LoginWithOTP(context.Background(), session, "9000000002"))
	assert.Equal(t, "user-from-jwt", session.UserID)
}

func TestMembershipActive(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0)
	past := time.Now().AddDate(-1, 0, 0)

	cases := []struct {
		name   string
		expiry string
		want   bool
	}{
		{"empty", "", false},
		{"null literal", "null", false},
		{"future date", future.Format("2006-01-02"), true},
		{"past date", past.Format("2006-01-02"), false},
		{"future rfc3339", future.Format(time.RFC3339), true},
		{"garbage", "soon", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, membershipActive(tc.expiry))
		})
	}
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	assert.Equal(t, "", userIDFromToken("not-a-jwt"))
}

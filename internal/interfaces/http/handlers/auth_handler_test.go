package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"events-hub.backend/internal/domain/entities"
)

func TestAuthHandler_SignupVerifyLoginFlow(t *testing.T) {
	s := newTestServer(t)

	// signup
	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "New@Example.com",
		"password": "password123",
		"role":     "Seeker",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, "Seeker", user["role"])

	// the OTP email went out
	assert.Equal(t, []string{"new@example.com"}, s.sender.mail)

	// login before verification is refused, even with the right password
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "email_not_verified")

	// verify with the issued code
	code := s.otpRepo.latestCode("new@example.com")
	require.NotEmpty(t, code)
	w = s.do(t, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{
		"email": "new@example.com",
		"otp":   code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// login now succeeds
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeBody(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])

	// refresh rotates the pair
	w = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refreshToken": body["refreshToken"].(string),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody(t, w)["accessToken"])
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []map[string]string{
		{"email": "not-an-email", "password": "password123", "role": "Seeker"},
		{"email": "a@example.com", "password": "short", "role": "Seeker"},
		{"email": "a@example.com", "password": "password123", "role": "Admin"},
		{"email": "a@example.com", "password": "password123"},
	}
	for _, payload := range cases {
		w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
		assert.Contains(t, w.Body.String(), "validation_error")
	}
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "taken@example.com", entities.UserRoleSeeker)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "Taken@Example.com",
		"password": "password123",
		"role":     "Facilitator",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email_exists")
}

func TestAuthHandler_VerifyEmailWrongCode(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "v@example.com",
		"password": "password123",
		"role":     "Seeker",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{
		"email": "v@example.com",
		"otp":   "000000",
	})
	// astronomically unlikely to collide with the issued code
	if s.otpRepo.latestCode("v@example.com") != "000000" {
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "otp_invalid")
	}
}

func TestAuthHandler_VerifyEmailUnknownEmail(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "known@example.com", entities.UserRoleSeeker)

	// an address nobody registered gets the same answer as a wrong code
	w := s.do(t, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{
		"email": "ghost@example.com",
		"otp":   "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "otp_invalid")
}

func TestAuthHandler_LoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "known@example.com", entities.UserRoleSeeker)

	unknown := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	wrongPass := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "known@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestAuthHandler_ResendOTP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "r@example.com",
		"password": "password123",
		"role":     "Seeker",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	first := s.otpRepo.latestCode("r@example.com")

	w = s.do(t, http.MethodPost, "/api/v1/auth/resend-otp", "", map[string]string{
		"email": "r@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the old code is dead; a new one is live
	second := s.otpRepo.latestCode("r@example.com")
	require.NotEmpty(t, second)
	if first == second {
		t.Fatalf("expected a fresh code after resend")
	}

	// unknown email
	w = s.do(t, http.MethodPost, "/api/v1/auth/resend-otp", "", map[string]string{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// already verified
	s.addUser(t, "done@example.com", entities.UserRoleSeeker)
	w = s.do(t, http.MethodPost, "/api/v1/auth/resend-otp", "", map[string]string{
		"email": "done@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already_verified")
}

func TestAuthHandler_GetMe(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.addUser(t, "me@example.com", entities.UserRoleFacilitator)

	w := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, userID.String(), user["id"])
	assert.Equal(t, "me@example.com", user["email"])
	assert.Equal(t, "Facilitator", user["role"])
	assert.Equal(t, true, user["emailVerified"])

	// anonymous
	w = s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshWithGarbageToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refreshToken": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

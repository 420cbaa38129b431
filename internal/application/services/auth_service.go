package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	apperrors "github.com/bookvenue/client/pkg/errors"
	"github.com/bookvenue/client/pkg/utils"
)

// AuthService wraps the OTP login/registration and profile endpoints
type AuthService struct {
	api         providers.APIClient
	credentials *CredentialStore
}

// NewAuthService creates a new auth service
func NewAuthService(api providers.APIClient, credentials *CredentialStore) *AuthService {
	return &AuthService{
		api:         api,
		credentials: credentials,
	}
}

// RequestLoginOTP sends a login OTP to a mobile number
func (s *AuthService) RequestLoginOTP(ctx context.Context, mobile string) (json.RawMessage, error) {
	resp, err := call(ctx, s.api, post("/login", map[string]string{"mobile": mobile}), "Failed to send OTP")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// RequestLoginOTPByEmail sends a login OTP to an email address
func (s *AuthService) RequestLoginOTPByEmail(ctx context.Context, email string) (json.RawMessage, error) {
	resp, err := call(ctx, s.api, post("/login-via-email", map[string]string{"email": email}), "Failed to send OTP to email")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// RequestRegistrationOTP sends a registration OTP. Identifiers containing "@" are emails.
func (s *AuthService) RequestRegistrationOTP(ctx context.Context, identifier string) (json.RawMessage, error) {
	resp, err := call(ctx, s.api, post("/register", identifierPayload(identifier)), "Failed to send registration OTP")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// VerifyLoginOTP verifies a mobile OTP and persists the returned session
func (s *AuthService) VerifyLoginOTP(ctx context.Context, mobile, otp string) (json.RawMessage, error) {
	body := map[string]string{"mobile": mobile, "otp": otp}
	return s.verify(ctx, post("/verify-otp", body), "Failed to verify OTP")
}

// VerifyLoginOTPByEmail verifies an email OTP and persists the returned session
func (s *AuthService) VerifyLoginOTPByEmail(ctx context.Context, email, otp string) (json.RawMessage, error) {
	body := map[string]string{"email": email, "otp": otp}
	return s.verify(ctx, post("/verify-otp-via-email", body), "Failed to verify email OTP")
}

// VerifyRegistrationOTP verifies a registration OTP. name is sent only when non-empty.
func (s *AuthService) VerifyRegistrationOTP(ctx context.Context, identifier, otp, name string) (json.RawMessage, error) {
	body := identifierPayload(identifier)
	body["otp"] = otp
	if name != "" {
		body["name"] = name
	}
	return s.verify(ctx, post("/verify-register-user", body), "Failed to verify registration OTP")
}

func (s *AuthService) verify(ctx context.Context, req providers.APIRequest, fallback string) (json.RawMessage, error) {
	resp, err := call(ctx, s.api, req, fallback)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Token any             `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	_ = json.Unmarshal(resp.Body, &payload)

	if utils.Truthy(payload.Token) {
		if err := s.credentials.SaveSession(ctx, utils.StringOf(payload.Token), payload.User); err != nil {
			observability.LoggerFromContext(ctx).Error().Err(err).Msg(fallback)
			return nil, apperrors.NewInternalError(fallback, err)
		}
	}

	return rawBody(resp), nil
}

// GetProfile fetches and maps the signed-in user
func (s *AuthService) GetProfile(ctx context.Context) (*entities.User, error) {
	const fallback = "Failed to get profile"

	resp, err := s.api.Do(ctx, get("/get-user-details"))
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg(fallback)
		return nil, apperrors.NewProfileFetchError(failureMessage(err, fallback), err)
	}

	var payload struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.User == nil || payload.User["id"] == nil {
		return nil, apperrors.NewProfileFetchError(fallback, err)
	}

	user := profileFromPayload(payload.User)
	return &user, nil
}

// UpdateProfile submits the full user and returns the server's copy, or the submitted one
func (s *AuthService) UpdateProfile(ctx context.Context, user entities.User) (*entities.User, error) {
	const fallback = "Failed to update profile"

	resp, err := s.api.Do(ctx, post("/profileUpdate", user))
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg(fallback)
		return nil, apperrors.NewProfileUpdateError(failureMessage(err, fallback), err)
	}
	if resp.StatusCode != http.StatusOK && resp.Status != "OK" {
		return nil, apperrors.NewProfileUpdateError(fallback, nil)
	}

	var payload struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err == nil && payload.User != nil {
		updated := profileFromPayload(payload.User)
		return &updated, nil
	}
	return &user, nil
}

// Logout clears the persisted token and user
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.credentials.Clear(ctx, providers.ClearReasonLogout); err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("Logout failed")
		return apperrors.NewLogoutError(err)
	}
	return nil
}

func identifierPayload(identifier string) map[string]string {
	if strings.Contains(identifier, "@") {
		return map[string]string{"email": identifier}
	}
	return map[string]string{"mobile": identifier}
}

// profileFromPayload maps the server's user object. Ids may be numbers or strings.
func profileFromPayload(raw map[string]any) entities.User {
	return entities.User{
		ID:           utils.StringOf(raw["id"]),
		Name:         utils.FirstString(raw, "", "name"),
		Email:        utils.FirstString(raw, "", "email"),
		Phone:        utils.FirstString(raw, "", "contact", "phone", "mobile"),
		Address:      utils.FirstString(raw, "", "address"),
		IsVenueOwner: false,
		CreatedAt:    utils.FirstString(raw, "", "created_at", "createdAt"),
		UpdatedAt:    utils.FirstString(raw, "", "updated_at", "updatedAt"),
		ProfileImage: utils.FirstString(raw, "", "profile_image", "profileImage"),
	}
}

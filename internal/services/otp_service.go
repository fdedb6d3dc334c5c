package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/debtme-backend/internal/otp"
	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
)

type OTPService struct {
	users  repo.Users
	audit  *Auditor
	issuer string
}

func NewOTPService(u repo.Users, a *Auditor, opts Options) *OTPService {
	return &OTPService{users: u, audit: a, issuer: opts.OTPIssuer}
}

// Provisioning is what an authenticator app needs to mirror a provider's codes.
type Provisioning struct {
	URI    string `json:"otpauth_uri"`
	QRPNG  string `json:"qr_png_base64"`
	Period int    `json:"period"`
	Digits int    `json:"digits"`
}

// InitSecret creates or rotates the provider's secret. Rotation invalidates
// codes from the previous secret immediately.
func (s *OTPService) InitSecret(ctx context.Context, provider models.Identity) (Provisioning, error) {
	if !provider.Caps.CanInvite {
		return Provisioning{}, permission("only providers hold one-time code secrets")
	}
	u, err := s.users.GetByID(ctx, provider.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return Provisioning{}, notFound("provider not found")
	}
	if err != nil {
		return Provisioning{}, err
	}

	secret, err := otp.NewSecret()
	if err != nil {
		return Provisioning{}, err
	}
	uri, err := otp.ProvisioningURI(s.issuer, u.Email, secret)
	if err != nil {
		return Provisioning{}, err
	}
	qr, err := otp.ProvisioningQR(uri)
	if err != nil {
		return Provisioning{}, err
	}
	if err := s.users.SetOTPSecret(ctx, provider.ID, secret); err != nil {
		return Provisioning{}, err
	}
	s.audit.Record(provider.ID, "user", provider.ID, "otp_secret_rotated", nil)
	return Provisioning{URI: uri, QRPNG: qr, Period: otp.StepSeconds, Digits: otp.Digits}, nil
}

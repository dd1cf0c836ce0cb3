package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"vehicle-insurance-service/internal/database/redis"
)

// OTPValidity is how long a generated code stays usable.
const OTPValidity = 5 * time.Minute

type OTPService struct {
	redisClient *redis.Client
	mailer      *Mailer
}

func NewOTPService(redisClient *redis.Client, mailer *Mailer) *OTPService {
	return &OTPService{
		redisClient: redisClient,
		mailer:      mailer,
	}
}

func otpKey(email string) string {
	return "otp:" + email
}

// GenerateOTP creates a six digit code, stores it with a five minute TTL and
// emails it to the address.
func (s *OTPService) GenerateOTP(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	otp := fmt.Sprintf("%06d", rand.Intn(1000000))

	err := s.redisClient.GetClient().Set(ctx, otpKey(email), otp, OTPValidity).Err()
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if s.mailer != nil {
		body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", otp)
		if err := s.mailer.Send(email, "Verification code", body); err != nil {
			slog.Warn("Failed to send OTP email", "email", email, "error", err)
		}
	}

	slog.Info("OTP generated", "email", email)
	return nil
}

// ValidateOTP checks the submitted code against the stored one and consumes
// it on success.
func (s *OTPService) ValidateOTP(ctx context.Context, email, otp string) error {
	stored, err := s.redisClient.GetClient().Get(ctx, otpKey(email)).Result()
	if err != nil {
		return fmt.Errorf("otp is invalid or expired")
	}

	if stored != otp {
		return fmt.Errorf("otp is invalid or expired")
	}

	if err := s.redisClient.GetClient().Del(ctx, otpKey(email)).Err(); err != nil {
		slog.Warn("Failed to delete consumed OTP", "email", email, "error", err)
	}

	return nil
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"vehicle-insurance-service/internal/httputil"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	otpService  *services.OTPService
}

func NewAuthHandler(authService *services.AuthService, otpService *services.OTPService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		otpService:  otpService,
	}
}

func (h *AuthHandler) Register(app *fiber.App) {
	group := app.Group("/auth")

	group.Post("/login", h.Login)               // POST /auth/login
	group.Post("/register", h.RegisterCustomer) // POST /auth/register
	group.Post("/otp/generate", h.GenerateOTP)  // POST /auth/otp/generate
	group.Post("/otp/validate", h.ValidateOTP)  // POST /auth/otp/validate
}

// Login verifies credentials and returns a signed token
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	resp, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(
			httputil.CreateErrorResponse("UNAUTHORIZED", err.Error()))
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(resp))
}

type registerCustomerRequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	CustomerName string  `json:"customer_name"`
	Email        *string `json:"email,omitempty"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// RegisterCustomer creates a user account with a customer profile
func (h *AuthHandler) RegisterCustomer(c fiber.Ctx) error {
	var req registerCustomerRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	customer, err := h.authService.RegisterCustomer(c.Context(),
		req.Username, req.Password, req.CustomerName, req.Email, req.Address, req.Phone)
	if err != nil {
		slog.Error("Failed to register customer", "username", req.Username, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(customer))
}

// GenerateOTP issues a verification code to the given email
func (h *AuthHandler) GenerateOTP(c fiber.Ctx) error {
	var req models.GenerateOTPRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	if err := h.otpService.GenerateOTP(c.Context(), req.Email); err != nil {
		slog.Error("Failed to generate OTP", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"email": req.Email,
		"sent":  true,
	}))
}

// ValidateOTP checks a submitted verification code
func (h *AuthHandler) ValidateOTP(c fiber.Ctx) error {
	var req models.ValidateOTPRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	if err := h.otpService.ValidateOTP(c.Context(), req.Email, req.OTP); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_OTP", err.Error()))
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"email": req.Email,
		"valid": true,
	}))
}

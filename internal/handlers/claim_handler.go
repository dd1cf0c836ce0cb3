package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"vehicle-insurance-service/internal/httputil"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/services"
)

type ClaimHandler struct {
	claimService *services.ClaimService
}

func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Register(app *fiber.App) {
	group := app.Group("/claims")

	group.Post("/create", h.CreateClaim)           // POST /claims/create
	group.Get("/", h.ListClaims)                   // GET /claims
	group.Get("/:id", h.GetClaim)                  // GET /claims/:id
	group.Put("/:id/review", h.ReviewClaim)        // PUT /claims/:id/review
	group.Put("/:id/request-info", h.RequestMoreInfo) // PUT /claims/:id/request-info
	group.Put("/:id/approve", h.ApproveClaim)      // PUT /claims/:id/approve
	group.Put("/:id/reject", h.RejectClaim)        // PUT /claims/:id/reject
	group.Put("/:id/pay", h.PayClaim)              // PUT /claims/:id/pay
}

// CreateClaim files a claim against an active policy
func (h *ClaimHandler) CreateClaim(c fiber.Ctx) error {
	var req models.CreateClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.CreateClaim(c.Context(), &req)
	if err != nil {
		slog.Error("Failed to create claim", "policy_id", req.PolicyID, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(claim))
}

// ListClaims retrieves claims with optional policy_id/status filters
func (h *ClaimHandler) ListClaims(c fiber.Ctx) error {
	filters := map[string]interface{}{}
	if policyID := c.Query("policy_id"); policyID != "" {
		id, err := uuid.Parse(policyID)
		if err != nil {
			return badParam(c, "policy_id")
		}
		filters["policy_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = models.ClaimStatus(status)
	}

	claims, err := h.claimService.ListClaims(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to list claims", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"claims": claims,
		"count":  len(claims),
	}))
}

// GetClaim retrieves one claim
func (h *ClaimHandler) GetClaim(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "claim ID")
	}

	claim, err := h.claimService.GetClaim(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

// ReviewClaim moves a claim into review
func (h *ClaimHandler) ReviewClaim(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "claim ID")
	}

	var req models.ReviewClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.ReviewClaim(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to review claim", "claim_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

// RequestMoreInfo asks the policyholder for additional material
func (h *ClaimHandler) RequestMoreInfo(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "claim ID")
	}

	var req models.ReviewClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.RequestMoreInfo(c.Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

// ApproveClaim approves a reviewed claim
func (h *ClaimHandler) ApproveClaim(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "claim ID")
	}

	var req models.ApproveClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.ApproveClaim(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to approve claim", "claim_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

// RejectClaim declines a reviewed claim
func (h *ClaimHandler) RejectClaim(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "claim ID")
	}

	var req models.RejectClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.RejectClaim(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to reject claim", "claim_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

// PayClaim settles an approved claim
func (h *ClaimHandler) PayClaim(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "claim ID")
	}

	claim, err := h.claimService.PayClaim(c.Context(), id)
	if err != nil {
		slog.Error("Failed to pay claim", "claim_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(claim))
}

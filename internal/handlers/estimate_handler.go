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

type EstimateHandler struct {
	estimateService *services.EstimateService
}

func NewEstimateHandler(estimateService *services.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

func (h *EstimateHandler) Register(app *fiber.App) {
	group := app.Group("/insuranceestimate")

	group.Post("/", h.CreateEstimate)           // POST /insuranceestimate
	group.Get("/", h.ListEstimates)             // GET /insuranceestimate
	group.Get("/:id", h.GetEstimate)            // GET /insuranceestimate/:id
	group.Patch("/:id/submit", h.SubmitEstimate)   // PATCH /insuranceestimate/:id/submit
	group.Patch("/:id/approve", h.ApproveEstimate) // PATCH /insuranceestimate/:id/approve
	group.Patch("/:id/reject", h.RejectEstimate)   // PATCH /insuranceestimate/:id/reject
}

// CreateEstimate computes and stores a new premium quote
func (h *EstimateHandler) CreateEstimate(c fiber.Ctx) error {
	var req models.CreateEstimateRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	estimate, err := h.estimateService.CreateEstimate(c.Context(), &req)
	if err != nil {
		slog.Error("Failed to create estimate", "customer_id", req.CustomerID, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(estimate))
}

// ListEstimates retrieves estimates with optional customer_id/status filters
func (h *EstimateHandler) ListEstimates(c fiber.Ctx) error {
	filters := map[string]interface{}{}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return badParam(c, "customer_id")
		}
		filters["customer_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = models.EstimateStatus(status)
	}

	estimates, err := h.estimateService.ListEstimates(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to list estimates", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"estimates": estimates,
		"count":     len(estimates),
	}))
}

// GetEstimate retrieves one estimate by ID
func (h *EstimateHandler) GetEstimate(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "estimate ID")
	}

	estimate, err := h.estimateService.GetEstimate(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(estimate))
}

// SubmitEstimate moves a draft quote into review
func (h *EstimateHandler) SubmitEstimate(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "estimate ID")
	}

	estimate, err := h.estimateService.SubmitEstimate(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(estimate))
}

// ApproveEstimate records a staff approval decision
func (h *EstimateHandler) ApproveEstimate(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "estimate ID")
	}

	var req models.DecideEstimateRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	estimate, err := h.estimateService.ApproveEstimate(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to approve estimate", "estimate_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(estimate))
}

// RejectEstimate records a staff rejection decision
func (h *EstimateHandler) RejectEstimate(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "estimate ID")
	}

	var req models.DecideEstimateRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	estimate, err := h.estimateService.RejectEstimate(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to reject estimate", "estimate_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(estimate))
}

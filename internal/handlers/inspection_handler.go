package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"vehicle-insurance-service/internal/database/minio"
	"vehicle-insurance-service/internal/httputil"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/services"
)

type InspectionHandler struct {
	inspectionService *services.InspectionService
	minioClient       *minio.MinioClient
}

func NewInspectionHandler(inspectionService *services.InspectionService, minioClient *minio.MinioClient) *InspectionHandler {
	return &InspectionHandler{
		inspectionService: inspectionService,
		minioClient:       minioClient,
	}
}

func (h *InspectionHandler) Register(app *fiber.App) {
	group := app.Group("/inspections")

	group.Post("/", h.CreateInspection)        // POST /inspections
	group.Get("/", h.ListInspections)          // GET /inspections
	group.Get("/:id", h.GetInspection)         // GET /inspections/:id
	group.Put("/:id/start", h.StartInspection) // PUT /inspections/:id/start
	group.Put("/:id/complete", h.CompleteInspection) // PUT /inspections/:id/complete
	group.Put("/:id/verify", h.VerifyInspection)     // PUT /inspections/:id/verify
	group.Put("/:id/cancel", h.CancelInspection)     // PUT /inspections/:id/cancel
	group.Post("/:id/report", h.UploadReport)        // POST /inspections/:id/report (multipart)
}

// CreateInspection schedules a vehicle inspection
func (h *InspectionHandler) CreateInspection(c fiber.Ctx) error {
	var req models.CreateInspectionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	inspection, err := h.inspectionService.CreateInspection(c.Context(), &req)
	if err != nil {
		slog.Error("Failed to schedule inspection", "vehicle_id", req.VehicleID, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(inspection))
}

// ListInspections retrieves inspections with optional filters
func (h *InspectionHandler) ListInspections(c fiber.Ctx) error {
	filters := map[string]interface{}{}
	for param, key := range map[string]string{
		"vehicle_id":        "vehicle_id",
		"claim_id":          "claim_id",
		"assigned_staff_id": "assigned_staff_id",
	} {
		if value := c.Query(param); value != "" {
			id, err := uuid.Parse(value)
			if err != nil {
				return badParam(c, param)
			}
			filters[key] = id
		}
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = models.InspectionStatus(status)
	}

	inspections, err := h.inspectionService.ListInspections(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to list inspections", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"inspections": inspections,
		"count":       len(inspections),
	}))
}

// GetInspection retrieves one inspection
func (h *InspectionHandler) GetInspection(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "inspection ID")
	}

	inspection, err := h.inspectionService.GetInspection(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(inspection))
}

// StartInspection marks the inspection in progress
func (h *InspectionHandler) StartInspection(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "inspection ID")
	}

	inspection, err := h.inspectionService.StartInspection(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(inspection))
}

// CompleteInspection records the findings
func (h *InspectionHandler) CompleteInspection(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "inspection ID")
	}

	var req models.CompleteInspectionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	inspection, err := h.inspectionService.CompleteInspection(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to complete inspection", "inspection_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(inspection))
}

// VerifyInspection records a second staff member's verification
func (h *InspectionHandler) VerifyInspection(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "inspection ID")
	}

	var req models.VerifyInspectionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	inspection, err := h.inspectionService.VerifyInspection(c.Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(inspection))
}

// CancelInspection calls off a scheduled or running inspection
func (h *InspectionHandler) CancelInspection(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "inspection ID")
	}

	inspection, err := h.inspectionService.CancelInspection(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(inspection))
}

// UploadReport stores the inspection report file
func (h *InspectionHandler) UploadReport(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "inspection ID")
	}

	fileHeader, err := c.FormFile("report")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Report file is required"))
	}
	if err := validateUploadFile(fileHeader); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", err.Error()))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectName := fmt.Sprintf("%s/%s%s", id, uuid.New(), ext)

	err = h.minioClient.UploadStream(c.Context(), minio.Storage.InspectionReports, objectName,
		file, fileHeader.Size, allowedUploadExtensions[ext])
	if err != nil {
		slog.Error("Failed to store inspection report", "inspection_id", id, "error", err)
		return respondError(c, err)
	}

	inspection, err := h.inspectionService.AttachReport(c.Context(), id, objectName)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(inspection))
}

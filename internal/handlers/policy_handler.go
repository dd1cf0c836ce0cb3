package handlers

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"vehicle-insurance-service/internal/database/minio"
	"vehicle-insurance-service/internal/httputil"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/services"
)

// maxUploadSize caps uploaded proof documents at 5MB.
const maxUploadSize = 5 * 1024 * 1024

var allowedUploadExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type PolicyHandler struct {
	policyService    *services.PolicyService
	lifecycleService *services.LifecycleService
	documentService  *services.DocumentService
	minioClient      *minio.MinioClient
}

func NewPolicyHandler(
	policyService *services.PolicyService,
	lifecycleService *services.LifecycleService,
	documentService *services.DocumentService,
	minioClient *minio.MinioClient,
) *PolicyHandler {
	return &PolicyHandler{
		policyService:    policyService,
		lifecycleService: lifecycleService,
		documentService:  documentService,
		minioClient:      minioClient,
	}
}

func (h *PolicyHandler) Register(app *fiber.App) {
	group := app.Group("/policymanagement")

	group.Post("/", h.CreatePolicy)                          // POST /policymanagement (multipart)
	group.Post("/from-estimate", h.CreateFromEstimate)       // POST /policymanagement/from-estimate (multipart)
	group.Get("/", h.ListPolicies)                           // GET /policymanagement
	group.Get("/:id", h.GetPolicy)                           // GET /policymanagement/:id
	group.Post("/:id/payment", h.ApplyPaymentResult)         // POST /policymanagement/:id/payment
	group.Post("/:id/renew", h.RenewPolicy)                  // POST /policymanagement/:id/renew
	group.Patch("/:id/cancel", h.CancelPolicy)               // PATCH /policymanagement/:id/cancel
	group.Post("/:id/document", h.GenerateDocument)          // POST /policymanagement/:id/document
	group.Post("/maintenance/lifecycle", h.RunLifecycle)     // POST /policymanagement/maintenance/lifecycle
	group.Post("/maintenance/reminders", h.RunReminders)     // POST /policymanagement/maintenance/reminders
	group.Delete("/customers/:id", h.DeactivateCustomer)     // DELETE /policymanagement/customers/:id
}

// CreatePolicy issues a policy from a multipart form carrying the policy
// fields and a mandatory address proof file.
func (h *PolicyHandler) CreatePolicy(c fiber.Ctx) error {
	req, err := parsePolicyForm(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", err.Error()))
	}

	fileHeader, err := c.FormFile("address_proof")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Address proof file is required"))
	}
	if err := validateUploadFile(fileHeader); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", err.Error()))
	}

	policy, err := h.policyService.CreatePolicy(c.Context(), req)
	if err != nil {
		slog.Error("Failed to create policy", "customer_id", req.CustomerID, "error", err)
		return respondError(c, err)
	}

	objectName, err := h.uploadProof(c, fileHeader, policy.ID)
	if err != nil {
		slog.Error("Failed to store address proof", "policy_id", policy.ID, "error", err)
	} else {
		policy, _ = h.policyService.AttachAddressProof(c.Context(), policy.ID, objectName)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(policy))
}

// CreateFromEstimate converts an approved estimate, also requiring the
// address proof upload.
func (h *PolicyHandler) CreateFromEstimate(c fiber.Ctx) error {
	estimateID, err := uuid.Parse(c.FormValue("estimate_id"))
	if err != nil {
		return badParam(c, "estimate_id")
	}
	createBill := c.FormValue("create_bill") != "false"

	fileHeader, err := c.FormFile("address_proof")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Address proof file is required"))
	}
	if err := validateUploadFile(fileHeader); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", err.Error()))
	}

	policy, err := h.policyService.CreateFromEstimate(c.Context(), estimateID, createBill)
	if err != nil {
		slog.Error("Failed to convert estimate", "estimate_id", estimateID, "error", err)
		return respondError(c, err)
	}

	objectName, err := h.uploadProof(c, fileHeader, policy.ID)
	if err != nil {
		slog.Error("Failed to store address proof", "policy_id", policy.ID, "error", err)
	} else {
		policy, _ = h.policyService.AttachAddressProof(c.Context(), policy.ID, objectName)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(policy))
}

// ListPolicies runs the lifecycle sweep and lists policies
func (h *PolicyHandler) ListPolicies(c fiber.Ctx) error {
	filters := map[string]interface{}{}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return badParam(c, "customer_id")
		}
		filters["customer_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = models.PolicyStatus(status)
	}
	if c.Query("include_hidden") == "true" {
		filters["include_hidden"] = true
	}

	policies, err := h.policyService.ListPolicies(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to list policies", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"policies": policies,
		"count":    len(policies),
	}))
}

// GetPolicy retrieves one policy, status refreshed
func (h *PolicyHandler) GetPolicy(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "policy ID")
	}

	policy, err := h.policyService.GetPolicy(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(policy))
}

// ApplyPaymentResult drives the payment success/failure branch
func (h *PolicyHandler) ApplyPaymentResult(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "policy ID")
	}

	var req models.PaymentResultRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	policy, err := h.policyService.ApplyPaymentResult(c.Context(), id, req.Success)
	if err != nil {
		slog.Error("Failed to apply payment result", "policy_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(policy))
}

// RenewPolicy stages a renewal on the policy
func (h *PolicyHandler) RenewPolicy(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "policy ID")
	}

	var req models.RenewPolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	policy, err := h.policyService.RenewPolicy(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to renew policy", "policy_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(policy))
}

// CancelPolicy cancels the policy with a mandatory reason
func (h *PolicyHandler) CancelPolicy(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "policy ID")
	}

	var req models.CancelPolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	policy, err := h.policyService.CancelPolicy(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to cancel policy", "policy_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(policy))
}

// GenerateDocument renders the policy certificate PDF and stores it
func (h *PolicyHandler) GenerateDocument(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "policy ID")
	}

	policy, err := h.policyService.GetPolicy(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	objectName, err := h.documentService.GeneratePolicyDocument(c.Context(), policy)
	if err != nil {
		slog.Error("Failed to generate policy document", "policy_id", id, "error", err)
		return respondError(c, err)
	}

	policy, err = h.policyService.AttachPolicyDocument(c.Context(), id, objectName)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"policy":       policy,
		"document_url": h.documentService.DocumentURL(minio.Storage.PolicyDocuments, objectName),
	}))
}

// RunLifecycle triggers the maintenance sweep on demand
func (h *PolicyHandler) RunLifecycle(c fiber.Ctx) error {
	if err := h.lifecycleService.RunLifecycleUpdate(c.Context()); err != nil {
		slog.Error("Lifecycle sweep failed", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"swept_at": time.Now(),
	}))
}

// RunReminders sends renewal reminders without applying status transitions
func (h *PolicyHandler) RunReminders(c fiber.Ctx) error {
	if err := h.lifecycleService.RunRenewalReminders(c.Context()); err != nil {
		slog.Error("Renewal reminder run failed", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"reminded_at": time.Now(),
	}))
}

// DeactivateCustomer disables a customer account and hides their policies
func (h *PolicyHandler) DeactivateCustomer(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "customer ID")
	}

	if err := h.policyService.DeactivateCustomer(c.Context(), id); err != nil {
		slog.Error("Failed to deactivate customer", "customer_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"customer_id": id,
		"deactivated": true,
	}))
}

func (h *PolicyHandler) uploadProof(c fiber.Ctx, fileHeader *multipart.FileHeader, policyID uuid.UUID) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectName := fmt.Sprintf("%s/%s%s", policyID, uuid.New(), ext)

	err = h.minioClient.UploadStream(c.Context(), minio.Storage.AddressProofs, objectName,
		file, fileHeader.Size, allowedUploadExtensions[ext])
	if err != nil {
		return "", err
	}

	return objectName, nil
}

func validateUploadFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > maxUploadSize {
		return fmt.Errorf("file exceeds the 5MB size limit")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return fmt.Errorf("unsupported file type %s, expected pdf, jpg or png", ext)
	}

	return nil
}

func parsePolicyForm(c fiber.Ctx) (*models.CreatePolicyRequest, error) {
	customerID, err := uuid.Parse(c.FormValue("customer_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id")
	}
	vehicleID, err := uuid.Parse(c.FormValue("vehicle_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle_id")
	}
	insuranceTypeID, err := uuid.Parse(c.FormValue("insurance_type_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid insurance_type_id")
	}
	durationMonths, err := strconv.Atoi(c.FormValue("duration_months"))
	if err != nil {
		return nil, fmt.Errorf("invalid duration_months")
	}

	req := &models.CreatePolicyRequest{
		CustomerID:      customerID,
		VehicleID:       vehicleID,
		InsuranceTypeID: insuranceTypeID,
		DurationMonths:  durationMonths,
		CreateBill:      c.FormValue("create_bill") != "false",
	}

	if v := c.FormValue("premium_amount"); v != "" {
		premium, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid premium_amount")
		}
		req.PremiumAmount = &premium
	}
	if v := c.FormValue("start_date"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
		}
		req.StartDate = &start
	}
	if v := c.FormValue("warranty"); v != "" {
		req.Warranty = &v
	}

	return req, nil
}

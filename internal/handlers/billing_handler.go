package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"vehicle-insurance-service/internal/database/minio"
	"vehicle-insurance-service/internal/httputil"
	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/services"
)

type BillingHandler struct {
	billingService  *services.BillingService
	policyService   *services.PolicyService
	documentService *services.DocumentService
}

func NewBillingHandler(
	billingService *services.BillingService,
	policyService *services.PolicyService,
	documentService *services.DocumentService,
) *BillingHandler {
	return &BillingHandler{
		billingService:  billingService,
		policyService:   policyService,
		documentService: documentService,
	}
}

func (h *BillingHandler) Register(app *fiber.App) {
	group := app.Group("/billingpayment")

	group.Get("/", h.ListBills)                                    // GET /billingpayment
	group.Get("/:id", h.GetBill)                                   // GET /billingpayment/:id
	group.Get("/:id/payments", h.ListPayments)                     // GET /billingpayment/:id/payments
	group.Post("/:id/payments", h.CreatePayment)                   // POST /billingpayment/:id/payments
	group.Post("/:id/payments/:paymentId/confirm", h.ConfirmPayment) // POST /billingpayment/:id/payments/:paymentId/confirm
	group.Post("/:id/mark-paid", h.MarkPaid)                       // POST /billingpayment/:id/mark-paid
	group.Post("/:id/invoice", h.GenerateInvoice)                  // POST /billingpayment/:id/invoice
}

// ListBills retrieves bills with optional policy_id/status filters
func (h *BillingHandler) ListBills(c fiber.Ctx) error {
	filters := map[string]interface{}{}
	if policyID := c.Query("policy_id"); policyID != "" {
		id, err := uuid.Parse(policyID)
		if err != nil {
			return badParam(c, "policy_id")
		}
		filters["policy_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = models.BillStatus(status)
	}

	bills, err := h.billingService.ListBills(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to list bills", "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"bills": bills,
		"count": len(bills),
	}))
}

// GetBill retrieves one bill
func (h *BillingHandler) GetBill(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "bill ID")
	}

	bill, err := h.billingService.GetBill(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(bill))
}

// ListPayments retrieves the payment ledger of a bill
func (h *BillingHandler) ListPayments(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "bill ID")
	}

	payments, err := h.billingService.ListPayments(c.Context(), id)
	if err != nil {
		slog.Error("Failed to list payments", "bill_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	}))
}

// CreatePayment registers a PENDING payment against a bill
func (h *BillingHandler) CreatePayment(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "bill ID")
	}

	var req models.CreatePaymentRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	payment, err := h.billingService.CreatePayment(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to create payment", "bill_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(payment))
}

// ConfirmPayment settles a PENDING payment as SUCCESS or FAILED
func (h *BillingHandler) ConfirmPayment(c fiber.Ctx) error {
	paymentID, err := parseUUIDParam(c, "paymentId")
	if err != nil {
		return badParam(c, "payment ID")
	}

	var req models.ConfirmPaymentRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	payment, err := h.billingService.ConfirmPayment(c.Context(), paymentID, req.Success)
	if err != nil {
		slog.Error("Failed to confirm payment", "payment_id", paymentID, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(payment))
}

// MarkPaid records an immediately successful manual payment
func (h *BillingHandler) MarkPaid(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "bill ID")
	}

	var req models.CreatePaymentRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	payment, err := h.billingService.RecordManualPayment(c.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to record manual payment", "bill_id", id, "error", err)
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(payment))
}

// GenerateInvoice renders the invoice PDF for a bill and stores it
func (h *BillingHandler) GenerateInvoice(c fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badParam(c, "bill ID")
	}

	bill, err := h.billingService.GetBill(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	policy, err := h.policyService.GetPolicy(c.Context(), bill.PolicyID)
	if err != nil {
		return respondError(c, err)
	}

	objectName, err := h.documentService.GenerateInvoice(c.Context(), bill, policy)
	if err != nil {
		slog.Error("Failed to generate invoice", "bill_id", id, "error", err)
		return respondError(c, err)
	}

	if bill, err = h.billingService.AttachInvoice(c.Context(), id, objectName); err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(map[string]interface{}{
		"bill_id":     bill.ID,
		"invoice_url": h.documentService.DocumentURL(minio.Storage.Invoices, objectName),
	}))
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"vehicle-insurance-service/internal/database/minio"
	"vehicle-insurance-service/internal/models"
)

// DocumentService renders policy documents and invoices as PDF and stores
// them in object storage.
type DocumentService struct {
	minioClient *minio.MinioClient
}

func NewDocumentService(minioClient *minio.MinioClient) *DocumentService {
	return &DocumentService{minioClient: minioClient}
}

// GeneratePolicyDocument renders the policy certificate and uploads it.
// Returns the stored object name.
func (s *DocumentService) GeneratePolicyDocument(ctx context.Context, policy *models.Policy) (string, error) {
	start, end := "-", "-"
	if policy.StartDate != nil {
		start = policy.StartDate.Format("2006-01-02")
	}
	if policy.EndDate != nil {
		end = policy.EndDate.Format("2006-01-02")
	}

	lines := []string{
		"VEHICLE INSURANCE POLICY",
		"",
		fmt.Sprintf("Policy number: %s", policy.PolicyNumber),
		fmt.Sprintf("Policyholder: %s", policy.CustomerName),
		fmt.Sprintf("Vehicle: %s", policy.VehicleName),
		fmt.Sprintf("Insurance type: %s (%s)", policy.InsuranceTypeName, policy.InsuranceTypeCode),
		fmt.Sprintf("Coverage: %s to %s (%d months)", start, end, policy.DurationMonths),
		fmt.Sprintf("Premium: %.2f", policy.PremiumAmount),
		"",
		fmt.Sprintf("Issued: %s", time.Now().Format("2006-01-02")),
	}

	pdf, err := renderPDF(lines)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("policies/%s.pdf", policy.PolicyNumber)
	err = s.minioClient.UploadBytes(ctx, minio.Storage.PolicyDocuments, objectName, pdf, "application/pdf")
	if err != nil {
		return "", err
	}

	slog.Info("Policy document generated",
		"policy_number", policy.PolicyNumber,
		"object", objectName,
		"size", len(pdf))

	return objectName, nil
}

// GenerateInvoice renders an invoice for the bill and uploads it. Returns
// the stored object name.
func (s *DocumentService) GenerateInvoice(ctx context.Context, bill *models.Bill, policy *models.Policy) (string, error) {
	due := "-"
	if bill.DueDate != nil {
		due = bill.DueDate.Format("2006-01-02")
	}

	lines := []string{
		"INVOICE",
		"",
		fmt.Sprintf("Policy number: %s", policy.PolicyNumber),
		fmt.Sprintf("Billed to: %s", policy.CustomerName),
		fmt.Sprintf("Bill type: %s", bill.BillType),
		fmt.Sprintf("Bill date: %s", bill.BillDate.Format("2006-01-02")),
		fmt.Sprintf("Due date: %s", due),
		fmt.Sprintf("Amount due: %.2f", bill.Amount),
	}

	pdf, err := renderPDF(lines)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("bills/%s.pdf", bill.ID)
	err = s.minioClient.UploadBytes(ctx, minio.Storage.Invoices, objectName, pdf, "application/pdf")
	if err != nil {
		return "", err
	}

	slog.Info("Invoice generated", "bill_id", bill.ID, "object", objectName)

	return objectName, nil
}

// DocumentURL builds the public URL of a stored document.
func (s *DocumentService) DocumentURL(bucket, objectName string) string {
	return s.minioClient.ResourceURL(bucket, objectName)
}

// renderPDF lays the lines out top to bottom on a single A4 page using the
// pdfcpu JSON page description.
func renderPDF(lines []string) ([]byte, error) {
	texts := make([]map[string]any, 0, len(lines))
	y := 60
	for _, line := range lines {
		if line != "" {
			texts = append(texts, map[string]any{
				"value":  line,
				"anchor": "tl",
				"dx":     40,
				"dy":     y,
				"font": map[string]any{
					"name": "Helvetica",
					"size": 12,
				},
			})
		}
		y += 24
	}

	desc := map[string]any{
		"pages": map[string]any{
			"1": map[string]any{
				"content": map[string]any{
					"text": texts,
				},
			},
		},
	}

	descJSON, err := json.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page description: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(descJSON), &buf, nil); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

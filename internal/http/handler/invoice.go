package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"docissuer/internal/model"
	"docissuer/internal/service"
)

type invoiceRequest struct {
	Student     int64           `json:"student"`
	Course      int64           `json:"course"`
	Batch       *int64          `json:"batch,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date" example:"2026-03-10"`
}

// IssueInvoice creates a numbered course-fee invoice and renders its PDF.
//
// @Summary  Issue invoice
// @Tags     invoices
// @Accept   json
// @Produce  json
// @Param    body body invoiceRequest true "invoice"
// @Success  201 {object} model.Invoice
// @Failure  400 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /api/invoices [post]
func IssueInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req invoiceRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		paid, err := parseDate("payment_date", req.PaymentDate)
		if err != nil {
			return writeServiceError(c, err)
		}
		inv, err := svc.Issue(c.UserContext(), service.InvoiceInput{
			StudentID:   req.Student,
			CourseID:    req.Course,
			BatchID:     req.Batch,
			Amount:      req.Amount,
			PaymentDate: paid,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	}
}

// ListInvoices returns a page of invoices.
//
// @Summary  List invoices
// @Tags     invoices
// @Produce  json
// @Param    limit  query int false "page size" default(10)
// @Param    offset query int false "offset" default(0)
// @Param    search   query string false "number, student or course name"
// @Param    ordering query string false "invoice_number, payment_date or created_at, '-' for descending"
// @Param    student  query int    false "student id"
// @Router   /api/invoices [get]
func ListInvoices(svc service.InvoiceService) fiber.Handler {
	return listHandler[model.Invoice](svc.List, true)
}

// GetInvoice returns one invoice by ID.
//
// @Summary  Get invoice
// @Tags     invoices
// @Produce  json
// @Param    id path string true "invoice id"
// @Router   /api/invoices/{id} [get]
func GetInvoice(svc service.InvoiceService) fiber.Handler {
	return getHandler[model.Invoice](svc.Get)
}

// DownloadInvoice streams the invoice PDF.
//
// @Summary  Download invoice PDF
// @Tags     invoices
// @Produce  application/pdf
// @Param    id path string true "invoice id"
// @Router   /api/invoices/{id}/download [get]
func DownloadInvoice(svc service.InvoiceService) fiber.Handler {
	return downloadHandler(svc.Download)
}

func DeleteInvoice(svc service.InvoiceService) fiber.Handler {
	return deleteHandler(svc.Delete)
}

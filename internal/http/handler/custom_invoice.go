package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"docissuer/internal/model"
	"docissuer/internal/service"
)

type customInvoiceRequest struct {
	RecipientName    string           `json:"recipient_name"`
	RecipientEmail   string           `json:"recipient_email,omitempty"`
	RecipientPhone   string           `json:"recipient_phone,omitempty"`
	RecipientAddress string           `json:"recipient_address,omitempty"`
	PaymentDate      string           `json:"payment_date" example:"2026-04-01"`
	Items            []model.LineItem `json:"items"`
	TaxPercentage    decimal.Decimal  `json:"tax_percentage"`
	Discount         decimal.Decimal  `json:"discount"`
	AmountPaid       decimal.Decimal  `json:"amount_paid"`
	Notes            string           `json:"notes,omitempty"`
}

func (r customInvoiceRequest) input() (service.CustomInvoiceInput, error) {
	paid, err := parseDate("payment_date", r.PaymentDate)
	if err != nil {
		return service.CustomInvoiceInput{}, err
	}
	return service.CustomInvoiceInput{
		Recipient: model.Recipient{
			Name:    r.RecipientName,
			Email:   r.RecipientEmail,
			Phone:   r.RecipientPhone,
			Address: r.RecipientAddress,
		},
		PaymentDate:   paid,
		Items:         r.Items,
		TaxPercentage: r.TaxPercentage,
		Discount:      r.Discount,
		AmountPaid:    r.AmountPaid,
		Notes:         r.Notes,
	}, nil
}

// IssueCustomInvoice creates a numbered invoice with free-form line items.
//
// @Summary  Issue custom invoice
// @Tags     custom-invoices
// @Accept   json
// @Produce  json
// @Param    body body customInvoiceRequest true "custom invoice"
// @Success  201 {object} model.CustomInvoice
// @Failure  400 {object} errorPayload
// @Router   /api/invoices/custom [post]
func IssueCustomInvoice(svc service.CustomInvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req customInvoiceRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in, err := req.input()
		if err != nil {
			return writeServiceError(c, err)
		}
		ci, err := svc.Issue(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ci)
	}
}

// UpdateCustomInvoice replaces the items and amounts of a custom invoice.
//
// @Summary  Update custom invoice
// @Tags     custom-invoices
// @Accept   json
// @Produce  json
// @Param    id   path string true "custom invoice id"
// @Param    body body customInvoiceRequest true "custom invoice"
// @Router   /api/invoices/custom/{id} [put]
func UpdateCustomInvoice(svc service.CustomInvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req customInvoiceRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in, err := req.input()
		if err != nil {
			return writeServiceError(c, err)
		}
		ci, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ci)
	}
}

func ListCustomInvoices(svc service.CustomInvoiceService) fiber.Handler {
	return listHandler[model.CustomInvoice](svc.List, false)
}

func GetCustomInvoice(svc service.CustomInvoiceService) fiber.Handler {
	return getHandler[model.CustomInvoice](svc.Get)
}

func DownloadCustomInvoice(svc service.CustomInvoiceService) fiber.Handler {
	return downloadHandler(svc.Download)
}

func DeleteCustomInvoice(svc service.CustomInvoiceService) fiber.Handler {
	return deleteHandler(svc.Delete)
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"docissuer/internal/model"
	"docissuer/internal/service"
)

type certificateRequest struct {
	Student        int64  `json:"student"`
	Course         int64  `json:"course"`
	Batch          *int64 `json:"batch,omitempty"`
	CompletionDate string `json:"completion_date" example:"2026-02-28"`
}

// IssueCertificate creates a numbered completion certificate.
//
// @Summary  Issue certificate
// @Tags     certificates
// @Accept   json
// @Produce  json
// @Param    body body certificateRequest true "certificate"
// @Success  201 {object} model.Certificate
// @Failure  400 {object} errorPayload
// @Router   /api/certificates [post]
func IssueCertificate(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req certificateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		completed, err := parseDate("completion_date", req.CompletionDate)
		if err != nil {
			return writeServiceError(c, err)
		}
		cert, err := svc.Issue(c.UserContext(), service.CertificateInput{
			StudentID:      req.Student,
			CourseID:       req.Course,
			BatchID:        req.Batch,
			CompletionDate: completed,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cert)
	}
}

// VerifyCertificate is the public authenticity lookup.
//
// @Summary  Verify certificate
// @Tags     certificates
// @Produce  json
// @Param    certificate_id query string true "e.g. CERT-2026-0001"
// @Success  200 {object} map[string]any
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/certificates/verify [get]
func VerifyCertificate(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := svc.Verify(c.UserContext(), c.Query("certificate_id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"valid": true, "certificate": v})
	}
}

func ListCertificates(svc service.CertificateService) fiber.Handler {
	return listHandler[model.Certificate](svc.List, true)
}

func GetCertificate(svc service.CertificateService) fiber.Handler {
	return getHandler[model.Certificate](svc.Get)
}

func DownloadCertificate(svc service.CertificateService) fiber.Handler {
	return downloadHandler(svc.Download)
}

func DeleteCertificate(svc service.CertificateService) fiber.Handler {
	return deleteHandler(svc.Delete)
}

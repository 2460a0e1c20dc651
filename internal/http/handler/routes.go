package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docissuer/internal/service"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Invoices       service.InvoiceService
	CustomInvoices service.CustomInvoiceService
	Certificates   service.CertificateService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Static
// segments (custom, verify) are registered before the :id routes they
// would otherwise collide with.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	custom := api.Group("/invoices/custom")
	custom.Post("/", IssueCustomInvoice(svc.CustomInvoices))
	custom.Get("/", ListCustomInvoices(svc.CustomInvoices))
	custom.Get("/:id", GetCustomInvoice(svc.CustomInvoices))
	custom.Put("/:id", UpdateCustomInvoice(svc.CustomInvoices))
	custom.Get("/:id/download", DownloadCustomInvoice(svc.CustomInvoices))
	custom.Delete("/:id", DeleteCustomInvoice(svc.CustomInvoices))

	inv := api.Group("/invoices")
	inv.Post("/", IssueInvoice(svc.Invoices))
	inv.Get("/", ListInvoices(svc.Invoices))
	inv.Get("/:id", GetInvoice(svc.Invoices))
	inv.Get("/:id/download", DownloadInvoice(svc.Invoices))
	inv.Delete("/:id", DeleteInvoice(svc.Invoices))

	certs := api.Group("/certificates")
	certs.Get("/verify", VerifyCertificate(svc.Certificates))
	certs.Post("/", IssueCertificate(svc.Certificates))
	certs.Get("/", ListCertificates(svc.Certificates))
	certs.Get("/:id", GetCertificate(svc.Certificates))
	certs.Get("/:id/download", DownloadCertificate(svc.Certificates))
	certs.Delete("/:id", DeleteCertificate(svc.Certificates))
}

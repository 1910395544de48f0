package handlers

import (
	"errors"
	"fmt"
	"log"

	"retromart/internal/repositories"
	"retromart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles HTTP requests for the dashboard aggregations and
// the invoice log.
type ReportHandler struct {
	service *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers the reporting and invoice lookup routes.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Get("/genders", h.HandleGenderDistribution)
	reportRoutes.Get("/ages", h.HandleAgeDistribution)

	invoiceRoutes := router.Group("/invoices")
	invoiceRoutes.Get("/", h.HandleListInvoices)
	invoiceRoutes.Get("/:number", h.HandleGetInvoice)
}

// HandleGenderDistribution returns registration counts per gender.
func (h *ReportHandler) HandleGenderDistribution(c *fiber.Ctx) error {
	counts, err := h.service.GenderDistribution()
	if err != nil {
		log.Printf("Error computing gender distribution: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute gender distribution",
			"error":   err.Error(),
		})
	}
	return c.JSON(counts)
}

// HandleAgeDistribution returns registration counts per age bracket.
func (h *ReportHandler) HandleAgeDistribution(c *fiber.Ctx) error {
	counts, err := h.service.AgeBracketDistribution(services.DefaultAgeBrackets)
	if err != nil {
		log.Printf("Error computing age distribution: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute age distribution",
			"error":   err.Error(),
		})
	}
	return c.JSON(counts)
}

// HandleListInvoices returns the whole invoice log.
func (h *ReportHandler) HandleListInvoices(c *fiber.Ctx) error {
	invoices, err := h.service.ListInvoices()
	if err != nil {
		log.Printf("Error listing invoices: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve invoices",
			"error":   err.Error(),
		})
	}
	return c.JSON(invoices)
}

// HandleGetInvoice looks an invoice up by its exact number.
func (h *ReportHandler) HandleGetInvoice(c *fiber.Ctx) error {
	number := c.Params("number")
	invoice, err := h.service.GetInvoice(number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Invoice %s not found", number),
			})
		}
		log.Printf("Error getting invoice %s: %v", number, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve invoice",
			"error":   err.Error(),
		})
	}
	return c.JSON(invoice)
}

package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frescomar/allocation-api/internal/models"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
	"github.com/frescomar/allocation-api/pkg/export"
	"github.com/frescomar/allocation-api/pkg/response"
)

type inventoryService interface {
	List(filter models.LotFilter) []models.Lot
}

// InventoryHandler exposes the inventory lot endpoints.
type InventoryHandler struct {
	service inventoryService
	csv     *export.CSVExporter
	excel   *export.ExcelExporter
	pdf     *export.PDFExporter
}

// NewInventoryHandler builds a new handler.
func NewInventoryHandler(service inventoryService) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		csv:     export.NewCSVExporter(),
		excel:   export.NewExcelExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// List godoc
// @Summary List inventory lots
// @Tags Inventory
// @Produce json
// @Param search query string false "Free-text filter (PO, material, product, customer, warehouse...)"
// @Param includeClosed query bool false "Include closed lots"
// @Success 200 {object} response.Envelope
// @Router /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	filter := models.LotFilter{
		Search:        c.Query("search"),
		IncludeClosed: c.Query("includeClosed") == "true",
	}
	response.JSON(c, http.StatusOK, h.service.List(filter))
}

// Export godoc
// @Summary Export active inventory as csv, xlsx or pdf
// @Tags Inventory
// @Produce octet-stream
// @Param format query string false "csv (default), xlsx or pdf"
// @Success 200 {file} binary
// @Router /inventory/export [get]
func (h *InventoryHandler) Export(c *gin.Context) {
	lots := h.service.List(models.LotFilter{Search: c.Query("search")})
	dataset := inventoryDataset(lots)

	filename := fmt.Sprintf("inventory-%s", time.Now().UTC().Format("20060102"))
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	case "xlsx":
		payload, err := h.excel.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Available inventory")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
	}
}

func inventoryDataset(lots []models.Lot) export.Dataset {
	headers := []string{"PO", "Warehouse", "Material", "Description", "Product", "Size", "Boxes", "Lbs", "ETA", "Status", "AWB"}
	rows := make([]map[string]string, 0, len(lots))
	for _, lot := range lots {
		awb := "-"
		if lot.AWB != nil && *lot.AWB != "" {
			awb = *lot.AWB
		}
		rows = append(rows, map[string]string{
			"PO":          lot.PO,
			"Warehouse":   lot.Warehouse,
			"Material":    lot.Material,
			"Description": lot.Description,
			"Product":     lot.Product,
			"Size":        lot.Size,
			"Boxes":       fmt.Sprintf("%d", lot.AvailableBoxes),
			"Lbs":         lot.AvailableLbs().String(),
			"ETA":         lot.ETA,
			"Status":      lot.Status,
			"AWB":         awb,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "printforge.backend/internal/domain/errors"
	"printforge.backend/internal/interfaces/http/response"
	"printforge.backend/internal/usecases"
)

const exportDateLayout = "2006-01-02"

type transactionExporter interface {
	WriteCSV(ctx context.Context, w io.Writer, from, to time.Time) error
	WriteXLSX(ctx context.Context, w io.Writer, from, to time.Time) error
}

// ExportHandler streams ledger exports for back-office reconciliation
type ExportHandler struct {
	exportUsecase transactionExporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportUsecase *usecases.ExportUsecase) *ExportHandler {
	return &ExportHandler{exportUsecase: exportUsecase}
}

// ExportTransactions downloads the ledger as csv or xlsx. from and to are
// YYYY-MM-DD dates, both optional; to is inclusive of the named day.
// GET /api/v1/admin/loyalty/transactions/export?format=csv&from=2026-01-01&to=2026-01-31
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	from, to, err := exportWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	filename := fmt.Sprintf("loyalty-transactions-%s", time.Now().Format(exportDateLayout))
	ctx := c.Request.Context()

	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		if err := h.exportUsecase.WriteCSV(ctx, c.Writer, from, to); err != nil {
			response.Error(c, err)
			return
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		if err := h.exportUsecase.WriteXLSX(ctx, c.Writer, from, to); err != nil {
			response.Error(c, err)
			return
		}
	default:
		response.Error(c, domainerrors.BadRequest("format must be csv or xlsx"))
	}
}

func exportWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time

	if fromStr != "" {
		parsed, err := time.Parse(exportDateLayout, fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", fromStr)
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse(exportDateLayout, toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", toStr)
		}
		// Bump to the following midnight so the named day is included.
		to = parsed.AddDate(0, 0, 1)
	}

	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return from, to, fmt.Errorf("to date precedes from date")
	}
	return from, to, nil
}

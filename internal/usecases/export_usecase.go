package usecases

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	domainRepos "printforge.backend/internal/domain/repositories"
)

var exportHeader = []string{"Transaction ID", "Customer ID", "Delta", "Reason", "Order ID", "Note", "Created At"}

// ExportUsecase renders the transaction ledger as CSV or XLSX for
// back-office reconciliation.
type ExportUsecase struct {
	ledgerRepo domainRepos.LedgerTransactionRepository
}

// NewExportUsecase creates a new export usecase
func NewExportUsecase(ledgerRepo domainRepos.LedgerTransactionRepository) *ExportUsecase {
	return &ExportUsecase{ledgerRepo: ledgerRepo}
}

// WriteCSV streams transactions in [from, to) as CSV. Zero bounds are open.
func (u *ExportUsecase) WriteCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	rows, err := u.rows(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes transactions in [from, to) as a spreadsheet.
func (u *ExportUsecase) WriteXLSX(ctx context.Context, w io.Writer, from, to time.Time) error {
	rows, err := u.rows(ctx, from, to)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	for i, h := range exportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}
	for idx, row := range rows {
		r := idx + 2
		for i, val := range row {
			f.SetCellValue(sheet, fmt.Sprintf("%c%d", 'A'+i, r), val)
		}
	}

	f.SetColWidth(sheet, "A", "B", 38)
	f.SetColWidth(sheet, "C", "D", 12)
	f.SetColWidth(sheet, "E", "E", 38)
	f.SetColWidth(sheet, "F", "F", 30)
	f.SetColWidth(sheet, "G", "G", 22)

	if err := f.Write(w); err != nil {
		return err
	}
	return f.Close()
}

func (u *ExportUsecase) rows(ctx context.Context, from, to time.Time) ([][]string, error) {
	txs, err := u.ledgerRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		orderID := ""
		if tx.OrderID != nil {
			orderID = tx.OrderID.String()
		}
		rows = append(rows, []string{
			tx.ID.String(),
			tx.CustomerID.String(),
			strconv.Itoa(tx.Delta),
			string(tx.Reason),
			orderID,
			tx.Note.String,
			tx.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

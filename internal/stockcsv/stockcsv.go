// Package stockcsv reads stock-level import files and writes stock exports.
package stockcsv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"merchantportal/internal/domain"
)

// ExportHeader is the first line of every export.
var ExportHeader = []string{"ProductId", "ProductName", "SKU", "CurrentStock", "MinStock", "MaxStock", "Status"}

// MaxLineLength bounds a single import row.
const MaxLineLength = 64 << 10

// Parse reads an import file: a header line, then ProductId,ProductName,SKU,NewStock[,...]
// rows. Bad rows are reported in the result and skipped. TotalRows counts every line
// after the header, blank ones included.
func Parse(r io.Reader) ([]domain.StockUpdate, domain.StockImportResult, error) {
	res := domain.StockImportResult{Errors: []string{}}
	br := bufio.NewReader(r)
	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 4096), MaxLineLength)
	if !sc.Scan() {
		return nil, res, sc.Err()
	}

	var updates []domain.StockUpdate
	line := 1
	for sc.Scan() {
		line++
		res.TotalRows++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields, err := splitRow(text)
		if err != nil || len(fields) < 4 {
			res.AddLineError(line, "Invalid format")
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(fields[0]))
		if err != nil {
			res.AddLineError(line, "Invalid ProductId")
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			res.AddLineError(line, "Invalid stock value")
			continue
		}
		updates = append(updates, domain.StockUpdate{ProductID: id, NewStockQuantity: stock})
	}
	if err := sc.Err(); err != nil {
		return updates, res, err
	}
	return updates, res, nil
}

func splitRow(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.Read()
}

// Write emits the export header followed by one row per product.
func Write(w io.Writer, products []domain.LowStockProduct) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, p := range products {
		rec := []string{
			p.ProductID.String(),
			p.ProductName,
			p.SKU,
			strconv.Itoa(p.CurrentStock),
			strconv.Itoa(p.MinStock),
			strconv.Itoa(p.MaxStock),
			p.Status,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", p.ProductID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

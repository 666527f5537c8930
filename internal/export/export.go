// Package export serializes a job's URL results for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sitescout-engine/internal/domain"
)

var columns = []string{"URL", "Title", "Description", "Status", "Valid", "Source", "Error"}

// CSV renders results as comma-separated text prefixed with a UTF-8 BOM so
// spreadsheet tools pick up the encoding. Fields containing commas, quotes
// or newlines are double-quote escaped.
func CSV(results []domain.URLResult) []byte {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	_ = w.Write(columns)
	for _, r := range results {
		_ = w.Write(recordFor(r))
	}
	w.Flush()

	return buf.Bytes()
}

// JSON renders results as an array of camelCase objects; absent metadata
// and 0 status codes come out as null.
func JSON(results []domain.URLResult) ([]byte, error) {
	type row struct {
		URL          string  `json:"url"`
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		StatusCode   *int    `json:"statusCode"`
		IsValid      bool    `json:"isValid"`
		Source       string  `json:"source"`
		ErrorMessage *string `json:"errorMessage"`
	}

	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, row{
			URL:          r.URL,
			Title:        strPtr(r.Title),
			Description:  strPtr(r.Description),
			StatusCode:   intPtr(r.StatusCode),
			IsValid:      r.Valid,
			Source:       string(r.Source),
			ErrorMessage: strPtr(r.ErrorMessage),
		})
	}
	return json.MarshalIndent(rows, "", "  ")
}

// XLSX renders results as a single-sheet workbook.
func XLSX(results []domain.URLResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Results"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range results {
		rec := recordFor(r)
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordFor(r domain.URLResult) []string {
	status := ""
	if r.StatusCode != 0 {
		status = strconv.Itoa(r.StatusCode)
	}
	valid := "invalid"
	if r.Valid {
		valid = "valid"
	}
	return []string{r.URL, r.Title, r.Description, status, valid, string(r.Source), r.ErrorMessage}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// Package export writes result listings to CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/papercheck/internal/models"
)

// utf8BOM makes spreadsheet tools detect the encoding, which matters for the
// CJK text in stage labels and issue descriptions.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// resultColumns are the CSV header columns for result exports.
var resultColumns = []string{"id", "paper_id", "paper_title", "grade", "score", "total_issues", "checked_at"}

// ResultsCSV writes results as CSV with a UTF-8 BOM.
func ResultsCSV(w io.Writer, results []models.Result) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.ID,
			r.PaperID,
			r.PaperTitle,
			string(r.Grade),
			strconv.FormatFloat(r.Score, 'f', 1, 64),
			strconv.Itoa(r.TotalIssues),
			r.CheckedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResultsJSON writes results as indented JSON.
func ResultsJSON(w io.Writer, results []models.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

// ToFile writes results to path, picking the format from the extension
// (.csv or .json).
func ToFile(path string, results []models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ResultsCSV(f, results)
	case ".json":
		return ResultsJSON(f, results)
	default:
		return fmt.Errorf("unsupported export format for %q (want .csv or .json)", path)
	}
}

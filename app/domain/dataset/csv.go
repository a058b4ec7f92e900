package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
)

const (
	ExportColumnCompany = "company"
	ExportColumnSource  = "source"
)

// ParseCSV reads a header row followed by data rows. Short rows leave the
// missing columns empty.
func ParseCSV(r io.Reader) ([]string, []Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, common.NewValidationError("f0c2e4a6-8c0e-4a2c-a4e6-8c0e2a4c6e8a", "the CSV file is empty")
	}
	if err != nil {
		return nil, nil, common.NewValidationError("f0c2e4a6-8c0e-4a2c-a4e6-8c0e2a4c6e8a", "invalid CSV header: %v", err)
	}
	seen := map[string]bool{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h != "" && seen[h] {
			return nil, nil, common.NewValidationError("f0c2e4a6-8c0e-4a2c-a4e6-8c0e2a4c6e8a", "duplicate CSV column %q", h)
		}
		seen[h] = true
		header[i] = h
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, common.NewValidationError("f0c2e4a6-8c0e-4a2c-a4e6-8c0e2a4c6e8a", "invalid CSV at line %d: %v", line, err)
		}
		if isBlank(record) {
			continue
		}
		row := make(Row, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ExportColumns returns company, source, then every attribute name sorted.
func ExportColumns(leads []*lead.Lead) []string {
	keys := map[string]struct{}{}
	for _, l := range leads {
		for k := range l.Attributes {
			if k == ExportColumnCompany || k == ExportColumnSource {
				continue
			}
			keys[k] = struct{}{}
		}
	}
	attrs := make([]string, 0, len(keys))
	for k := range keys {
		attrs = append(attrs, k)
	}
	sort.Strings(attrs)
	return append([]string{ExportColumnCompany, ExportColumnSource}, attrs...)
}

func WriteCSV(w io.Writer, leads []*lead.Lead) error {
	columns := ExportColumns(leads)
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, l := range leads {
		record := make([]string, len(columns))
		record[0] = l.CompanyName
		record[1] = string(l.Source)
		for i, column := range columns[2:] {
			record[i+2] = l.Attributes[column]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteZIP writes a single-entry archive holding the CSV export.
func WriteZIP(w io.Writer, entryName string, leads []*lead.Lead, modified time.Time) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, leads); err != nil {
		return err
	}
	archive := zip.NewWriter(w)
	entry, err := archive.CreateHeader(&zip.FileHeader{
		Name:     entryName,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := entry.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write zip entry: %w", err)
	}
	return archive.Close()
}

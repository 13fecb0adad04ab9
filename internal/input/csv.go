// Package input reads documents out of delimited files.
package input

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/bastiangx/skillserve/pkg/extract"
)

// Columns names the CSV headers that carry the document fields.
// Text is required, ID and Role are optional.
type Columns struct {
	ID   string
	Text string
	Role string
}

// ReadStats counts what happened during a read.
type ReadStats struct {
	RowsRead    int
	RowsSkipped int
}

// ReadDocuments loads a CSV file into documents. The first row is treated
// as a header. Rows with an empty text cell are skipped and counted.
// Documents without an ID column get a positional one.
func ReadDocuments(path string, cols Columns, encoding string) ([]extract.Document, ReadStats, error) {
	var stats ReadStats
	if cols.Text == "" {
		return nil, stats, fmt.Errorf("text column name is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err = decodeBytes(data, encoding, path)
	if err != nil {
		return nil, stats, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, stats, fmt.Errorf("%s is empty", path)
		}
		return nil, stats, fmt.Errorf("reading header of %s: %w", path, err)
	}

	idx := headerIndex(header)
	textIdx, ok := idx[strings.ToLower(cols.Text)]
	if !ok {
		return nil, stats, fmt.Errorf("column %q not found in %s", cols.Text, path)
	}
	idIdx, hasID := idx[strings.ToLower(cols.ID)]
	roleIdx, hasRole := idx[strings.ToLower(cols.Role)]
	if cols.ID != "" && !hasID {
		log.Warnf("id column %q not found, using row numbers", cols.ID)
	}
	if cols.Role != "" && !hasRole {
		log.Warnf("role column %q not found, documents will be ungrouped", cols.Role)
	}

	var docs []extract.Document
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading row %d of %s: %w", row+2, path, err)
		}
		row++
		stats.RowsRead++

		text := ""
		if textIdx < len(record) {
			text = strings.TrimSpace(record[textIdx])
		}
		if text == "" {
			stats.RowsSkipped++
			continue
		}

		doc := extract.Document{Text: text}
		if hasID && idIdx < len(record) && strings.TrimSpace(record[idIdx]) != "" {
			doc.ID = strings.TrimSpace(record[idIdx])
		} else {
			doc.ID = fmt.Sprintf("row-%d", row)
		}
		if hasRole && roleIdx < len(record) {
			doc.Role = strings.TrimSpace(record[roleIdx])
		}
		docs = append(docs, doc)
	}

	if stats.RowsSkipped > 0 {
		log.Warnf("skipped %d rows with empty %q in %s", stats.RowsSkipped, cols.Text, path)
	}
	return docs, stats, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(stripBOM(name)))
		if name == "" {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

// decodeBytes handles the encoding setting. "utf-8" takes the bytes as is,
// "windows-1252" (or "latin-1") always transcodes, and "auto" transcodes
// only when the bytes are not valid UTF-8.
func decodeBytes(data []byte, encoding string, path string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "auto":
		if utf8.Valid(data) {
			return data, nil
		}
		log.Warnf("%s is not valid UTF-8, falling back to windows-1252", path)
		return decodeWindows1252(data)
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%s is not valid UTF-8", path)
		}
		return data, nil
	case "windows-1252", "latin-1", "latin1", "iso-8859-1":
		return decodeWindows1252(data)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

func decodeWindows1252(data []byte) ([]byte, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding windows-1252: %w", err)
	}
	return out, nil
}

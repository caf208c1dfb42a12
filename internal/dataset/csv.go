// Package dataset reads ARAM participation CSVs and turns them into
// validated, normalized tables.
package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pable/aram-stats/internal/model"
)

// RawTable is a CSV file as read: a header and string records.
type RawTable struct {
	Header  []string
	Records [][]string
}

// ReadCSV reads a header row followed by records. Records may be shorter or
// longer than the header; missing cells read as empty.
func ReadCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	raw := &RawTable{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(raw.Records)+1, err)
		}
		raw.Records = append(raw.Records, rec)
	}
	return raw, nil
}

// LoadFile reads, hashes and normalizes the CSV at path.
// The hash of the file bytes is the dataset identity used for caching and storage.
func LoadFile(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash csv: %w", err)
	}
	hash := fmt.Sprintf("%x", h.Sum(nil))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek csv: %w", err)
	}

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	table, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", path, err)
	}
	return &model.Dataset{Hash: hash, Source: path, Table: table}, nil
}

package main

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/Elevated-Standards/mappings-sub003/internal/override"
	"github.com/Elevated-Standards/mappings-sub003/internal/plan"
)

// sampleRows bounds the rows kept for cell_content conditions.
const sampleRows = 20

// readCSVDocument builds a plan document from a CSV file: the first record is
// the header row, and the following records give the row count and sample.
func readCSVDocument(path string, base override.Context) (plan.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return plan.Document{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return plan.Document{}, errors.Wrapf(err, "stat %s", path)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return plan.Document{}, errors.Wrapf(err, "read header row of %s", path)
	}

	var (
		rows   int
		sample [][]string
	)

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return plan.Document{}, errors.Wrapf(err, "read %s", path)
		}

		rows++

		if len(sample) < sampleRows {
			sample = append(sample, rec)
		}
	}

	ctx := base.
		WithFileName(filepath.Base(path)).
		WithHeaders(headers...).
		WithRowCount(rows).
		WithFileSize(info.Size()).
		WithSampleData(sample)

	return plan.Document{Name: path, Context: ctx}, nil
}

package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported lead file format")

// readFile decodes a lead file by extension: .json holds an array of CRM
// records, .csv and .xlsx a header row followed by one lead per row. The int
// result counts JSON elements that were not records.
func readFile(path string) ([]leadRecord, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		return decodeJSON(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		rows, err := readCSV(f)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", path, err)
		}
		return fromRows(rows), 0, nil
	case ".xlsx":
		rows, err := readXLSX(path)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", path, err)
		}
		return fromRows(rows), 0, nil
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// decodeJSON reads a JSON array of CRM records. Only a broken array fails;
// elements that are not records are dropped and counted.
func decodeJSON(r io.Reader) ([]leadRecord, int, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decode leads: %w", err)
	}
	recs, dropped := fromRaw(raw)
	return recs, dropped, nil
}

func fromRaw(raw []json.RawMessage) ([]leadRecord, int) {
	recs := make([]leadRecord, 0, len(raw))
	dropped := 0
	for _, m := range raw {
		var rec leadRecord
		if bytes.Equal(bytes.TrimSpace(m), []byte("null")) {
			dropped++
			continue
		}
		if err := json.Unmarshal(m, &rec); err != nil {
			dropped++
			continue
		}
		recs = append(recs, rec)
	}
	return recs, dropped
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// readXLSX streams the first sheet of the workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out [][]string
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		out = append(out, cols)
	}
	return out, rows.Error()
}

// columns maps a squashed header name to the record field it fills.
var columns = map[string]func(*leadRecord, string){
	"id":             func(r *leadRecord, v string) { r.ID = v },
	"leadid":         func(r *leadRecord, v string) { r.ID = v },
	"status":         func(r *leadRecord, v string) { r.Status = v },
	"originalstatus": func(r *leadRecord, v string) { r.Status = v },
	"nrcount":        func(r *leadRecord, v string) { r.NRCount = v },
	"country":        func(r *leadRecord, v string) { r.Country = v },
	"language":       func(r *leadRecord, v string) { r.Language = v },
	"source":         func(r *leadRecord, v string) { r.Source = v },
	"treatment":      func(r *leadRecord, v string) { r.Treatment = v },
	"rep":            func(r *leadRecord, v string) { r.RepName = v },
	"repname":        func(r *leadRecord, v string) { r.RepName = v },
	"createdate":     func(r *leadRecord, v string) { r.CreateDate = v },
	"date":           func(r *leadRecord, v string) { r.CreateDate = v },
	"leadscore":      func(r *leadRecord, v string) { r.LeadScore = v },
	"score":          func(r *leadRecord, v string) { r.LeadScore = v },
}

func squash(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func fromRows(rows [][]string) []leadRecord {
	if len(rows) == 0 {
		return nil
	}
	set := make([]func(*leadRecord, string), len(rows[0]))
	for i, h := range rows[0] {
		set[i] = columns[squash(h)]
	}
	out := make([]leadRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var r leadRecord
		for i, v := range row {
			if i < len(set) && set[i] != nil {
				set[i](&r, v)
			}
		}
		out = append(out, r)
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

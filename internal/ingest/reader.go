package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	apperrors "github.com/mialing7/pricing-dashboard/internal/errors"
)

// Table holds one parsed spreadsheet: trimmed header plus raw cell rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Reader parses a single CSV or Excel file into a raw Table.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader. A nil logger falls back to slog.Default.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Read parses the named file content. The format is chosen by extension:
// .csv is delimited text with encoding fallback, .xlsx/.xls is a workbook.
func (r *Reader) Read(name string, data []byte) (*Table, error) {
	var (
		tbl *Table
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		tbl, err = r.readWorkbook(name, data)
	default:
		tbl, err = r.readCSV(name, data)
	}
	if err != nil {
		return nil, err
	}

	for i, col := range tbl.Header {
		tbl.Header[i] = strings.TrimSpace(col)
	}
	r.logger.Info("parsed input file",
		slog.String("file", name),
		slog.Int("columns", len(tbl.Header)),
		slog.Int("rows", len(tbl.Rows)))
	return tbl, nil
}

// csvEncodings is the ordered list of decode attempts for delimited text.
var csvEncodings = []struct {
	name   string
	decode func([]byte) ([]byte, error)
}{
	{"utf-8", decodeUTF8},
	{"gbk", decodeGBK},
}

func (r *Reader) readCSV(name string, data []byte) (*Table, error) {
	var lastErr error
	attempted := make([]string, 0, len(csvEncodings))
	for _, enc := range csvEncodings {
		attempted = append(attempted, enc.name)
		decoded, err := enc.decode(data)
		if err != nil {
			lastErr = err
			continue
		}
		tbl, err := parseCSV(decoded)
		if err != nil {
			lastErr = err
			continue
		}
		r.logger.Debug("decoded csv input",
			slog.String("file", name),
			slog.String("encoding", enc.name))
		return tbl, nil
	}
	return nil, &apperrors.FileReadError{Name: name, Encodings: attempted, Err: lastErr}
}

func (r *Reader) readWorkbook(name string, data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &apperrors.FileReadError{Name: name, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &apperrors.FileReadError{Name: name, Err: fmt.Errorf("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &apperrors.FileReadError{Name: name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &apperrors.FileReadError{Name: name, Err: fmt.Errorf("sheet %q is empty", sheets[0])}
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

func parseCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return &Table{Header: header, Rows: rows}, nil
}

func decodeUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("input is not valid UTF-8")
	}
	return data, nil
}

func decodeGBK(data []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("gbk decode: %w", err)
	}
	return decoded, nil
}

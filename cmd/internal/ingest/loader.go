package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrLoad      = errors.New("could not load the file")
	ErrEmptyFile = errors.New("file has no rows")
)

// ObjectReader is the part of the object store the loader needs.
type ObjectReader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type Loader struct {
	store ObjectReader
}

func NewLoader(store ObjectReader) *Loader {
	return &Loader{store: store}
}

// Load fetches the object at path and decodes its first sheet.
func (l *Loader) Load(ctx context.Context, path string) (*RawRecords, error) {
	data, err := l.store.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return Decode(data)
}

// Decode tries the binary spreadsheet formats first and falls back to CSV text.
func Decode(data []byte) (*RawRecords, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrLoad, ErrEmptyFile)
	}

	rows, binErr := decodeBinary(data)
	if binErr != nil {
		var textErr error
		rows, textErr = decodeText(data)
		if textErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoad, errors.Join(binErr, textErr))
		}
	}

	recs := fromRows(rows)
	if len(recs.Headers) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrLoad, ErrEmptyFile)
	}
	return recs, nil
}

func decodeBinary(data []byte) ([][]string, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), mt.Is("application/zip"):
		return decodeXLSX(data)
	case mt.Is("application/vnd.ms-excel"), mt.Is("application/x-ole-storage"):
		return decodeXLS(data)
	default:
		return nil, fmt.Errorf("not a binary workbook (%s)", mt.String())
	}
}

func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	// raw values keep date cells as serial numbers, ParseDateFlexible handles them
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func decodeXLS(data []byte) (rows [][]string, err error) {
	// the xls reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cols := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		rows = append(rows, cols)
	}
	return rows, nil
}

func decodeText(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	text := string(data)
	firstLine, _, _ := strings.Cut(text, "\n")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = DetectDelimiter(firstLine)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// DetectDelimiter picks ';' when the header line has more semicolons than commas.
func DetectDelimiter(headerLine string) rune {
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		return ';'
	}
	return ','
}

func fromRows(rows [][]string) *RawRecords {
	out := &RawRecords{}

	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return out
	}

	header := rows[start]
	keys := make([]string, len(header))
	used := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if n, dup := used[h]; dup {
			used[h] = n + 1
			h = h + "_" + strconv.Itoa(n)
		} else {
			used[h] = 1
		}
		keys[i] = h
		out.Headers = append(out.Headers, h)
	}

	for _, row := range rows[start+1:] {
		if blankRow(row) {
			continue
		}
		rec := make(map[string]string, len(out.Headers))
		for _, h := range out.Headers {
			rec[h] = ""
		}
		for i, v := range row {
			if i < len(keys) && keys[i] != "" {
				rec[keys[i]] = v
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

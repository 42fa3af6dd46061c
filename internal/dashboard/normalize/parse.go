package normalize

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Upload is one file received for a dataset.
type Upload struct {
	Name    string
	Content []byte
}

// Format tells which reader produced a Raw table.
type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatSpreadsheet Format = "spreadsheet"
)

// Raw is a parsed but untyped table: a header and rows of equal width.
type Raw struct {
	Header []string
	Rows   [][]string
	Format Format
	// Skipped counts delimited-text lines dropped for having the wrong
	// number of fields.
	Skipped int
}

var zipMagic = []byte("PK\x03\x04")

var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Parse reads content as delimited text and, when that fails, as the first
// sheet of a spreadsheet workbook.
func Parse(content []byte) (Raw, error) {
	raw, csvErr := parseDelimited(content)
	if csvErr == nil {
		return raw, nil
	}
	raw, xlsErr := parseSpreadsheet(content)
	if xlsErr == nil {
		return raw, nil
	}
	return Raw{}, fmt.Errorf("%w: delimited text: %v; spreadsheet: %v", types.ErrParseFailure, csvErr, xlsErr)
}

func decode(content []byte) io.Reader {
	if utf8.Valid(content) {
		return bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf")))
	}
	// Spreadsheet exports from Windows hosts come in Windows-1252
	return charmap.Windows1252.NewDecoder().Reader(bytes.NewReader(content))
}

// parseDelimited reads every row itself because gota's ReadCSV fails the
// whole file on one line of the wrong width; such lines are skipped here and
// the records are handed to dataframe.LoadRecords afterwards.
func parseDelimited(content []byte) (Raw, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return Raw{}, errors.New("empty content")
	}
	if bytes.HasPrefix(content, zipMagic) || bytes.IndexByte(content, 0) >= 0 {
		return Raw{}, errors.New("binary content")
	}

	text, err := io.ReadAll(decode(content))
	if err != nil {
		return Raw{}, fmt.Errorf("decode: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Raw{}, fmt.Errorf("read header: %w", err)
	}
	header = cleanHeader(header)
	if len(header) == 0 {
		return Raw{}, errors.New("no columns")
	}

	raw := Raw{Header: header, Format: FormatDelimited}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				raw.Skipped++
				continue
			}
			return Raw{}, fmt.Errorf("read row: %w", err)
		}
		if len(record) > len(header) && isBlank(record[len(header):]) {
			record = record[:len(header)]
		}
		if len(record) != len(header) {
			raw.Skipped++
			continue
		}
		raw.Rows = append(raw.Rows, record)
	}
	return raw, nil
}

// sniffDelimiter picks the candidate that occurs most often on the first line.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(string(line), string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	for len(out) > 0 && out[len(out)-1] == "" && len(out) > 1 {
		out = out[:len(out)-1]
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return uniqueNames(out)
}

// uniqueNames suffixes repeated column names as "X.1", "X.2" so the first
// occurrence keeps its plain name.
func uniqueNames(names []string) []string {
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n
		if n == "" {
			continue
		}
		if seen[n] > 0 {
			k := seen[n]
			for taken[fmt.Sprintf("%s.%d", n, k)] {
				k++
			}
			out[i] = fmt.Sprintf("%s.%d", n, k)
			taken[out[i]] = true
			seen[n] = k + 1
			continue
		}
		seen[n] = 1
	}
	return out
}

func parseSpreadsheet(content []byte) (Raw, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Raw{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Raw{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Raw{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Raw{}, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	header := cleanHeader(rows[0])
	if len(header) == 0 {
		return Raw{}, fmt.Errorf("sheet %s has no header", sheets[0])
	}

	raw := Raw{Header: header, Format: FormatSpreadsheet}
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells, pad back to the header width
		record := make([]string, len(header))
		copy(record, row)
		if isBlank(record) {
			continue
		}
		raw.Rows = append(raw.Rows, record)
	}
	return raw, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

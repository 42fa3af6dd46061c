package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/parquet-go/parquet-go"
)

// DefaultDir is where snapshots live unless configured otherwise.
const DefaultDir = "../persisted_data"

// columnOrderKey holds the original column order; parquet groups sort their
// fields by name.
const columnOrderKey = "dashboard.columns"

const columnSeparator = "\x1f"

// Store keeps one parquet file per dataset slot in a directory.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(slot string) string {
	return filepath.Join(s.dir, "df_"+slot+".parquet")
}

func (s *Store) Exists(slot string) bool {
	_, err := os.Stat(s.Path(slot))
	return err == nil
}

// Save writes df to the slot. An absent or empty table is not an error:
// nothing is written and saved is false.
func (s *Store) Save(slot string, df dataframe.DataFrame) (saved bool, err error) {
	if frame.IsAbsent(df) || df.Nrow() == 0 {
		return false, nil
	}

	names := df.Names()
	kinds := df.Types()
	group := make(parquet.Group, len(names))
	for i, name := range names {
		group[name] = nodeFor(kinds[i])
	}
	schema := parquet.NewSchema("Snapshot", group)

	records := make([]map[string]interface{}, df.Nrow())
	for i := range records {
		records[i] = make(map[string]interface{}, len(names))
	}
	for c, name := range names {
		col := df.Col(name)
		for i := 0; i < col.Len(); i++ {
			records[i][name] = cellValue(col.Elem(i), kinds[c])
		}
	}

	tmp, err := os.CreateTemp(s.dir, "."+slot+"-*.parquet")
	if err != nil {
		return false, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := parquet.NewGenericWriter[map[string]interface{}](tmp,
		&parquet.WriterConfig{Schema: schema},
		parquet.KeyValueMetadata(columnOrderKey, strings.Join(names, columnSeparator)),
	)
	if _, err := writer.Write(records); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to write records: %w", err)
	}
	if err := writer.Close(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to close writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(slot)); err != nil {
		return false, fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return true, nil
}

// Load returns the slot's table. ok is false when the file does not exist,
// and also when it cannot be read, in which case err wraps
// types.ErrCorruptSnapshot.
func (s *Store) Load(slot string) (df dataframe.DataFrame, ok bool, err error) {
	path := s.Path(slot)
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return dataframe.DataFrame{}, false, nil
	}
	if err != nil {
		return dataframe.DataFrame{}, false, fmt.Errorf("%w: %s: %v", types.ErrCorruptSnapshot, filepath.Base(path), err)
	}
	defer file.Close()

	df, err = read(file)
	if err != nil {
		return dataframe.DataFrame{}, false, fmt.Errorf("%w: %s: %v", types.ErrCorruptSnapshot, filepath.Base(path), err)
	}
	return df, true, nil
}

// Delete removes the slot's file. removed is false when there was none.
func (s *Store) Delete(slot string) (removed bool, err error) {
	err = os.Remove(s.Path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func read(file *os.File) (dataframe.DataFrame, error) {
	stat, err := file.Stat()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to get file stats: %w", err)
	}
	reader, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fields := reader.Schema().Fields()
	if len(fields) == 0 {
		return dataframe.DataFrame{}, errors.New("snapshot has no columns")
	}
	cells := make([][]string, len(fields))
	kinds := make([]series.Type, len(fields))
	for i, f := range fields {
		kinds[i] = typeFor(f.Type().Kind())
	}

	buf := make([]parquet.Row, 256)
	for _, rg := range reader.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				if len(row) != len(fields) {
					rows.Close()
					return dataframe.DataFrame{}, fmt.Errorf("row has %d values, schema has %d columns", len(row), len(fields))
				}
				for _, v := range row {
					c := v.Column()
					cells[c] = append(cells[c], valueText(v))
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return dataframe.DataFrame{}, fmt.Errorf("failed to read rows: %w", err)
			}
		}
		rows.Close()
	}

	byName := make(map[string]series.Series, len(fields))
	for i, f := range fields {
		byName[f.Name()] = series.New(cells[i], kinds[i], f.Name())
	}

	order := fieldNames(fields)
	if meta, ok := reader.Lookup(columnOrderKey); ok {
		if saved := strings.Split(meta, columnSeparator); len(saved) == len(order) {
			order = saved
		}
	}

	cols := make([]series.Series, 0, len(order))
	for _, name := range order {
		col, ok := byName[name]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("column order names unknown column %q", name)
		}
		cols = append(cols, col)
	}
	df := dataframe.New(cols...)
	return df, df.Error()
}

func fieldNames(fields []parquet.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

func nodeFor(t series.Type) parquet.Node {
	switch t {
	case series.Int:
		return parquet.Optional(parquet.Leaf(parquet.Int64Type))
	case series.Float:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case series.Bool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

func typeFor(k parquet.Kind) series.Type {
	switch k {
	case parquet.Int32, parquet.Int64:
		return series.Int
	case parquet.Float, parquet.Double:
		return series.Float
	case parquet.Boolean:
		return series.Bool
	default:
		return series.String
	}
}

// cellValue converts a gota element to the Go value the writer expects; nil
// marks a missing cell.
func cellValue(e series.Element, t series.Type) interface{} {
	if e.IsNA() {
		return nil
	}
	switch t {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return int64(v)
	case series.Float:
		return e.Float()
	case series.Bool:
		v, err := e.Bool()
		if err != nil {
			return nil
		}
		return v
	default:
		return e.String()
	}
}

func valueText(v parquet.Value) string {
	if v.IsNull() {
		return frame.NaN
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		// row buffers are reused by the reader
		return strings.Clone(v.String())
	}
}

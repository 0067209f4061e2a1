package table

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/rushteam/admitkit/core"
)

// FromRows 把表头 + 数据行构建为数据表，保持源表行顺序。全空行会被跳过。
func FromRows(rows [][]string) (*core.Table, error) {
	if len(rows) == 0 {
		return nil, eris.New("table: no header row")
	}
	l, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	offerings := make([]core.InstituteOffering, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		offerings = append(offerings, l.offering(row))
	}
	return core.NewTable(offerings, l.schema()), nil
}

// ReadCSV 从 reader 读取 CSV 数据表。
func ReadCSV(ctx context.Context, r io.Reader) (*core.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "csv: context cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}
	return FromRows(rows)
}

// LoadCSV 从文件加载 CSV 数据表。
func LoadCSV(ctx context.Context, path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close()

	t, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: load %s", path)
	}
	zap.L().Info("table: loaded csv",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Schema)),
	)
	return t, nil
}

// LoadXLSX 从 Excel 文件加载数据表；sheet 为空时读取第一个工作表。
func LoadXLSX(ctx context.Context, path, sheet string) (*core.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	s, err := getSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "xlsx: context cancelled")
		}
		rows = append(rows, rowToStrings(row))
	}

	t, err := FromRows(rows)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: load %s", path)
	}
	zap.L().Info("table: loaded xlsx",
		zap.String("path", path),
		zap.String("sheet", s.Name),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Schema)),
	)
	return t, nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, c := range row.Cells {
		cells[j] = c.String()
	}
	return cells
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

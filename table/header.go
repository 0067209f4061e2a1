// Package table 负责把院校截止数据加载为只读的 core.Table（CSV、XLSX、存储快照）。
package table

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/rushteam/admitkit/core"
)

// 基础字段
const (
	FieldInstitute = "institute"
	FieldPlace     = "place"
	FieldBranch    = "branch"
)

var headerAliases = map[string]string{
	"institute_name": FieldInstitute,
	"branch_name":    FieldBranch,
}

var headerReplacer = strings.NewReplacer(" ", "_", "\r\n", "_", "\n", "_", "\r", "_")

// NormalizeHeader 规范化表头：去首尾空白、转小写、空格/换行替换为下划线，
// 并把 institute_name / branch_name 改名为 institute / branch。
func NormalizeHeader(h string) string {
	n := headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
	if alias, ok := headerAliases[n]; ok {
		return alias
	}
	return n
}

// layout 是表头解析结果：基础字段与截止列在行中的位置。
type layout struct {
	institute int
	place     int
	branch    int
	cutoffs   map[core.Column]int
}

func parseHeader(header []string) (*layout, error) {
	l := &layout{institute: -1, place: -1, branch: -1, cutoffs: make(map[core.Column]int)}
	for i, h := range header {
		name := NormalizeHeader(h)
		switch name {
		case FieldInstitute:
			l.institute = i
		case FieldPlace:
			l.place = i
		case FieldBranch:
			l.branch = i
		default:
			if col := core.Column(name); core.IsKnownColumn(col) {
				l.cutoffs[col] = i
			}
		}
	}

	var missing []string
	for name, idx := range map[string]int{FieldInstitute: l.institute, FieldPlace: l.place, FieldBranch: l.branch} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, eris.Errorf("table: missing required columns %v", missing)
	}
	if len(l.cutoffs) == 0 {
		return nil, eris.New("table: no cutoff columns in header")
	}
	return l, nil
}

func (l *layout) schema() core.Schema {
	cols := make([]core.Column, 0, len(l.cutoffs))
	for c := range l.cutoffs {
		cols = append(cols, c)
	}
	return core.NewSchema(cols...)
}

func (l *layout) offering(row []string) core.InstituteOffering {
	cutoffs := make(map[core.Column]int, len(l.cutoffs))
	for col, idx := range l.cutoffs {
		if v, ok := ParseCutoff(cell(row, idx)); ok {
			cutoffs[col] = v
		}
	}
	return core.NewOffering(cell(row, l.institute), cell(row, l.place), cell(row, l.branch), cutoffs)
}

// maxCutoff 是可接受的最大截止排名，超出视为无效。
const maxCutoff = math.MaxInt32

// ParseCutoff 解析截止排名；空值、非数字（如 "NA"、"-"）视为缺失，不会当作 0。
// 数值型单元格常被导出为 "5000.0"，整数值的小数同样接受。
func ParseCutoff(s string) (int, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > maxCutoff {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxCutoff || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}


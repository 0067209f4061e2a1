package core

// Column 是截止排名所在的列名，例如 "oc_boys"、"ews_gen_ou"。
type Column string

const (
	ColumnOCBoys   Column = "oc_boys"
	ColumnOCGirls  Column = "oc_girls"
	ColumnBCABoys  Column = "bc_a_boys"
	ColumnBCAGirls Column = "bc_a_girls"
	ColumnBCBBoys  Column = "bc_b_boys"
	ColumnBCBGirls Column = "bc_b_girls"
	ColumnBCCBoys  Column = "bc_c_boys"
	ColumnBCCGirls Column = "bc_c_girls"
	ColumnBCDBoys  Column = "bc_d_boys"
	ColumnBCDGirls Column = "bc_d_girls"
	ColumnBCEBoys  Column = "bc_e_boys"
	ColumnBCEGirls Column = "bc_e_girls"
	ColumnSCBoys   Column = "sc_boys"
	ColumnSCGirls  Column = "sc_girls"
	ColumnSTBoys   Column = "st_boys"
	ColumnSTGirls  Column = "st_girls"
	ColumnEWSBoys  Column = "ews_gen_ou"
	ColumnEWSGirls Column = "ews_girls_ou"
)

// Columns 是所有已知截止列，按数据表中的顺序排列。
var Columns = []Column{
	ColumnOCBoys, ColumnOCGirls,
	ColumnBCABoys, ColumnBCAGirls,
	ColumnBCBBoys, ColumnBCBGirls,
	ColumnBCCBoys, ColumnBCCGirls,
	ColumnBCDBoys, ColumnBCDGirls,
	ColumnBCEBoys, ColumnBCEGirls,
	ColumnSCBoys, ColumnSCGirls,
	ColumnSTBoys, ColumnSTGirls,
	ColumnEWSBoys, ColumnEWSGirls,
}

// IsKnownColumn 判断列名是否为已知截止列。
func IsKnownColumn(c Column) bool {
	for _, k := range Columns {
		if k == c {
			return true
		}
	}
	return false
}

// InstituteOffering 是数据表中的一行：某院校某地某专业，以及各类别的截止排名。
// 截止排名加载后不可变；缺失或无法解析的值不会出现在 cutoffs 中，视为“无名额”。
type InstituteOffering struct {
	Institute string
	Place     string
	Branch    string

	cutoffs map[Column]int
}

// NewOffering 创建一行数据，cutoffs 会被复制，调用方之后的修改不影响该行。
// 负数截止排名视为无效并被丢弃。
func NewOffering(institute, place, branch string, cutoffs map[Column]int) InstituteOffering {
	cp := make(map[Column]int, len(cutoffs))
	for k, v := range cutoffs {
		if v < 0 {
			continue
		}
		cp[k] = v
	}
	return InstituteOffering{
		Institute: institute,
		Place:     place,
		Branch:    branch,
		cutoffs:   cp,
	}
}

// Cutoff 返回指定列的截止排名；不存在时 ok 为 false。
func (o InstituteOffering) Cutoff(c Column) (int, bool) {
	if o.cutoffs == nil {
		return 0, false
	}
	v, ok := o.cutoffs[c]
	return v, ok
}

// Cutoffs 返回截止排名的副本。
func (o InstituteOffering) Cutoffs() map[Column]int {
	cp := make(map[Column]int, len(o.cutoffs))
	for k, v := range o.cutoffs {
		cp[k] = v
	}
	return cp
}

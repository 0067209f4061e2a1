package core

import "fmt"

// ResolveColumn 把 (category, gender) 映射为决定资格的截止列。
//
// 规则：
//   - EWS 是固定的命名例外：male → ews_gen_ou，female → ews_girls_ou
//   - 其他类别：{category}_boys / {category}_girls
//
// schema 为空时使用 Columns 作为表结构；计算出的列不在表结构中时返回 UNKNOWN_COLUMN。
func ResolveColumn(category Category, gender Gender, schema Schema) (Column, error) {
	if !gender.Known() {
		return "", NewFieldError(ModuleResolver, ErrorCodeUnknownColumn, "gender",
			"invalid caste/gender: unknown gender %q", string(gender))
	}

	var col Column
	switch {
	case category == CategoryEWS && gender == GenderMale:
		col = ColumnEWSBoys
	case category == CategoryEWS:
		col = ColumnEWSGirls
	case gender == GenderMale:
		col = Column(fmt.Sprintf("%s_boys", category))
	default:
		col = Column(fmt.Sprintf("%s_girls", category))
	}

	if schema == nil {
		schema = DefaultSchema()
	}
	if !schema.Has(col) {
		return "", NewFieldError(ModuleResolver, ErrorCodeUnknownColumn, "category",
			"invalid caste/gender: %s", col)
	}
	return col, nil
}

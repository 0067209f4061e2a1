package core

import (
	"context"
	"sort"
)

// Schema 是数据表中存在的截止列集合。
type Schema map[Column]struct{}

// NewSchema 根据列名创建 Schema。
func NewSchema(cols ...Column) Schema {
	s := make(Schema, len(cols))
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

// DefaultSchema 返回包含全部已知截止列的 Schema。
func DefaultSchema() Schema {
	return NewSchema(Columns...)
}

// Has 判断列是否存在。
func (s Schema) Has(c Column) bool {
	_, ok := s[c]
	return ok
}

// Table 是院校截止数据表：启动时加载一次，之后只读，可被并发查询共享。
type Table struct {
	Offerings []InstituteOffering
	Schema    Schema
}

// NewTable 创建数据表；schema 为 nil 时使用 DefaultSchema。
func NewTable(offerings []InstituteOffering, schema Schema) *Table {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Table{Offerings: offerings, Schema: schema}
}

// Len 返回行数。
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Offerings)
}

// Places 返回去重并排序后的地点列表（用于地点选择）。
func (t *Table) Places() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, o := range t.Offerings {
		if o.Place == "" {
			continue
		}
		if _, ok := seen[o.Place]; ok {
			continue
		}
		seen[o.Place] = struct{}{}
		out = append(out, o.Place)
	}
	sort.Strings(out)
	return out
}

// TableProvider 提供数据表。实现方负责加载；返回的 Table 调用方只读。
type TableProvider interface {
	Table(ctx context.Context) (*Table, error)
}

package table

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/rushteam/admitkit/core"
)

// 数据源类型
const (
	KindCSV   = "csv"
	KindXLSX  = "xlsx"
	KindStore = "store"
)

// DefaultSnapshotKey 是数据表快照在存储中的默认 key。
const DefaultSnapshotKey = "admitkit:table"

// Source 描述数据表从哪里来。
type Source struct {
	Kind  string // csv / xlsx / store；为空时按文件扩展名推断
	Path  string
	Sheet string
	Key   string // Kind=store 时的快照 key
}

// StaticProvider 直接返回内存中的数据表。
type StaticProvider struct {
	T *core.Table
}

func (p StaticProvider) Table(context.Context) (*core.Table, error) {
	if p.T == nil {
		return nil, core.NewDomainError(core.ModuleTable, core.ErrorCodeNotFound, "table not loaded")
	}
	return p.T, nil
}

// FileProvider 从 CSV/XLSX 文件加载一次，之后一直返回同一份只读数据表。
// 因调用方 ctx 结束而失败的加载不会被记住，下一次调用会重新加载。
type FileProvider struct {
	Source Source

	mu     sync.Mutex
	loaded bool
	table  *core.Table
	err    error
}

func (p *FileProvider) Table(ctx context.Context) (*core.Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.table, p.err
	}

	t, err := p.load(ctx)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	p.table, p.err, p.loaded = t, err, true
	return t, err
}

func (p *FileProvider) load(ctx context.Context) (*core.Table, error) {
	kind := p.Source.Kind
	if kind == "" {
		kind = KindFromPath(p.Source.Path)
	}
	switch kind {
	case KindCSV:
		return LoadCSV(ctx, p.Source.Path)
	case KindXLSX:
		return LoadXLSX(ctx, p.Source.Path, p.Source.Sheet)
	default:
		return nil, eris.Errorf("table: unsupported file kind %q", kind)
	}
}

// StoreProvider 从存储中的快照读取数据表（由 SaveSnapshot 写入）。
type StoreProvider struct {
	Store core.Store
	Key   string
}

func (p *StoreProvider) Table(ctx context.Context) (*core.Table, error) {
	key := p.Key
	if key == "" {
		key = DefaultSnapshotKey
	}
	data, err := p.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.WrapDomainError(core.ModuleTable, core.ErrorCodeNotFound, err,
				"table snapshot %q not found in %s store", key, p.Store.Name())
		}
		return nil, eris.Wrapf(err, "table: read snapshot %q", key)
	}
	return DecodeSnapshot(data)
}

// NewProvider 按数据源创建 Provider；Kind=store 时必须提供 s。
func NewProvider(src Source, s core.Store) (core.TableProvider, error) {
	kind := src.Kind
	if kind == "" {
		kind = KindFromPath(src.Path)
	}
	switch kind {
	case KindCSV, KindXLSX:
		src.Kind = kind
		return &FileProvider{Source: src}, nil
	case KindStore:
		if s == nil {
			return nil, eris.New("table: store source requires a store")
		}
		return &StoreProvider{Store: s, Key: src.Key}, nil
	default:
		return nil, eris.Errorf("table: unsupported source kind %q", kind)
	}
}

// KindFromPath 按扩展名推断文件类型。
func KindFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return KindXLSX
	case ".csv":
		return KindCSV
	default:
		return ""
	}
}

type snapshot struct {
	Columns   []core.Column      `json:"columns"`
	Offerings []snapshotOffering `json:"offerings"`
}

type snapshotOffering struct {
	Institute string              `json:"institute"`
	Place     string              `json:"place"`
	Branch    string              `json:"branch"`
	Cutoffs   map[core.Column]int `json:"cutoffs"`
}

// EncodeSnapshot 把数据表编码为 JSON 快照，列按 core.Columns 顺序输出。
func EncodeSnapshot(t *core.Table) ([]byte, error) {
	if t == nil {
		return nil, eris.New("table: nil table")
	}
	snap := snapshot{Offerings: make([]snapshotOffering, 0, t.Len())}
	for _, c := range core.Columns {
		if t.Schema.Has(c) {
			snap.Columns = append(snap.Columns, c)
		}
	}
	for _, o := range t.Offerings {
		snap.Offerings = append(snap.Offerings, snapshotOffering{
			Institute: o.Institute,
			Place:     o.Place,
			Branch:    o.Branch,
			Cutoffs:   o.Cutoffs(),
		})
	}
	return json.Marshal(snap)
}

// DecodeSnapshot 从 JSON 快照恢复数据表。
func DecodeSnapshot(data []byte) (*core.Table, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, eris.Wrap(err, "table: decode snapshot")
	}
	offerings := make([]core.InstituteOffering, 0, len(snap.Offerings))
	for _, o := range snap.Offerings {
		offerings = append(offerings, core.NewOffering(o.Institute, o.Place, o.Branch, o.Cutoffs))
	}
	return core.NewTable(offerings, core.NewSchema(snap.Columns...)), nil
}

// SaveSnapshot 把数据表写入存储，ttl 单位为秒，0 表示不过期。
func SaveSnapshot(ctx context.Context, s core.Store, key string, t *core.Table, ttl int) error {
	if key == "" {
		key = DefaultSnapshotKey
	}
	data, err := EncodeSnapshot(t)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, key, data, ttl); err != nil {
		return eris.Wrapf(err, "table: write snapshot %q", key)
	}
	return nil
}

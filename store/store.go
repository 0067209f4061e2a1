// Package store 提供 core.Store 的实现，用于保存数据表快照，让多个进程读取同一份只读数据。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	s, err := store.NewRedisStore("localhost:6379", 0)
package store

import (
	"fmt"

	"github.com/rushteam/admitkit/core"
)

// 存储驱动名称
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Open 按驱动名创建存储。
func Open(driver, addr string, db int) (core.Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		return NewRedisStore(addr, db)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}

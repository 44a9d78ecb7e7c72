// Package store 提供 core.Store / core.KeyValueStore 的实现：
//   - MemoryStore：进程内，支持 TTL，用于测试/开发
//   - RedisStore：基于 go-redis，生产使用
//
// 示例：
//
//	var kv core.KeyValueStore = NewMemoryStore()
package store

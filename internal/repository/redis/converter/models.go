package converter

import "encoding/json"

// SnapshotRedisModel — запись кэша в Redis.
type SnapshotRedisModel struct {
	Op    string          `json:"op"`
	Args  string          `json:"args"`
	Value json.RawMessage `json:"value"`
	Tags  []string        `json:"tags"`
}

package converter

import (
	"github.com/DRSN-tech/product-dashboard/internal/cache"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
)

// SnapshotConverter переводит снимки кэша в модели Redis и обратно.
type SnapshotConverter interface {
	ToRedisModel(snap *cache.Snapshot) *SnapshotRedisModel
	ToCache(model *SnapshotRedisModel) *cache.Snapshot
}

type snapshotConverter struct{}

func NewSnapshotConverter() SnapshotConverter {
	return snapshotConverter{}
}

func (snapshotConverter) ToRedisModel(snap *cache.Snapshot) *SnapshotRedisModel {
	if snap == nil {
		return nil
	}
	return &SnapshotRedisModel{
		Op:    snap.Key.Op,
		Args:  snap.Key.Args,
		Value: snap.Value,
		Tags:  TagsToStrings(snap.Tags),
	}
}

func (snapshotConverter) ToCache(model *SnapshotRedisModel) *cache.Snapshot {
	if model == nil {
		return nil
	}
	tags := make([]domain.Tag, len(model.Tags))
	for i, t := range model.Tags {
		tags[i] = domain.ParseTag(t)
	}
	return &cache.Snapshot{
		Key:   cache.Key{Op: model.Op, Args: model.Args},
		Value: model.Value,
		Tags:  tags,
	}
}

func TagsToStrings(tags []domain.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

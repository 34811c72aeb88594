package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/lexikon/internal/db"
)

// SAddMulti adds members to multiple sets in a single DoMulti round-trip.
// The ingest path uses this to append a segment id to every posting set
// of its trigrams at once.
func (s *Store) SAddMulti(ctx context.Context, items []db.SetAddItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items))
	for _, item := range items {
		if len(item.Members) == 0 {
			continue
		}
		cmds = append(cmds, s.b().Sadd().Key(item.Key).Member(item.Members...).Build())
	}
	if len(cmds) == 0 {
		return nil
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpSAdd, Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return nil
}

// SMembersMulti fetches the members of multiple sets in a single DoMulti
// round-trip. Missing keys yield empty slices, not errors.
func (s *Store) SMembersMulti(ctx context.Context, keys []string) ([][]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Smembers().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([][]string, len(results))

	for i, res := range results {
		members, err := res.AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpSMembers, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = members
	}

	return out, nil
}

package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OrderScope names the siblings an order value is counted among.
// An empty Column means the whole table (top-level programs and courses).
type OrderScope struct {
	Table  string
	Column string
	Value  uint
}

func (s OrderScope) key() string {
	if s.Column == "" {
		return fmt.Sprintf("order:%s", s.Table)
	}
	return fmt.Sprintf("order:%s:%s:%d", s.Table, s.Column, s.Value)
}

// Sequencer hands out the next sort_order for a new curriculum node.
// Duplicate values are tolerated by readers, which sort by (sort_order, id).
type Sequencer interface {
	NextOrder(ctx context.Context, db *gorm.DB, scope OrderScope) (int, error)
}

// Orders is the sequencer used by curriculum writes. main swaps in a RedisSequencer when REDIS_URL is set.
var Orders Sequencer = MaxSequencer{}

// MaxSequencer assigns max(sort_order)+1. Soft-deleted siblings still count, so numbers are never reused.
type MaxSequencer struct{}

func (MaxSequencer) NextOrder(ctx context.Context, db *gorm.DB, scope OrderScope) (int, error) {
	current, err := currentMax(ctx, db, scope)
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func currentMax(ctx context.Context, db *gorm.DB, scope OrderScope) (int, error) {
	var current int
	q := db.WithContext(ctx).Table(scope.Table).Select("COALESCE(MAX(sort_order), 0)")
	if scope.Column != "" {
		q = q.Where(scope.Column+" = ?", scope.Value)
	}
	if err := q.Scan(&current).Error; err != nil {
		return 0, fmt.Errorf("reading max order of %s: %w", scope.Table, err)
	}
	return current, nil
}

// RedisSequencer keeps one INCR counter per parent. A missing counter is seeded from the
// table's current max with SETNX, so concurrent creators never both read the same max.
type RedisSequencer struct {
	Client *redis.Client
}

func (s RedisSequencer) NextOrder(ctx context.Context, db *gorm.DB, scope OrderScope) (int, error) {
	key := scope.key()

	exists, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("checking order counter %s: %w", key, err)
	}
	if exists == 0 {
		current, err := currentMax(ctx, db, scope)
		if err != nil {
			return 0, err
		}
		if err := s.Client.SetNX(ctx, key, current, 0).Err(); err != nil {
			return 0, fmt.Errorf("seeding order counter %s: %w", key, err)
		}
	}

	next, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing order counter %s: %w", key, err)
	}
	return int(next), nil
}

package reconcile

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// batchSize bounds the number of rows touched per query.
const batchSize = 1000

// Entity is the capability every reconciled type exposes: the stable external
// key, the store-assigned internal key, and the concurrency stamp.
type Entity interface {
	GetExternalID() int64
	GetInternalID() int
	GetRowVersion() uint
	AdoptIdentity(id int, rowVersion uint)
	BumpRowVersion()
}

// entityPtr constrains PT to a pointer to T that implements Entity, so Sync
// can materialize persisted rows as []T and still address them through the
// Entity methods.
type entityPtr[T any] interface {
	Entity
	*T
}

// Column declares one updatable field: its database column name, a getter,
// and an optional equality check. A nil Equal falls back to reflect.DeepEqual,
// which also handles pointer-valued fields such as nullable dates.
type Column[PT Entity] struct {
	Name  string
	Value func(PT) any
	Equal func(a, b any) bool
}

func (c Column[PT]) equal(a, b any) bool {
	if c.Equal != nil {
		return c.Equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// Result reports what one reconciliation call did to the store.
type Result struct {
	Added   int64
	Updated int64
	Deleted int64
}

// Sync reconciles the incoming snapshot against the table backing T, keyed by
// external id. New entities are inserted, existing ones receive a partial
// update of the declared columns when any of them differ, and persisted rows
// absent from the snapshot are deleted (further restricted by deleteScope when
// given). Duplicate external ids in the snapshot keep the first occurrence.
//
// Sync runs inside the transaction carried by tx; it never opens its own.
// With no columns declared, existing entities are recognized but never
// rewritten.
func Sync[T any, PT entityPtr[T]](
	tx *gorm.DB,
	incoming []PT,
	columns []Column[PT],
	deleteScope func(*gorm.DB) *gorm.DB,
	log *zap.Logger,
) (Result, error) {
	var res Result

	deduped := make([]PT, 0, len(incoming))
	seen := make(map[int64]struct{}, len(incoming))
	for _, e := range incoming {
		if _, ok := seen[e.GetExternalID()]; ok {
			continue
		}
		seen[e.GetExternalID()] = struct{}{}
		deduped = append(deduped, e)
	}
	if dropped := len(incoming) - len(deduped); dropped > 0 {
		log.Warn("Dropped duplicate external ids from incoming snapshot", zap.Int("count", dropped))
	}

	keepIDs := make([]int64, 0, len(deduped))
	for _, e := range deduped {
		keepIDs = append(keepIDs, e.GetExternalID())
	}

	for start := 0; start < len(deduped); start += batchSize {
		end := min(start+batchSize, len(deduped))
		batch := deduped[start:end]

		batchIDs := make([]int64, 0, len(batch))
		for _, e := range batch {
			batchIDs = append(batchIDs, e.GetExternalID())
		}

		var rows []T
		if err := tx.Where("external_id IN ?", batchIDs).Find(&rows).Error; err != nil {
			return res, fmt.Errorf("failed to fetch existing rows: %w", err)
		}
		existing := make(map[int64]PT, len(rows))
		for i := range rows {
			p := PT(&rows[i])
			existing[p.GetExternalID()] = p
		}

		var inserts []PT
		for _, e := range batch {
			current, ok := existing[e.GetExternalID()]
			if !ok {
				inserts = append(inserts, e)
				continue
			}

			e.AdoptIdentity(current.GetInternalID(), current.GetRowVersion())
			if len(columns) == 0 {
				continue
			}

			changed := make(map[string]any)
			for _, col := range columns {
				next := col.Value(e)
				if !col.equal(next, col.Value(current)) {
					changed[col.Name] = next
				}
			}
			if len(changed) == 0 {
				continue
			}

			e.BumpRowVersion()
			changed["row_version"] = e.GetRowVersion()
			if err := tx.Model(e).Updates(changed).Error; err != nil {
				return res, fmt.Errorf("failed to update entity %d: %w", e.GetExternalID(), err)
			}
			res.Updated++
		}

		if len(inserts) > 0 {
			if err := tx.Create(&inserts).Error; err != nil {
				return res, fmt.Errorf("failed to insert new entities: %w", err)
			}
			res.Added += int64(len(inserts))
		}
	}

	var probe T
	q := tx.Model(&probe)
	if len(keepIDs) > 0 {
		q = q.Where("external_id NOT IN ?", keepIDs)
	} else {
		q = q.Where("1 = 1")
	}
	if deleteScope != nil {
		q = deleteScope(q)
	}
	del := q.Delete(&probe)
	if del.Error != nil {
		return res, fmt.Errorf("failed to delete stale rows: %w", del.Error)
	}
	res.Deleted = del.RowsAffected

	log.Debug("Reconciliation finished",
		zap.Int("incoming", len(deduped)),
		zap.Int64("added", res.Added),
		zap.Int64("updated", res.Updated),
		zap.Int64("deleted", res.Deleted))

	return res, nil
}

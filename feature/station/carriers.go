package station

import (
	"errors"
	"fmt"

	"antenna-scraper/core/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoCarriers means the carrier table is empty; a sync cannot proceed
// without the reference carriers from the catalog sync.
var ErrNoCarriers = errors.New("no carriers found in the database, run the catalog sync first")

// CarrierMatch is the in-memory view of one carrier used during matching.
type CarrierMatch struct {
	ID                 int
	FrequencyLow       int64
	FrequencyHigh      int64
	ProviderExternalID int64
	ProviderInternalID int
}

// Contains reports whether frequency falls inside the carrier's inclusive range.
func (c CarrierMatch) Contains(frequency int64) bool {
	return frequency >= c.FrequencyLow && frequency <= c.FrequencyHigh
}

// IsEdgeCase reports whether frequency sits exactly on a range boundary,
// where it may legitimately belong to an adjacent carrier too.
func (c CarrierMatch) IsEdgeCase(frequency int64) bool {
	return frequency == c.FrequencyLow || frequency == c.FrequencyHigh
}

// CarrierSnapshot is an immutable view of all known carriers, loaded once per
// sync run. Match order follows carrier internal id, so boundary overlaps
// resolve the same way every cycle.
type CarrierSnapshot struct {
	carriers []CarrierMatch
	log      *zap.Logger
}

// NewCarrierSnapshot builds a snapshot from pre-assembled matches. Used by
// tests; production code loads from the store.
func NewCarrierSnapshot(carriers []CarrierMatch, log *zap.Logger) *CarrierSnapshot {
	return &CarrierSnapshot{carriers: carriers, log: log}
}

// LoadCarrierSnapshot reads every carrier with its provider from the store.
func LoadCarrierSnapshot(tx *gorm.DB, log *zap.Logger) (*CarrierSnapshot, error) {
	var rows []model.Carrier
	if err := tx.Preload("Provider").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load carriers: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoCarriers
	}

	carriers := make([]CarrierMatch, 0, len(rows))
	for _, c := range rows {
		if c.Provider == nil {
			return nil, fmt.Errorf("carrier %d has no provider loaded", c.ID)
		}
		carriers = append(carriers, CarrierMatch{
			ID:                 c.ID,
			FrequencyLow:       c.FrequencyLow,
			FrequencyHigh:      c.FrequencyHigh,
			ProviderExternalID: c.Provider.ExternalID,
			ProviderInternalID: c.ProviderID,
		})
	}

	return &CarrierSnapshot{carriers: carriers, log: log}, nil
}

// Match returns the first carrier whose range contains the frequency, or nil.
// A frequency landing exactly on any carrier's boundary is logged as an edge
// case but still matched first-wins.
func (s *CarrierSnapshot) Match(frequency int64) *CarrierMatch {
	var found *CarrierMatch
	for i := range s.carriers {
		if s.carriers[i].Contains(frequency) {
			found = &s.carriers[i]
			break
		}
	}

	for _, c := range s.carriers {
		if c.IsEdgeCase(frequency) {
			s.log.Warn("Frequency sits on a carrier range boundary",
				zap.Int64("frequency", frequency),
				zap.Int("carrier_id", c.ID))
			break
		}
	}

	return found
}

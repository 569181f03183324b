package model

import "time"

// External provider ids as assigned by the antennakaart catalog.
// Only these three operate macro networks in the register.
const (
	ProviderKPN      int64 = 1
	ProviderOdido    int64 = 3
	ProviderVodafone int64 = 4
)

// AllowedProviderIDs is the set of external provider ids the catalog sync accepts.
var AllowedProviderIDs = map[int64]struct{}{
	ProviderKPN:      {},
	ProviderOdido:    {},
	ProviderVodafone: {},
}

// SyncEntity is the identity every reconciled entity carries: a surrogate
// internal id, the stable external id from the source system, and a row
// version bumped on every persisted mutation.
type SyncEntity struct {
	ID         int   `gorm:"primaryKey"`
	ExternalID int64 `gorm:"uniqueIndex;not null"`
	RowVersion uint  `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GetExternalID returns the reconciliation key.
func (e *SyncEntity) GetExternalID() int64 { return e.ExternalID }

// GetInternalID returns the surrogate key, zero before first insertion.
func (e *SyncEntity) GetInternalID() int { return e.ID }

// GetRowVersion returns the current concurrency stamp.
func (e *SyncEntity) GetRowVersion() uint { return e.RowVersion }

// AdoptIdentity copies the persisted identity onto an incoming entity so an
// update targets the existing row instead of inserting a duplicate.
func (e *SyncEntity) AdoptIdentity(id int, rowVersion uint) {
	e.ID = id
	e.RowVersion = rowVersion
}

// BumpRowVersion advances the concurrency stamp before an update is written.
func (e *SyncEntity) BumpRowVersion() { e.RowVersion++ }

// Provider is a mobile network operator.
type Provider struct {
	SyncEntity
	Name string `gorm:"size:120;not null"`
}

// Band is a named spectrum band (e.g. "700MHz band 28").
type Band struct {
	SyncEntity
	Name        string `gorm:"size:120;not null"`
	Description string `gorm:"size:255"`
}

// Carrier is a provider's slice of a band: an inclusive frequency range in Hz.
type Carrier struct {
	SyncEntity
	FrequencyLow  int64 `gorm:"not null"`
	FrequencyHigh int64 `gorm:"not null"`

	ProviderID int `gorm:"not null;index"`
	Provider   *Provider
	BandID     int `gorm:"not null;index"`
	Band       *Band
}

// BaseStation is a physical site carrying one or more antennas, operated by a
// single provider.
type BaseStation struct {
	SyncEntity
	Longitude    float64 `gorm:"not null"`
	Latitude     float64 `gorm:"not null"`
	Municipality string  `gorm:"size:120"`
	PostalCode   string  `gorm:"size:12"`
	City         string  `gorm:"size:120"`
	IsSmallCell  bool    `gorm:"not null;default:false"`

	ProviderID int `gorm:"not null;index"`
	Provider   *Provider

	Antennas []Antenna
}

// Antenna is a single transmitter on a base station, matched to the carrier
// whose frequency range contains it.
type Antenna struct {
	SyncEntity
	Frequency         int64   `gorm:"not null"`
	Height            float64 `gorm:"not null"`
	Direction         float64 `gorm:"not null"`
	TransmissionPower float64 `gorm:"not null"`
	SatCode           string  `gorm:"size:30"`
	IsDirectional     bool    `gorm:"not null;default:false"`

	DateOfCommissioning *time.Time
	DateLastChanged     *time.Time

	BaseStationID int `gorm:"not null;index"`
	// Station holds the pending parent before its internal id is known.
	// Never persisted; the orchestrator rebinds BaseStationID from it.
	Station *BaseStation `gorm:"-"`

	CarrierID int `gorm:"not null;index"`
	Carrier   *Carrier
}

// SyncLog records the outcome of one full sync cycle.
type SyncLog struct {
	ID            int `gorm:"primaryKey"`
	SyncStartedAt time.Time
	SyncEndedAt   time.Time
	IsSuccessful  bool
	CreatedAt     time.Time
}

// All returns the models the schema is migrated from, dependency order first.
func All() []any {
	return []any{
		&Provider{},
		&Band{},
		&Carrier{},
		&BaseStation{},
		&Antenna{},
		&SyncLog{},
	}
}

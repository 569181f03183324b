package catalog

import (
	"context"
	"fmt"

	"antenna-scraper/core/model"
	"antenna-scraper/core/reconcile"
	"antenna-scraper/core/txn"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service reconciles the provider, band and carrier catalogs against the
// store.
type Service struct {
	runner    *txn.Runner
	providers ProviderSource
	log       *zap.Logger
}

// NewService creates the catalog sync service.
func NewService(runner *txn.Runner, providers ProviderSource, log *zap.Logger) *Service {
	return &Service{runner: runner, providers: providers, log: log}
}

// Result carries the per-kind reconciliation counts of one catalog sync.
type Result struct {
	Providers reconcile.Result
	Bands     reconcile.Result
	Carriers  reconcile.Result
}

// SyncCatalog brings providers, bands and carriers up to date in one
// transaction. Providers come from the antennakaart API, filtered to the
// mobile network operators; bands and carriers are the static spectrum
// catalog. Carriers referring to an unknown provider or band fail the sync.
func (s *Service) SyncCatalog(ctx context.Context) (Result, error) {
	var res Result

	fetched, err := s.providers.GetProviders(ctx)
	if err != nil {
		return res, err
	}

	var incomingProviders []*model.Provider
	for _, p := range fetched {
		if _, ok := model.AllowedProviderIDs[p.ID]; !ok {
			continue
		}
		if p.Name == "" {
			s.log.Warn("Provider without a name, skipping", zap.Int64("provider_id", p.ID))
			continue
		}
		incomingProviders = append(incomingProviders, &model.Provider{
			SyncEntity: model.SyncEntity{ExternalID: p.ID},
			Name:       p.Name,
		})
	}

	err = s.runner.RunInTransaction(ctx, func(tx *gorm.DB) error {
		var err error

		res.Providers, err = reconcile.Sync[model.Provider](
			tx, incomingProviders, providerColumns(), nil, s.log)
		if err != nil {
			return err
		}

		var incomingBands []*model.Band
		for _, b := range Bands() {
			incomingBands = append(incomingBands, &model.Band{
				SyncEntity:  model.SyncEntity{ExternalID: b.ID},
				Name:        b.Name,
				Description: b.Description,
			})
		}
		res.Bands, err = reconcile.Sync[model.Band](
			tx, incomingBands, bandColumns(), nil, s.log)
		if err != nil {
			return err
		}

		providerIDs, err := externalToInternal[model.Provider](tx)
		if err != nil {
			return err
		}
		bandIDs, err := externalToInternal[model.Band](tx)
		if err != nil {
			return err
		}

		var incomingCarriers []*model.Carrier
		for _, c := range Carriers() {
			providerID, ok := providerIDs[c.ProviderID]
			if !ok {
				return fmt.Errorf("carrier %d refers to unknown provider %d", c.ID, c.ProviderID)
			}
			bandID, ok := bandIDs[c.BandID]
			if !ok {
				return fmt.Errorf("carrier %d refers to unknown band %d", c.ID, c.BandID)
			}
			incomingCarriers = append(incomingCarriers, &model.Carrier{
				SyncEntity:    model.SyncEntity{ExternalID: c.ID},
				FrequencyLow:  c.FrequencyLow,
				FrequencyHigh: c.FrequencyHigh,
				ProviderID:    providerID,
				BandID:        bandID,
			})
		}
		res.Carriers, err = reconcile.Sync[model.Carrier](
			tx, incomingCarriers, carrierColumns(), nil, s.log)
		return err
	})

	return res, err
}

// externalToInternal maps external ids to internal ids for one entity kind.
func externalToInternal[T any](tx *gorm.DB) (map[int64]int, error) {
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[int64]int, len(rows))
	for i := range rows {
		e, ok := any(&rows[i]).(reconcile.Entity)
		if !ok {
			return nil, fmt.Errorf("type %T is not a sync entity", rows[i])
		}
		out[e.GetExternalID()] = e.GetInternalID()
	}
	return out, nil
}

func providerColumns() []reconcile.Column[*model.Provider] {
	return []reconcile.Column[*model.Provider]{
		{Name: "name", Value: func(p *model.Provider) any { return p.Name }},
	}
}

func bandColumns() []reconcile.Column[*model.Band] {
	return []reconcile.Column[*model.Band]{
		{Name: "name", Value: func(b *model.Band) any { return b.Name }},
		{Name: "description", Value: func(b *model.Band) any { return b.Description }},
	}
}

func carrierColumns() []reconcile.Column[*model.Carrier] {
	return []reconcile.Column[*model.Carrier]{
		{Name: "frequency_low", Value: func(c *model.Carrier) any { return c.FrequencyLow }},
		{Name: "frequency_high", Value: func(c *model.Carrier) any { return c.FrequencyHigh }},
		{Name: "provider_id", Value: func(c *model.Carrier) any { return c.ProviderID }},
		{Name: "band_id", Value: func(c *model.Carrier) any { return c.BandID }},
	}
}

package station

import (
	"context"

	"antenna-scraper/core/model"
	"antenna-scraper/core/reconcile"
	"antenna-scraper/core/txn"
	"antenna-scraper/feature/register"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service reconciles the register snapshot of base stations and antennas
// against the store.
type Service struct {
	runner *txn.Runner
	log    *zap.Logger
}

// NewService creates the station sync service.
func NewService(runner *txn.Runner, log *zap.Logger) *Service {
	return &Service{runner: runner, log: log}
}

// Result carries the per-kind reconciliation counts of one station sync.
type Result struct {
	BaseStations reconcile.Result
	Antennas     reconcile.Result
}

// SyncBaseStations runs the two-phase reconciliation for a full snapshot.
//
// Resolution happens first, across the whole snapshot: each station's antenna
// group elects a single provider, stations failing the election are skipped
// whole, and each surviving antenna is matched to its own carrier. A station
// left without any resolvable antenna is not persisted.
//
// Persistence then runs once, inside one transaction: base stations are
// reconciled first so every survivor has an internal id, antennas are rebound
// to those ids, then antennas are reconciled. Stations absent from the
// snapshot are deleted, antennas with them.
func (s *Service) SyncBaseStations(
	ctx context.Context,
	stations []register.BaseStation,
	antennasByStation map[int64][]register.Antenna,
) (Result, error) {
	var res Result

	err := s.runner.RunInTransaction(ctx, func(tx *gorm.DB) error {
		snapshot, err := LoadCarrierSnapshot(tx, s.log)
		if err != nil {
			return err
		}

		var incomingStations []*model.BaseStation
		var incomingAntennas []*model.Antenna

		for _, bs := range stations {
			group := antennasByStation[bs.ID]
			if len(bs.AntennaIDs) == 0 || len(group) == 0 {
				s.log.Warn("Base station has no antennas, skipping", zap.Int64("base_station_id", bs.ID))
				continue
			}

			providerID, ok := snapshot.ResolveProvider(group)
			if !ok {
				s.log.Warn("Base station has no single matching provider, skipping",
					zap.Int64("base_station_id", bs.ID))
				continue
			}

			pending := &model.BaseStation{
				SyncEntity:   model.SyncEntity{ExternalID: bs.ID},
				Longitude:    bs.Longitude,
				Latitude:     bs.Latitude,
				Municipality: bs.Municipality,
				PostalCode:   bs.PostalCode,
				City:         bs.City,
				IsSmallCell:  bs.IsSmallCell,
				ProviderID:   providerID,
			}

			var stationAntennas []*model.Antenna
			for _, obs := range group {
				frequency, err := ParseFrequency(obs.Frequency)
				if err != nil {
					s.log.Warn("Unparsable antenna frequency, skipping antenna",
						zap.Int64("antenna_id", obs.ID),
						zap.String("frequency", obs.Frequency),
						zap.Error(err))
					continue
				}

				carrier := snapshot.Match(frequency)
				if carrier == nil {
					s.log.Warn("No matching carrier found for antenna, skipping",
						zap.Int64("antenna_id", obs.ID),
						zap.Int64("frequency", frequency))
					continue
				}

				stationAntennas = append(stationAntennas, &model.Antenna{
					SyncEntity:          model.SyncEntity{ExternalID: obs.ID},
					Frequency:           frequency,
					CarrierID:           carrier.ID,
					TransmissionPower:   obs.TransmissionPower,
					Direction:           obs.Direction,
					Height:              obs.Height,
					IsDirectional:       obs.IsDirectional,
					SatCode:             obs.SatCode,
					DateOfCommissioning: obs.DateOfCommissioning,
					DateLastChanged:     obs.DateLastChanged,
					Station:             pending,
				})
			}

			if len(stationAntennas) == 0 {
				s.log.Warn("Base station has no resolvable antennas left, skipping",
					zap.Int64("base_station_id", bs.ID))
				continue
			}

			incomingStations = append(incomingStations, pending)
			incomingAntennas = append(incomingAntennas, stationAntennas...)
		}

		res.BaseStations, err = reconcile.Sync[model.BaseStation](
			tx, incomingStations, baseStationColumns(), nil, s.log)
		if err != nil {
			return err
		}

		// Base station phase done: every survivor now owns an internal id
		for _, a := range incomingAntennas {
			a.BaseStationID = a.Station.GetInternalID()
		}

		res.Antennas, err = reconcile.Sync[model.Antenna](
			tx, incomingAntennas, antennaColumns(), nil, s.log)
		return err
	})

	return res, err
}

func baseStationColumns() []reconcile.Column[*model.BaseStation] {
	return []reconcile.Column[*model.BaseStation]{
		{Name: "longitude", Value: func(b *model.BaseStation) any { return b.Longitude }},
		{Name: "latitude", Value: func(b *model.BaseStation) any { return b.Latitude }},
		{Name: "provider_id", Value: func(b *model.BaseStation) any { return b.ProviderID }},
		{Name: "city", Value: func(b *model.BaseStation) any { return b.City }},
		{Name: "municipality", Value: func(b *model.BaseStation) any { return b.Municipality }},
		{Name: "is_small_cell", Value: func(b *model.BaseStation) any { return b.IsSmallCell }},
		{Name: "postal_code", Value: func(b *model.BaseStation) any { return b.PostalCode }},
	}
}

func antennaColumns() []reconcile.Column[*model.Antenna] {
	return []reconcile.Column[*model.Antenna]{
		{Name: "frequency", Value: func(a *model.Antenna) any { return a.Frequency }},
		{Name: "carrier_id", Value: func(a *model.Antenna) any { return a.CarrierID }},
		{Name: "transmission_power", Value: func(a *model.Antenna) any { return a.TransmissionPower }},
		{Name: "direction", Value: func(a *model.Antenna) any { return a.Direction }},
		{Name: "height", Value: func(a *model.Antenna) any { return a.Height }},
		{Name: "is_directional", Value: func(a *model.Antenna) any { return a.IsDirectional }},
		{Name: "sat_code", Value: func(a *model.Antenna) any { return a.SatCode }},
		{Name: "base_station_id", Value: func(a *model.Antenna) any { return a.BaseStationID }},
		{Name: "date_of_commissioning", Value: func(a *model.Antenna) any { return a.DateOfCommissioning }},
		{Name: "date_last_changed", Value: func(a *model.Antenna) any { return a.DateLastChanged }},
	}
}

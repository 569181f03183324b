package station

import (
	"antenna-scraper/core/model"
	"antenna-scraper/feature/register"

	"go.uber.org/zap"
)

// Tampnet operates shared offshore infrastructure inside this sub-band. A
// station whose antennas resolve to exactly KPN and Vodafone, with both
// appearing inside the band, is that known artifact rather than a real
// multi-provider site. Bounds are exclusive.
const (
	tampnetBandLowHz  int64 = 758_000_000
	tampnetBandHighHz int64 = 778_000_000
)

// providerVote is one antenna's contribution to provider resolution.
type providerVote struct {
	AntennaID int64
	Frequency int64
	Carrier   *CarrierMatch
}

// ResolveProvider determines the single provider operating a base station
// from its antenna group. It returns the provider's internal id, or ok=false
// when no provider matched or more than one did; a station is never guessed.
//
// Antennas with an unparsable frequency are ignored for resolution (logged);
// they are skipped individually later anyway.
func (s *CarrierSnapshot) ResolveProvider(antennas []register.Antenna) (int, bool) {
	votes := make([]providerVote, 0, len(antennas))
	for _, a := range antennas {
		frequency, err := ParseFrequency(a.Frequency)
		if err != nil {
			s.log.Warn("Unparsable antenna frequency, ignored for provider resolution",
				zap.Int64("antenna_id", a.ID),
				zap.String("frequency", a.Frequency),
				zap.Error(err))
			continue
		}
		votes = append(votes, providerVote{AntennaID: a.ID, Frequency: frequency, Carrier: s.Match(frequency)})
	}

	providers := make(map[int64]struct{})
	for _, v := range votes {
		if v.Carrier != nil {
			providers[v.Carrier.ProviderExternalID] = struct{}{}
		}
	}

	switch {
	case len(providers) == 0:
		frequencies := make([]int64, 0, len(votes))
		for _, v := range votes {
			frequencies = append(frequencies, v.Frequency)
		}
		s.log.Warn("No matching provider found for antennas", zap.Int64s("frequencies", frequencies))
		return 0, false

	case len(providers) == 2 && isTampnetPattern(providers, votes):
		s.log.Warn("Tampnet shared-infrastructure pattern detected, skipping")
		return 0, false

	case len(providers) > 1:
		s.log.Warn("Multiple providers found for one base station, cannot determine a single provider",
			zap.Any("votes", voteSummary(votes)))
		return 0, false

	default:
		for _, v := range votes {
			if v.Carrier != nil {
				return v.Carrier.ProviderInternalID, true
			}
		}
		return 0, false
	}
}

// isTampnetPattern reports the known false-positive: exactly KPN and
// Vodafone, each resolving at least one antenna inside the shared sub-band.
func isTampnetPattern(providers map[int64]struct{}, votes []providerVote) bool {
	if _, ok := providers[model.ProviderKPN]; !ok {
		return false
	}
	if _, ok := providers[model.ProviderVodafone]; !ok {
		return false
	}

	inBand := make(map[int64]struct{})
	for _, v := range votes {
		if v.Carrier == nil {
			continue
		}
		if v.Frequency > tampnetBandLowHz && v.Frequency < tampnetBandHighHz {
			inBand[v.Carrier.ProviderExternalID] = struct{}{}
		}
	}
	return len(inBand) == 2
}

// voteSummary flattens votes for diagnostic logging.
func voteSummary(votes []providerVote) []map[string]int64 {
	out := make([]map[string]int64, 0, len(votes))
	for _, v := range votes {
		entry := map[string]int64{
			"antenna_id": v.AntennaID,
			"frequency":  v.Frequency,
		}
		if v.Carrier != nil {
			entry["provider"] = v.Carrier.ProviderExternalID
		}
		out = append(out, entry)
	}
	return out
}

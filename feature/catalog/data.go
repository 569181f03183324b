package catalog

import "antenna-scraper/core/model"

// ProviderData is one provider as reported by the antennakaart API.
type ProviderData struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BandData is one spectrum band of the static catalog.
type BandData struct {
	ID          int64
	Name        string
	Description string
}

// CarrierData is one carrier of the static catalog. Frequencies in Hz.
type CarrierData struct {
	ID            int64
	ProviderID    int64
	FrequencyLow  int64
	FrequencyHigh int64
	BandID        int64
}

// Band external ids, stable across syncs.
const (
	bandPAMR int64 = iota + 1
	band28
	band20
	band8
	band32
	band3
	band1
	band38
	band7
	bandN78
)

// Bands returns the static band catalog.
// Source: https://antennekaart.nl/page/frequencies
func Bands() []BandData {
	return []BandData{
		{bandPAMR, "450MHz PAMR", ""},
		{band28, "700MHz band 28", ""},
		{band20, "800MHz band 20", ""},
		{band8, "900MHz band 8", ""},
		{band32, "1400MHz band 32", ""},
		{band3, "1800MHz band 3", ""},
		{band1, "2100MHz band 1", ""},
		{band38, "2600MHz unpaired band 38", ""},
		{band7, "2600MHz paired band 7", ""},
		{bandN78, "3500MHz band n78", ""},
	}
}

// Carriers returns the static carrier catalog: the Dutch spectrum allocation
// per provider and band.
// Source: https://antennekaart.nl/page/frequencies
func Carriers() []CarrierData {
	kpn := model.ProviderKPN
	odido := model.ProviderOdido
	vodafone := model.ProviderVodafone

	carriers := []CarrierData{
		// 700 MHz band 28
		{694200, vodafone, 758, 768, band28},
		{694201, kpn, 768, 778, band28},
		{694202, odido, 778, 788, band28},

		// 800 MHz band 20
		{694203, odido, 791, 801, band20},
		{694204, vodafone, 801, 811, band20},
		{694205, kpn, 811, 821, band20},

		// 900 MHz band 8
		{694206, vodafone, 925, 935, band8},
		{694207, kpn, 935, 945, band8},
		{694208, odido, 945, 960, band8},

		// 1400 MHz band 32
		{694209, vodafone, 1452, 1467, band32},
		{694210, kpn, 1467, 1482, band32},
		{694211, odido, 1482, 1492, band32},

		// 1800 MHz band 3
		{694212, kpn, 1805, 1825, band3},
		{694213, vodafone, 1825, 1845, band3},
		{694214, odido, 1845, 1875, band3},

		// 2100 MHz band 1
		{694215, vodafone, 2110, 2130, band1},
		{694216, odido, 2130, 2150, band1},
		{694217, kpn, 2150, 2170, band1},

		// 2600 MHz band 38
		{694218, odido, 2565, 2590, band38},
		{694219, kpn, 2590, 2620, band38},

		// 2600 MHz band 7
		{694220, vodafone, 2620, 2650, band7},
		{694221, odido, 2650, 2655, band7},
		{694222, kpn, 2655, 2665, band7},
		{694223, odido, 2665, 2685, band7},

		// 3500 MHz band n78
		{694224, vodafone, 3450, 3550, bandN78},
		{694225, odido, 3550, 3650, bandN78},
		{694226, kpn, 3650, 3750, bandN78},
	}

	// Catalog values are MHz; the store works in Hz
	for i := range carriers {
		carriers[i].FrequencyLow *= 1_000_000
		carriers[i].FrequencyHigh *= 1_000_000
	}
	return carriers
}

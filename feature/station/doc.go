// Package station contains the heart of the sync: turning raw antenna
// observations into reconciled base stations and antennas.
//
// The pipeline per cycle:
//
//  1. ParseFrequency normalizes each antenna's free-text frequency to Hz.
//  2. A CarrierSnapshot, loaded once per run, maps frequencies to carriers
//     (first match in load order) and elects a single provider per base
//     station via ResolveProvider. Stations with zero or conflicting
//     providers are skipped whole; the only tolerated conflict is the fixed
//     Tampnet shared-infrastructure pattern.
//  3. Service.SyncBaseStations persists everything in two phases inside one
//     transaction: base stations first, then antennas rebound to the now
//     known internal station ids.
//
// Skips are per station or per antenna and never abort the cycle; only a
// missing carrier table or a store failure does.
package station

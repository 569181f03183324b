package register

import "time"

// BaseStation is one site as reported by the public antenna register.
type BaseStation struct {
	ID           int64
	AntennaIDs   []int64
	Longitude    float64
	Latitude     float64
	Municipality string
	PostalCode   string
	City         string
	IsSmallCell  bool
}

// Antenna is one transmitter observation. Frequency stays free text here;
// parsing happens during resolution so a malformed value can be handled per
// antenna.
type Antenna struct {
	ID                  int64
	SatCode             string
	IsDirectional       bool
	Height              float64
	Direction           float64
	TransmissionPower   float64
	Frequency           string
	DateOfCommissioning *time.Time
	DateLastChanged     *time.Time
}

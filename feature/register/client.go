package register

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"antenna-scraper/core/utils"

	"go.uber.org/zap"
)

// baseStationFilter restricts the feed to mobile communication sites.
const baseStationFilter = `<fes:Filter xmlns:fes="http://www.opengis.net/fes/2.0">` +
	`<fes:PropertyIsEqualTo>` +
	`<fes:ValueReference>MOBIELE_COMMUNICATIE</fes:ValueReference>` +
	`<fes:Literal>1</fes:Literal>` +
	`</fes:PropertyIsEqualTo>` +
	`</fes:Filter>`

// Config holds configuration for the antenna register client.
type Config struct {
	// BaseURL is the WFS endpoint of the public register.
	BaseURL string `mapstructure:"base_url" default:"https://antenneregister.nl/mapserver/wfs"`
	// PageSize is the number of features requested per page.
	PageSize int `mapstructure:"page_size" default:"50000"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
}

// Client pages through the public antenna register's WFS endpoint.
type Client struct {
	http *http.Client
	cfg  Config
	log  *zap.Logger
}

// NewClient creates a register client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		cfg:  cfg,
		log:  log,
	}
}

// featureCollection mirrors the GeoJSON envelope of a WFS GetFeature response.
type featureCollection struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// GetBaseStations fetches every mobile communication base station from the
// register, paging until a short page is returned. Coordinates are requested
// in EPSG:4326, so no reprojection happens here.
func (c *Client) GetBaseStations(ctx context.Context) ([]BaseStation, error) {
	var stations []BaseStation

	startIndex := 0
	for {
		fc, err := c.getFeatures(ctx, "Antennes", baseStationFilter, startIndex)
		if err != nil {
			return nil, err
		}
		if len(fc.Features) == 0 && startIndex == 0 {
			return nil, fmt.Errorf("invalid response from antenna register: empty feature collection")
		}

		for _, f := range fc.Features {
			if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
				continue
			}

			props := f.Properties
			stations = append(stations, BaseStation{
				ID:           utils.ToInt64(props["ID"]),
				AntennaIDs:   parseIDList(utils.ToString(props["ANT_IDS"])),
				Longitude:    f.Geometry.Coordinates[0],
				Latitude:     f.Geometry.Coordinates[1],
				Municipality: utils.ToString(props["GEMEENTE"]),
				PostalCode:   utils.ToString(props["POSTCODE"]),
				City:         utils.ToString(props["WOONPLAATSNAAM"]),
				IsSmallCell:  utils.ToBool(props["KLEINE_CEL"]),
			})
		}

		startIndex += len(fc.Features)
		if len(fc.Features) < c.pageSize() {
			break
		}
	}

	return stations, nil
}

// GetAntennasByBaseStation fetches the antenna observations for the given
// base stations and groups them by base station external id. Antennas whose
// id is not claimed by any base station are dropped.
func (c *Client) GetAntennasByBaseStation(ctx context.Context, antennaIDsByStation map[int64][]int64) (map[int64][]Antenna, error) {
	stationByAntenna := make(map[int64]int64)
	for stationID, antennaIDs := range antennaIDsByStation {
		for _, id := range antennaIDs {
			stationByAntenna[id] = stationID
		}
	}

	grouped := make(map[int64][]Antenna)

	startIndex := 0
	for {
		fc, err := c.getFeatures(ctx, "Antennes_Groepen", "", startIndex)
		if err != nil {
			return nil, err
		}

		for _, f := range fc.Features {
			props := f.Properties
			id := utils.ToInt64(props["ID"])
			stationID, ok := stationByAntenna[id]
			if !ok {
				continue
			}

			grouped[stationID] = append(grouped[stationID], Antenna{
				ID:                  id,
				SatCode:             utils.ToString(props["SAT_CODE"]),
				IsDirectional:       utils.ToBool(props["GERICHT"]),
				Height:              utils.ToFloat64(props["HOOGTE"]),
				Direction:           utils.ToFloat64(props["HOOFDSTRAALRICHTING"]),
				TransmissionPower:   utils.ToFloat64(props["VERMOGEN"]),
				Frequency:           utils.ToString(props["FREQUENTIE"]),
				DateOfCommissioning: parseDate(utils.ToString(props["DATUM_INGEBRUIKNAME"])),
				DateLastChanged:     parseDate(utils.ToString(props["DATUM_WIJZIGING"])),
			})
		}

		startIndex += len(fc.Features)
		if len(fc.Features) < c.pageSize() {
			break
		}
	}

	return grouped, nil
}

func (c *Client) getFeatures(ctx context.Context, typeName, filter string, startIndex int) (*featureCollection, error) {
	params := url.Values{
		"outputformat": {"application/json"},
		"service":      {"WFS"},
		"version":      {"2.0.0"},
		"request":      {"GetFeature"},
		"typeName":     {typeName},
		"srsName":      {"EPSG:4326"},
		"sortBy":       {"ID"},
		"count":        {strconv.Itoa(c.pageSize())},
		"startIndex":   {strconv.Itoa(startIndex)},
	}
	if filter != "" {
		params.Set("filter", filter)
	}

	reqURL := c.cfg.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build register request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("register request failed: unexpected status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode register response: %w", err)
	}

	c.log.Debug("Fetched register page",
		zap.String("type_name", typeName),
		zap.Int("start_index", startIndex),
		zap.Int("features", len(fc.Features)))

	return &fc, nil
}

func (c *Client) pageSize() int {
	if c.cfg.PageSize > 0 {
		return c.cfg.PageSize
	}
	return 50000
}

func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	// The register reports dates as yyyy-mm-dd, occasionally with a time part
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

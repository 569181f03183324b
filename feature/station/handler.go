package station

import (
	"antenna-scraper/core/logger"
	"antenna-scraper/core/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// Feature exposes the read-only base station API.
type Feature struct {
	svc *Service
	log *zap.Logger
}

// NewFeature creates the station feature.
func NewFeature(svc *Service, log *zap.Logger) *Feature {
	return &Feature{svc: svc, log: log}
}

// Name returns the unique feature name.
func (f *Feature) Name() string { return "station" }

// RegisterRoutes attaches the station routes.
func (f *Feature) RegisterRoutes(router fiber.Router) error {
	router.Get("/basestations", f.handleList)
	return nil
}

type antennaResponse struct {
	ExternalID          int64   `json:"external_id"`
	Frequency           int64   `json:"frequency"`
	Height              float64 `json:"height"`
	Direction           float64 `json:"direction"`
	TransmissionPower   float64 `json:"transmission_power"`
	SatCode             string  `json:"sat_code"`
	IsDirectional       bool    `json:"is_directional"`
	CarrierID           int     `json:"carrier_id"`
	DateOfCommissioning *string `json:"date_of_commissioning,omitempty"`
	DateLastChanged     *string `json:"date_last_changed,omitempty"`
}

type baseStationResponse struct {
	ExternalID   int64             `json:"external_id"`
	Longitude    float64           `json:"longitude"`
	Latitude     float64           `json:"latitude"`
	Municipality string            `json:"municipality"`
	PostalCode   string            `json:"postal_code"`
	City         string            `json:"city"`
	IsSmallCell  bool              `json:"is_small_cell"`
	ProviderID   int               `json:"provider_id"`
	Antennas     []antennaResponse `json:"antennas"`
}

// handleList returns a page of base stations with their antennas.
func (f *Feature) handleList(c *fiber.Ctx) error {
	l := logger.WithRayID(f.log, c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	var stations []model.BaseStation
	err := f.svc.runner.RunDirect(c.UserContext(), func(db *gorm.DB) error {
		return db.Preload("Antennas").
			Order("id").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&stations).Error
	})
	if err != nil {
		l.Error("Failed to list base stations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list base stations"})
	}

	out := make([]baseStationResponse, 0, len(stations))
	for _, s := range stations {
		resp := baseStationResponse{
			ExternalID:   s.ExternalID,
			Longitude:    s.Longitude,
			Latitude:     s.Latitude,
			Municipality: s.Municipality,
			PostalCode:   s.PostalCode,
			City:         s.City,
			IsSmallCell:  s.IsSmallCell,
			ProviderID:   s.ProviderID,
			Antennas:     make([]antennaResponse, 0, len(s.Antennas)),
		}
		for _, a := range s.Antennas {
			ar := antennaResponse{
				ExternalID:        a.ExternalID,
				Frequency:         a.Frequency,
				Height:            a.Height,
				Direction:         a.Direction,
				TransmissionPower: a.TransmissionPower,
				SatCode:           a.SatCode,
				IsDirectional:     a.IsDirectional,
				CarrierID:         a.CarrierID,
			}
			if a.DateOfCommissioning != nil {
				d := a.DateOfCommissioning.Format("2006-01-02")
				ar.DateOfCommissioning = &d
			}
			if a.DateLastChanged != nil {
				d := a.DateLastChanged.Format("2006-01-02")
				ar.DateLastChanged = &d
			}
			resp.Antennas = append(resp.Antennas, ar)
		}
		out = append(out, resp)
	}

	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"results":   out,
	})
}

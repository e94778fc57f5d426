package services

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"team-match-system/models"
)

// PlaceService is the HTTP surface over the geocoding collaborator, routed
// through the debouncing coordinator for keyword typeahead.
type PlaceService struct {
	Places      *PlaceClient
	Coordinator *SearchCoordinator
	Sessions    *SessionService
}

func NewPlaceService(places *PlaceClient, coordinator *SearchCoordinator, sessions *SessionService) *PlaceService {
	return &PlaceService{Places: places, Coordinator: coordinator, Sessions: sessions}
}

// SearchPlaces serves the location typeahead. A superseded lookup answers
// 204: the client already has a newer query in flight and must not apply
// this one.
func (s *PlaceService) SearchPlaces(c *fiber.Ctx) error {
	places, err := s.Coordinator.Lookup(c.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, ErrSuperseded) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(places)
}

func (s *PlaceService) ReverseGeocode(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "lat and lng are required numbers"))
	}

	address, err := s.Places.ReverseGeocode(c.Context(), models.Coordinates{Lat: lat, Lng: lng})
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(fiber.Map{"address": address})
}

func (s *PlaceService) ForwardGeocode(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "address is required"))
	}

	coords, err := s.Places.ForwardGeocode(c.Context(), address)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(coords)
}

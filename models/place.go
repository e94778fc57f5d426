package models

// Place is one result from the keyword place search, already normalized from
// the geocoding collaborator's wire shape at the client boundary.
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"roadAddress,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Coordinates is a canonical lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

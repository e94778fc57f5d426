package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"team-match-system/models"
)

// PlaceClient talks to the Kakao-style geocoding/place-search collaborator.
// Keyword lookups fire per keystroke upstream, so the client rate-limits
// itself rather than trusting the coordinator's debounce alone.
type PlaceClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

func NewPlaceClient(baseURL, apiKey string) *PlaceClient {
	return &PlaceClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 5 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// kakaoDocument is the collaborator's wire shape, normalized to models.Place
// at this boundary so nothing downstream branches on backend versions.
type kakaoDocument struct {
	ID               string `json:"id"`
	PlaceName        string `json:"place_name"`
	AddressName      string `json:"address_name"`
	RoadAddressName  string `json:"road_address_name"`
	X                string `json:"x"` // longitude
	Y                string `json:"y"` // latitude
}

type kakaoSearchResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

func (d kakaoDocument) toPlace() models.Place {
	lng, _ := strconv.ParseFloat(d.X, 64)
	lat, _ := strconv.ParseFloat(d.Y, 64)
	return models.Place{
		ID:          d.ID,
		Name:        d.PlaceName,
		Address:     d.AddressName,
		RoadAddress: d.RoadAddressName,
		Lat:         lat,
		Lng:         lng,
	}
}

func (c *PlaceClient) get(ctx context.Context, u string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.WrapE(models.KindNetworkFailure, err, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.WrapE(models.KindNetworkFailure, err, "build request")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "KakaoAK "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return models.WrapE(models.KindNetworkFailure, err, "GET %s", u)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.E(models.KindNetworkFailure, "place search returned %d", resp.StatusCode)
	}
	return decodeJSONBody(resp, out)
}

func (c *PlaceClient) SearchByKeyword(ctx context.Context, keyword string) ([]models.Place, error) {
	q := url.Values{}
	q.Set("query", keyword)
	u := fmt.Sprintf("%s/v2/local/search/keyword.json?%s", c.BaseURL, q.Encode())

	var res kakaoSearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	places := make([]models.Place, len(res.Documents))
	for i, d := range res.Documents {
		places[i] = d.toPlace()
	}
	return places, nil
}

// ReverseGeocode resolves coordinates to the canonical address string.
func (c *PlaceClient) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatFloat(coords.Lng, 'f', -1, 64))
	q.Set("y", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	u := fmt.Sprintf("%s/v2/local/geo/coord2address.json?%s", c.BaseURL, q.Encode())

	var res struct {
		Documents []struct {
			Address struct {
				AddressName string `json:"address_name"`
			} `json:"address"`
		} `json:"documents"`
	}
	if err := c.get(ctx, u, &res); err != nil {
		return "", err
	}
	if len(res.Documents) == 0 {
		return "", models.E(models.KindInvalidState, "no address at %f,%f", coords.Lat, coords.Lng)
	}
	return res.Documents[0].Address.AddressName, nil
}

// ForwardGeocode resolves an address string to coordinates.
func (c *PlaceClient) ForwardGeocode(ctx context.Context, address string) (models.Coordinates, error) {
	q := url.Values{}
	q.Set("query", address)
	u := fmt.Sprintf("%s/v2/local/search/address.json?%s", c.BaseURL, q.Encode())

	var res kakaoSearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return models.Coordinates{}, err
	}
	if len(res.Documents) == 0 {
		return models.Coordinates{}, models.E(models.KindInvalidState, "address not found: %s", address)
	}
	p := res.Documents[0].toPlace()
	return models.Coordinates{Lat: p.Lat, Lng: p.Lng}, nil
}

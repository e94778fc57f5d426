package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"team-match-system/models"
)

// ContestClient talks to the contest/category service.
type ContestClient struct {
	BaseURL string
	Client  *http.Client
}

func NewContestClient(baseURL string) *ContestClient {
	return &ContestClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *ContestClient) ListContests(ctx context.Context, token string, filters models.ContestFilters, page int, sort string) (*models.ContestPage, error) {
	q := url.Values{}
	if filters.Keyword != "" {
		q.Set("keyword", filters.Keyword)
	}
	if filters.CategoryID != "" {
		q.Set("categoryId", filters.CategoryID)
	}
	if filters.Status != "" {
		q.Set("status", filters.Status)
	}
	if filters.RegionSi != "" {
		q.Set("regionSi", filters.RegionSi)
	}
	if filters.Tag != "" {
		q.Set("tag", filters.Tag)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if sort != "" {
		q.Set("sort", sort)
	}

	var out models.ContestPage
	u := fmt.Sprintf("%s/api/contests/list?%s", c.BaseURL, q.Encode())
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ContestClient) GetContest(ctx context.Context, token, contestID string) (*models.Contest, error) {
	var out models.Contest
	u := fmt.Sprintf("%s/api/contests/%s", c.BaseURL, url.PathEscape(contestID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ContestClient) CreateContest(ctx context.Context, token string, contest *models.Contest) (*models.Contest, error) {
	var out models.Contest
	u := fmt.Sprintf("%s/api/contests", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodPost, u, token, contest, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ContestClient) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	var out []models.Category
	u := fmt.Sprintf("%s/api/categories", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

package seattle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bike-counter/api"
	"bike-counter/models"
)

// SeattleOpenDataApiClient embeds the common HTTPClient
type SeattleOpenDataApiClient struct {
	*api.HTTPClient
	dataset string
	limit   int
}

// NewSeattleOpenDataApiClient creates a client for one Socrata dataset.
// limit bounds the rows returned per query; a month of hourly rows is about 744.
func NewSeattleOpenDataApiClient(httpClient *api.HTTPClient, dataset string, limit int) *SeattleOpenDataApiClient {
	return &SeattleOpenDataApiClient{
		HTTPClient: httpClient,
		dataset:    dataset,
		limit:      limit,
	}
}

// GetBikeCounts retrieves the hourly counter records of one month, oldest first.
func (c *SeattleOpenDataApiClient) GetBikeCounts(ctx context.Context, month, year int) ([]models.BikeCountRecord, error) {
	query := url.Values{
		"$where": {BuildWhereClause(month, year)},
		"$order": {"date ASC"},
		"$limit": {strconv.Itoa(c.limit)},
	}

	var response []models.BikeCountRecord
	endpoint := fmt.Sprintf("/%s.json", c.dataset)
	if err := c.Request(ctx, http.MethodGet, endpoint, query, nil, nil, &response); err != nil {
		return nil, fmt.Errorf("query %s for %d-%02d: %w", c.dataset, year, month, err)
	}
	return response, nil
}

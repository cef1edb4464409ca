package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type summaryResponse struct {
	envelope
	Summary domain.DashboardSummary `json:"summary"`
}

type chartsResponse struct {
	envelope
	Charts domain.DashboardCharts `json:"charts"`
}

// Summary fetches the aggregate analytics for the overview cards.
func (c *Client) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var resp summaryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/summary", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

// Charts fetches the overview time series for the given range (7d, 30d, 90d).
func (c *Client) Charts(ctx context.Context, chartRange string) (*domain.DashboardCharts, error) {
	query := url.Values{"range": {chartRange}}
	var resp chartsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/charts", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Charts, nil
}

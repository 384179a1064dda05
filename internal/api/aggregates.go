package api

import (
	"context"
	"fmt"

	"github.com/quantpulse/polygon-data/internal/model"
)

// GetAggregates fetches aggregate bars for the window described by a work
// unit: /v2/aggs/ticker/{symbol}/range/{multiplier}/{timespan}/{from}/{to}
// with inclusive date bounds.
func (c *Client) GetAggregates(ctx context.Context, unit model.WorkUnit) (*AggsResponse, error) {
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/%d/%s/%s/%s?adjusted=true&sort=asc",
		unit.Symbol,
		unit.Multiplier,
		unit.Timespan,
		model.FormatDate(unit.FromDate),
		model.FormatDate(unit.ToDate),
	)

	var resp AggsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("get aggregates %s: %w", unit.Symbol, err)
	}
	return &resp, nil
}

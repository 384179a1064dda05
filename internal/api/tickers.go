package api

import (
	"context"
	"fmt"
)

// FirstTickersPageURL returns the URL of the first reference-tickers page
// with the given page size.
func (c *Client) FirstTickersPageURL(limit int) string {
	return fmt.Sprintf("%s/v3/reference/tickers?limit=%d", c.baseURL, limit)
}

// GetTickersPage fetches one page of the reference-tickers listing.
//
// pageURL is either the first-page URL from FirstTickersPageURL or the
// next_url echoed by a previous page.
func (c *Client) GetTickersPage(ctx context.Context, pageURL string) (*TickersPage, error) {
	var page TickersPage
	if err := c.getURL(ctx, pageURL, &page); err != nil {
		return nil, fmt.Errorf("get tickers page: %w", err)
	}
	return &page, nil
}

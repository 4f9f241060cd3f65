package smhi

import (
	"fmt"
	"time"

	"github.com/askvader/api/internal/domain"
)

// rowKey identifies one parsed archive in the row cache.
type rowKey struct {
	paramID   int
	stationID string
}

const (
	// rowCacheSize bounds the parsed row cache. Archives run to hundreds
	// of thousands of rows, so only a handful of stations stay parsed in
	// memory at a time.
	rowCacheSize = 30
	rowCacheTTL  = 7 * 24 * time.Hour
)

// FetchAndParse returns the parsed observation rows for one station and
// parameter. Concurrent calls for the same archive share a single
// download and parse. Callers must not modify the returned rows.
func (c *Client) FetchAndParse(paramID int, stationID string) ([]domain.Row, error) {
	key := rowKey{paramID: paramID, stationID: stationID}
	if rows, ok := c.rows.Peek(key); ok {
		return rows, nil
	}

	v, err, _ := c.flight.Do(fmt.Sprintf("%d/%s", paramID, stationID), func() (any, error) {
		if rows, ok := c.rows.Peek(key); ok {
			return rows, nil
		}
		text, err := c.StationCSV(paramID, stationID)
		if err != nil {
			return nil, err
		}
		rows := ParseCSV(text)
		c.rows.Add(key, rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Row), nil
}

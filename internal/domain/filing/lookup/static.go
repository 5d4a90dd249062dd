package lookup

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/gst-filing/pkg/gstin"
)

//go:embed seed.csv
var seedCSV []byte

// StaticClient serves GSTIN details from the embedded seed registry. Unknown
// but structurally complete GSTINs get synthesized placeholder details so an
// offline run can still exercise the full pipeline.
type StaticClient struct {
	once    sync.Once
	loadErr error
	byGSTIN map[string]*Details
}

// NewStaticClient returns a client over the embedded registry. The seed is
// parsed lazily on first Fetch.
func NewStaticClient() *StaticClient {
	return &StaticClient{}
}

func (c *StaticClient) load() {
	var rows []*Details
	if err := gocsv.UnmarshalBytes(seedCSV, &rows); err != nil {
		c.loadErr = fmt.Errorf("parse seed registry: %w", err)
		return
	}
	c.byGSTIN = make(map[string]*Details, len(rows))
	for _, row := range rows {
		row.GSTIN = normalize(row.GSTIN)
		c.byGSTIN[row.GSTIN] = row
	}
}

// Fetch resolves from the seed registry, falling back to synthesized details
// for any 15-character GSTIN not present in it.
func (c *StaticClient) Fetch(_ context.Context, id string) (*Details, error) {
	c.once.Do(c.load)
	if c.loadErr != nil {
		return nil, c.loadErr
	}

	norm := normalize(id)
	if d, ok := c.byGSTIN[norm]; ok {
		out := *d
		if out.StateCode == "" {
			out.StateCode = norm[:2]
		}
		if out.StateName == "" {
			out.StateName = gstin.StateName(gstin.StateCode(norm))
		}
		if out.Status == "" {
			out.Status = StatusActive
		}
		return &out, nil
	}

	if len(norm) == 15 {
		name := gstin.StateName(gstin.StateCode(norm))
		if name == "" {
			name = "Unknown State"
		}
		return &Details{
			GSTIN:     norm,
			LegalName: "LEGAL NAME FOR " + norm,
			TradeName: "TRADE NAME FOR " + norm,
			StateCode: norm[:2],
			StateName: name,
			Status:    StatusActive,
		}, nil
	}

	return nil, notFound(norm)
}

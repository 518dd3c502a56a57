package entity

// Series identifies one FRED interest-rate series and its display label
type Series struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

// Catalog is an ordered, immutable set of known rate series
type Catalog struct {
	series []Series
	byID   map[string]int
}

// NewCatalog creates a catalog from the given series, preserving order
func NewCatalog(series ...Series) *Catalog {
	byID := make(map[string]int, len(series))
	for i, s := range series {
		byID[s.ID] = i
	}

	return &Catalog{
		series: series,
		byID:   byID,
	}
}

// TreasuryCatalog returns the built-in US Treasury constant maturity series.
// The 10-year series is the default selection.
func TreasuryCatalog() *Catalog {
	return NewCatalog(
		Series{ID: "DGS3MO", Label: "3-Month Treasury Bill"},
		Series{ID: "DGS1", Label: "1-Year Treasury"},
		Series{ID: "DGS5", Label: "5-Year Treasury"},
		Series{ID: "DGS10", Label: "10-Year Treasury", Default: true},
		Series{ID: "DGS30", Label: "30-Year Treasury"},
	)
}

// All returns every series in catalog order
func (c *Catalog) All() []Series {
	out := make([]Series, len(c.series))
	copy(out, c.series)
	return out
}

// ByID looks up a series by its FRED identifier
func (c *Catalog) ByID(id string) (Series, error) {
	i, ok := c.byID[id]
	if !ok {
		return Series{}, &InvalidInputError{Field: "series", Reason: "unknown series identifier: " + id}
	}
	return c.series[i], nil
}

// Default returns the default series, or the first one if none is marked
func (c *Catalog) Default() Series {
	for _, s := range c.series {
		if s.Default {
			return s
		}
	}
	if len(c.series) > 0 {
		return c.series[0]
	}
	return Series{}
}

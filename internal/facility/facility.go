package facility

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultHub receives transfers from sources without a route of their own.
const DefaultHub = "h2"

// SecondaryHub receives transfers from DefaultHub when it has no route.
const SecondaryHub = "h1"

// DefaultSpecialty is recommended when a route does not name one.
const DefaultSpecialty = "Trauma/Specialized"

// DefaultSeasonal is the seasonal multiplier (flu/dengue season) applied when an entry does not set one.
const DefaultSeasonal = 1.3

var (
	ErrEmptyID       = errors.New("facility id is required")
	ErrDuplicateID   = errors.New("duplicate facility id")
	ErrBaseLoadRange = errors.New("base_load must be within [0, 1]")
	ErrWeatherRange  = errors.New("weather range min must not exceed max")
	ErrSelfRoute     = errors.New("route target must differ from source")
	ErrNoRouteTarget = errors.New("route target is required")
)

// WeatherRange marks a weather-sensitive facility: weather impact is drawn
// uniformly from [Min, Max] instead of the regional normal distribution.
type WeatherRange struct {
	Min float64
	Max float64
}

// Entry holds the static weights of one facility.
type Entry struct {
	ID             string
	BaseLoad       float64 // baseline occupancy pressure, 0-1
	Volatility     float64
	CapacityFactor float64
	Seasonal       float64
	WeatherRange   *WeatherRange
}

// WeatherSensitive reports whether weather is drawn from the facility's own range.
func (e Entry) WeatherSensitive() bool {
	return e.WeatherRange != nil
}

// Route is the preferred transfer destination for a source facility.
type Route struct {
	Source    string
	Target    string
	Specialty string
}

// Table is the immutable facility weight and routing table. It is built once
// at startup and shared read-only by all requests.
type Table struct {
	entries map[string]Entry
	routes  map[string]Route
}

// NewTable validates entries and routes and returns a Table. Zero Seasonal
// values take DefaultSeasonal; empty route specialties take DefaultSpecialty.
func NewTable(entries []Entry, routes []Route) (*Table, error) {
	t := &Table{
		entries: make(map[string]Entry, len(entries)),
		routes:  make(map[string]Route, len(routes)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, ErrEmptyID
		}
		if _, ok := t.entries[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		if e.BaseLoad < 0 || e.BaseLoad > 1 {
			return nil, fmt.Errorf("facility %s: %w", e.ID, ErrBaseLoadRange)
		}
		if e.WeatherRange != nil {
			if e.WeatherRange.Min > e.WeatherRange.Max {
				return nil, fmt.Errorf("facility %s: %w", e.ID, ErrWeatherRange)
			}
			wr := *e.WeatherRange
			e.WeatherRange = &wr
		}
		if e.Seasonal == 0 {
			e.Seasonal = DefaultSeasonal
		}
		t.entries[e.ID] = e
	}
	for _, r := range routes {
		if r.Source == "" {
			return nil, ErrEmptyID
		}
		if r.Target == "" {
			return nil, fmt.Errorf("route %s: %w", r.Source, ErrNoRouteTarget)
		}
		if r.Source == r.Target {
			return nil, fmt.Errorf("route %s: %w", r.Source, ErrSelfRoute)
		}
		if _, ok := t.routes[r.Source]; ok {
			return nil, fmt.Errorf("%w: route %s", ErrDuplicateID, r.Source)
		}
		if r.Specialty == "" {
			r.Specialty = DefaultSpecialty
		}
		t.routes[r.Source] = r
	}
	return t, nil
}

// Default returns the built-in Riyadh/Jeddah table.
func Default() *Table {
	t, err := NewTable(DefaultEntries(), DefaultRoutes())
	if err != nil {
		panic(fmt.Sprintf("facility: built-in table invalid: %v", err))
	}
	return t
}

// DefaultEntries returns the built-in facility weights.
func DefaultEntries() []Entry {
	return []Entry{
		{ID: "h1", BaseLoad: 0.85, Volatility: 0.10, CapacityFactor: 1.2}, // KFMC, Riyadh
		{ID: "h2", BaseLoad: 0.50, Volatility: 0.05, CapacityFactor: 0.9}, // Security Forces, Riyadh
		{ID: "h3", BaseLoad: 0.75, Volatility: 0.12, CapacityFactor: 1.1}, // King Fahad, Jeddah
		{ID: "h4", BaseLoad: 0.90, Volatility: 0.15, CapacityFactor: 1.5}, // East Jeddah
	}
}

// DefaultRoutes sends the Jeddah facilities to the h1 trauma hub, h1 to the
// secondary hub h2, and h2 back to h1.
func DefaultRoutes() []Route {
	return []Route{
		{Source: "h1", Target: "h2"},
		{Source: "h2", Target: "h1"},
		{Source: "h3", Target: "h1"},
		{Source: "h4", Target: "h1"},
	}
}

// DefaultEntry is the average-risk entry used for unknown facilities.
func DefaultEntry(id string) Entry {
	return Entry{
		ID:             id,
		BaseLoad:       0.5,
		Volatility:     0.1,
		CapacityFactor: 1.0,
		Seasonal:       DefaultSeasonal,
	}
}

// Lookup returns the entry for id, or DefaultEntry(id) when id is unknown.
func (t *Table) Lookup(id string) Entry {
	e, ok := t.entries[id]
	if !ok {
		return DefaultEntry(id)
	}
	if e.WeatherRange != nil {
		wr := *e.WeatherRange
		e.WeatherRange = &wr
	}
	return e
}

// Known reports whether id has its own entry.
func (t *Table) Known(id string) bool {
	_, ok := t.entries[id]
	return ok
}

// IDs returns the configured facility ids in sorted order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Route returns the transfer destination for source. Sources without a route
// go to DefaultHub, or to SecondaryHub when the source is DefaultHub itself.
// The returned target never equals source.
func (t *Table) Route(source string) Route {
	if r, ok := t.routes[source]; ok {
		return r
	}
	target := DefaultHub
	if source == DefaultHub {
		target = SecondaryHub
	}
	return Route{Source: source, Target: target, Specialty: DefaultSpecialty}
}

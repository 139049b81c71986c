package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownFacility(t *testing.T) {
	table := Default()

	e := table.Lookup("h1")
	assert.Equal(t, "h1", e.ID)
	assert.Equal(t, 0.85, e.BaseLoad)
	assert.Equal(t, 0.10, e.Volatility)
	assert.Equal(t, 1.2, e.CapacityFactor)
	assert.Equal(t, DefaultSeasonal, e.Seasonal)
	assert.True(t, table.Known("h1"))
}

// TestLookup_UnknownFacilityUsesDefault verifies unknown ids resolve to the
// average-risk entry instead of failing.
func TestLookup_UnknownFacilityUsesDefault(t *testing.T) {
	table := Default()

	e := table.Lookup("zz-unknown")
	assert.Equal(t, "zz-unknown", e.ID)
	assert.Equal(t, 0.5, e.BaseLoad)
	assert.Equal(t, 0.1, e.Volatility)
	assert.False(t, e.WeatherSensitive())
	assert.False(t, table.Known("zz-unknown"))
}

func TestIDs_Sorted(t *testing.T) {
	assert.Equal(t, []string{"h1", "h2", "h3", "h4"}, Default().IDs())
}

func TestRoute_DefaultTable(t *testing.T) {
	table := Default()
	tests := []struct {
		source string
		target string
	}{
		{"h1", "h2"},
		{"h2", "h1"},
		{"h3", "h1"},
		{"h4", "h1"},
		{"unknown", DefaultHub},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			r := table.Route(tt.source)
			assert.Equal(t, tt.target, r.Target)
			assert.NotEqual(t, tt.source, r.Target)
			assert.Equal(t, DefaultSpecialty, r.Specialty)
		})
	}
}

// TestRoute_UnroutedHubGoesToSecondary verifies the default hub never routes to itself.
func TestRoute_UnroutedHubGoesToSecondary(t *testing.T) {
	table, err := NewTable([]Entry{{ID: DefaultHub, BaseLoad: 0.4}}, nil)
	require.NoError(t, err)

	r := table.Route(DefaultHub)
	assert.Equal(t, SecondaryHub, r.Target)
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		routes  []Route
		wantErr error
	}{
		{"empty id", []Entry{{BaseLoad: 0.5}}, nil, ErrEmptyID},
		{"duplicate", []Entry{{ID: "a", BaseLoad: 0.5}, {ID: "a", BaseLoad: 0.6}}, nil, ErrDuplicateID},
		{"base load high", []Entry{{ID: "a", BaseLoad: 1.2}}, nil, ErrBaseLoadRange},
		{"base load negative", []Entry{{ID: "a", BaseLoad: -0.1}}, nil, ErrBaseLoadRange},
		{"weather range", []Entry{{ID: "a", WeatherRange: &WeatherRange{Min: 40, Max: 30}}}, nil, ErrWeatherRange},
		{"self route", nil, []Route{{Source: "a", Target: "a"}}, ErrSelfRoute},
		{"missing target", nil, []Route{{Source: "a"}}, ErrNoRouteTarget},
		{"duplicate route", nil, []Route{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}}, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries, tt.routes)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestNewTable_CopiesWeatherRange verifies the table does not alias caller-owned ranges.
func TestNewTable_CopiesWeatherRange(t *testing.T) {
	wr := &WeatherRange{Min: 30, Max: 45}
	table, err := NewTable([]Entry{{ID: "h4", BaseLoad: 0.9, Seasonal: 1.1, WeatherRange: wr}}, nil)
	require.NoError(t, err)

	wr.Max = 99
	e := table.Lookup("h4")
	require.True(t, e.WeatherSensitive())
	assert.Equal(t, 45.0, e.WeatherRange.Max)
	assert.Equal(t, 1.1, e.Seasonal)
}

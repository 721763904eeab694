// Package domain models the daily environmental context of Ipswich, MA.
//
// # Snapshot
//
// A [Snapshot] has one slot per physical quantity, grouped into four sections:
//
//	Ocean:      waves, sea surface temperature, ocean color, harmful algal bloom
//	Atmosphere: air quality, wildfire smoke
//	Land:       vegetation, snow cover, drought, coastal erosion
//	Astronomy:  visible planets, meteor shower
//
// Slots are pointers. A nil slot means the source was unavailable for this
// snapshot. A non-nil slot may carry a confirmed negative reported by the
// provider, e.g. drought severity "none" when the Drought Monitor shows 0% of
// the county in any category. The two cases are never conflated.
//
// # Live, Estimated and Static Values
//
// Waves, sea surface temperature, ocean color, air quality, snow cover and
// drought come from network providers. Some slots are derived without I/O:
//
//	Ocean color:  seasonal chlorophyll table when the satellite query fails
//	              (Estimated = true)
//	HAB status:   seasonal calendar; Massachusetts blooms run July-October
//	Vegetation:   seasonal NDVI baseline mid-point plus a monthly adjustment,
//	              clamped to 0-1
//	Erosion:      MA CZM shoreline hotspot table
//	Astronomy:    annual meteor shower and planet visibility calendars
//	Smoke:        inferred from the PM2.5 AQI already in the air quality slot
//
// Estimates are deterministic: the same date always gives the same value.
// [Snapshot.HasAnyData] only counts live values, so a snapshot built while
// every provider is down reports false even though estimates are present.
//
// # Units
//
// Providers report SI units; prose and records use US units:
//
//	Temperature:  °C from MUR SST, converted to °F
//	Wave height:  meters from WaveWatch III, converted to feet
//	Snow:         millimeters from NOHRSC, converted to inches
//	Direction:    degrees true, mapped to a 16-point compass rose by rounding
//	              to the nearest 22.5° sector
//
// # Classification Bands
//
// Continuous values map onto labels through ordered threshold tables. Each
// bucket covers [min, max); values outside every bucket map to an explicit
// unknown label. Tables are validated when the package loads.
//
//	Wave energy (ft):       <1 calm | <3 light | <6 moderate | <10 rough | ≥10 high
//	AQI (EPA):              0-50 Good | 51-100 Moderate | 101-150 USG |
//	                        151-200 Unhealthy | 201-300 Very Unhealthy | 301-500 Hazardous
//	Chlorophyll (mg/m³):    <2 normal | <5 elevated | ≥5 bloom
//	Snow depth (in):        <0.1 none | <1 patchy | ≥1 continuous
//	River flow (cfs):       <10 very low | <50 low | <150 normal | <500 high | ≥500 flood stage
//
// # Prose
//
// Every context has a nil-safe Format method that returns a "## " sub-section
// or "" when there is nothing worth saying. [FormatSnapshot] groups them under
// "# " section headers and leaves out sections with no content.
package domain

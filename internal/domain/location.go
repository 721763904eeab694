package domain

import (
	"time"
	_ "time/tzdata" // zone database for minimal containers
)

// Town coordinates (Ipswich, MA) used by every provider query.
const (
	TownLat = 42.6792
	TownLon = -70.8417
)

// Provider-specific identifiers for the town.
const (
	EssexCountyFIPS = "25009"
	EBirdRegion     = "US-MA-009"
	RiverGaugeID    = "01101500" // Ipswich River at South Middleton
	RiverGaugeName  = "Ipswich River at South Middleton"
	MarineZoneName  = "Ipswich Bay / Massachusetts Bay"
)

// TownZone is the town's local time zone, falling back to UTC when the zone
// database is unavailable.
var TownZone = loadZone("America/New_York")

func loadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BBox is a latitude/longitude window for gridded queries.
type BBox struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// BBoxAround returns a square window of the given radius (degrees) centered on
// the town.
func BBoxAround(radius float64) BBox {
	return BBox{
		LatMin: TownLat - radius,
		LatMax: TownLat + radius,
		LonMin: TownLon - radius,
		LonMax: TownLon + radius,
	}
}

// To360 shifts the longitudes of the window into the 0-360 convention used by
// some global model grids.
func (b BBox) To360() BBox {
	return BBox{
		LatMin: b.LatMin,
		LatMax: b.LatMax,
		LonMin: LonTo360(b.LonMin),
		LonMax: LonTo360(b.LonMax),
	}
}

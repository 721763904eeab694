package domain

import "time"

// Snapshot is the environmental context for one day. Each slot is nil when its
// source was unavailable. A non-nil slot may still report a confirmed absence
// (no snow, no drought, no smoke).
type Snapshot struct {
	Date time.Time

	// Ocean
	Waves             *WaveContext
	SeaSurfaceTemp    *SeaSurfaceTempContext
	OceanColor        *OceanColorContext
	HarmfulAlgalBloom *HABContext

	// Atmosphere
	AirQuality *AirQualityContext
	Smoke      *SmokeContext

	// Land
	Vegetation     *VegetationContext
	SnowCover      *SnowCoverContext
	Drought        *DroughtContext
	CoastalErosion *CoastalErosionContext

	// Astronomy
	Planets      *PlanetaryContext
	MeteorShower *MeteorShowerContext
}

// HasAnyData reports whether at least one live source returned an informative
// value. Calendar estimates and static tables are always present, so they do
// not count; neither do confirmed negatives such as "no snow".
func (s *Snapshot) HasAnyData() bool {
	if s == nil {
		return false
	}
	switch {
	case s.Waves != nil, s.SeaSurfaceTemp != nil, s.AirQuality != nil:
		return true
	case s.OceanColor != nil && !s.OceanColor.Estimated:
		return true
	case s.HarmfulAlgalBloom != nil && !s.HarmfulAlgalBloom.Estimated && s.HarmfulAlgalBloom.Status != HABNone:
		return true
	case s.Smoke != nil && s.Smoke.Present:
		return true
	case s.SnowCover != nil && s.SnowCover.Coverage != SnowNone:
		return true
	case s.Drought != nil && s.Drought.Severity != DroughtNone:
		return true
	}
	return false
}

// Available counts the populated slots.
func (s *Snapshot) Available() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, set := range []bool{
		s.Waves != nil, s.SeaSurfaceTemp != nil, s.OceanColor != nil, s.HarmfulAlgalBloom != nil,
		s.AirQuality != nil, s.Smoke != nil,
		s.Vegetation != nil, s.SnowCover != nil, s.Drought != nil, s.CoastalErosion != nil,
		s.Planets != nil, s.MeteorShower != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

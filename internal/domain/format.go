package domain

import "strings"

// Section headers, in render order.
const (
	SectionOcean      = "Ocean"
	SectionAtmosphere = "Atmosphere"
	SectionLand       = "Land"
	SectionAstronomy  = "Astronomy"
)

// FormatSnapshot renders the snapshot as prose grouped into Ocean, Atmosphere,
// Land and Astronomy sections. Sub-sections with nothing to say are skipped and
// a section with no sub-sections is left out entirely.
func FormatSnapshot(s *Snapshot) string {
	if s == nil {
		return ""
	}
	return joinNonEmpty("\n\n",
		section(SectionOcean,
			s.Waves.Format(),
			s.SeaSurfaceTemp.Format(),
			s.OceanColor.Format(),
			s.HarmfulAlgalBloom.Format(),
		),
		section(SectionAtmosphere,
			s.AirQuality.Format(),
			s.Smoke.Format(),
		),
		section(SectionLand,
			s.Vegetation.Format(),
			s.SnowCover.Format(),
			s.Drought.Format(),
			s.CoastalErosion.Format(),
		),
		section(SectionAstronomy,
			s.Planets.Format(),
			s.MeteorShower.Format(),
		),
	)
}

func section(title string, parts ...string) string {
	body := joinNonEmpty("\n", parts...)
	if body == "" {
		return ""
	}
	return "# " + title + "\n" + body
}

func subsection(title string, lines ...string) string {
	return "## " + title + "\n" + strings.Join(lines, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

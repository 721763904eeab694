package domain

import (
	"fmt"
	"strings"
	"time"
)

// MeteorShower is one entry of the annual meteor shower calendar. Peak dates
// are month/day and recur every year.
type MeteorShower struct {
	Name      string
	PeakStart MonthDay
	PeakEnd   MonthDay
	Rate      string
	Radiant   string
	Notes     string
}

// MonthDay is a calendar day without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) in(year int) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

func (md MonthDay) ordinal() int { return int(md.Month)*100 + md.Day }

func (md MonthDay) valid() bool {
	if md.Month < time.January || md.Month > time.December || md.Day < 1 {
		return false
	}
	// Use a leap year so Feb 29 is accepted.
	return md.in(2024).Day() == md.Day
}

// ShowerWindowDays is how many days before and after the peak a shower is
// reported as active.
const ShowerWindowDays = 3

// MeteorShowers is the annual calendar, ordered by peak date. When two activity
// windows overlap the earlier entry wins.
var MeteorShowers = []MeteorShower{
	{"Quadrantids", MonthDay{time.January, 3}, MonthDay{time.January, 4}, "60-120 per hour", "Boötes", "Brief but intense peak; best after midnight"},
	{"Lyrids", MonthDay{time.April, 21}, MonthDay{time.April, 23}, "10-20 per hour", "Lyra", "Spring shower; occasional fireballs"},
	{"Eta Aquariids", MonthDay{time.May, 5}, MonthDay{time.May, 7}, "20-40 per hour", "Aquarius", "Halley's Comet debris; best before dawn"},
	{"Delta Aquariids", MonthDay{time.July, 28}, MonthDay{time.July, 30}, "15-20 per hour", "Aquarius", "Warm summer nights; overlaps with Perseids buildup"},
	{"Perseids", MonthDay{time.August, 11}, MonthDay{time.August, 13}, "50-100 per hour", "Perseus", "Most popular shower; reliable and warm viewing conditions"},
	{"Draconids", MonthDay{time.October, 8}, MonthDay{time.October, 9}, "5-10 per hour", "Draco", "Best in evening; occasional outbursts"},
	{"Orionids", MonthDay{time.October, 20}, MonthDay{time.October, 22}, "15-20 per hour", "Orion", "Halley's Comet debris; fast meteors"},
	{"Taurids", MonthDay{time.November, 4}, MonthDay{time.November, 12}, "5-10 per hour", "Taurus", "Slow, bright fireballs; long active period"},
	{"Leonids", MonthDay{time.November, 17}, MonthDay{time.November, 18}, "10-15 per hour", "Leo", "Historic storm shower; occasional outbursts"},
	{"Geminids", MonthDay{time.December, 13}, MonthDay{time.December, 14}, "120-150 per hour", "Gemini", "Year's best shower; bright, colorful meteors"},
	{"Ursids", MonthDay{time.December, 21}, MonthDay{time.December, 23}, "5-10 per hour", "Ursa Minor", "Solstice shower; underobserved"},
}

// MeteorShowerContext describes the shower active on a date, if any. An empty
// ActiveShower means no shower is active.
type MeteorShowerContext struct {
	ActiveShower string
	PeakTonight  bool
	ExpectedRate string
	Radiant      string
	Notes        string
}

// MeteorShowerOn returns the shower active on date using the default window.
func MeteorShowerOn(date time.Time) *MeteorShowerContext {
	return MeteorShowerWithin(date, ShowerWindowDays)
}

// MeteorShowerWithin returns the shower whose peak, extended by windowDays on
// each side, contains date. Peaks are tried in the previous, current and next
// year so windows that cross New Year match.
func MeteorShowerWithin(date time.Time, windowDays int) *MeteorShowerContext {
	d := DateOf(date)
	for _, s := range MeteorShowers {
		for _, year := range []int{d.Year() - 1, d.Year(), d.Year() + 1} {
			start := s.PeakStart.in(year)
			end := s.PeakEnd.in(year)
			if end.Before(start) {
				end = s.PeakEnd.in(year + 1)
			}
			from := start.AddDate(0, 0, -windowDays)
			to := end.AddDate(0, 0, windowDays)
			if d.Before(from) || d.After(to) {
				continue
			}
			peak := !d.Before(start) && !d.After(end)
			rate := s.Rate
			if !peak {
				rate = "building to " + s.Rate
			}
			return &MeteorShowerContext{
				ActiveShower: s.Name,
				PeakTonight:  peak,
				ExpectedRate: rate,
				Radiant:      s.Radiant,
				Notes:        s.Notes,
			}
		}
	}
	return &MeteorShowerContext{}
}

// Format renders the meteor shower sub-section. No active shower renders
// nothing.
func (m *MeteorShowerContext) Format() string {
	if m == nil || m.ActiveShower == "" {
		return ""
	}
	var lines []string
	if m.PeakTonight {
		lines = append(lines, fmt.Sprintf("- **%s peak tonight!** (%s)", m.ActiveShower, m.ExpectedRate))
	} else {
		lines = append(lines, fmt.Sprintf("- %s shower active (%s)", m.ActiveShower, m.ExpectedRate))
	}
	if m.Radiant != "" {
		lines = append(lines, "- Look toward "+m.Radiant)
	}
	if m.Notes != "" {
		lines = append(lines, "- "+m.Notes)
	}
	return subsection("Meteor Shower", lines...)
}

// DayWindow is an inclusive month/day range. A window whose start falls after
// its end wraps across New Year.
type DayWindow struct {
	Start, End MonthDay
}

// Contains reports whether date's month and day fall inside the window.
func (w DayWindow) Contains(date time.Time) bool {
	md := MonthDay{date.Month(), date.Day()}.ordinal()
	s, e := w.Start.ordinal(), w.End.ordinal()
	if s <= e {
		return md >= s && md <= e
	}
	return md >= s || md <= e
}

func window(sm time.Month, sd int, em time.Month, ed int) DayWindow {
	return DayWindow{MonthDay{sm, sd}, MonthDay{em, ed}}
}

// PlanetWindows holds the typical naked-eye visibility periods of one planet.
type PlanetWindows struct {
	Planet   string
	Evening  []DayWindow
	Morning  []DayWindow
	AllNight []DayWindow
}

// PlanetVisibility is a simplified yearly visibility calendar, in the order
// planets are listed.
var PlanetVisibility = []PlanetWindows{
	{
		Planet: "Mercury",
		Evening: []DayWindow{
			window(time.January, 15, time.February, 15),
			window(time.May, 1, time.May, 31),
			window(time.August, 20, time.September, 20),
			window(time.December, 10, time.December, 31),
		},
		Morning: []DayWindow{
			window(time.March, 1, time.March, 31),
			window(time.July, 1, time.July, 20),
			window(time.October, 15, time.November, 15),
		},
	},
	{
		Planet:  "Venus",
		Evening: []DayWindow{window(time.January, 1, time.March, 20)},
		Morning: []DayWindow{window(time.April, 15, time.December, 31)},
	},
	{
		Planet:  "Mars",
		Evening: []DayWindow{window(time.January, 1, time.June, 30)},
		Morning: []DayWindow{window(time.September, 1, time.December, 31)},
	},
	{
		Planet:   "Jupiter",
		Evening:  []DayWindow{window(time.January, 1, time.May, 15)},
		Morning:  []DayWindow{window(time.July, 1, time.September, 30)},
		AllNight: []DayWindow{window(time.October, 1, time.December, 31)},
	},
	{
		Planet:   "Saturn",
		Evening:  []DayWindow{window(time.January, 1, time.February, 28)},
		Morning:  []DayWindow{window(time.June, 1, time.August, 31)},
		AllNight: []DayWindow{window(time.September, 1, time.October, 31)},
	},
}

func init() {
	for i, s := range MeteorShowers {
		if !s.PeakStart.valid() || !s.PeakEnd.valid() {
			panic(fmt.Sprintf("meteor shower %s: invalid peak date", s.Name))
		}
		if i > 0 && s.PeakStart.ordinal() < MeteorShowers[i-1].PeakStart.ordinal() {
			panic(fmt.Sprintf("meteor shower %s: calendar out of order", s.Name))
		}
	}
	for _, p := range PlanetVisibility {
		for _, ws := range [][]DayWindow{p.Evening, p.Morning, p.AllNight} {
			for _, w := range ws {
				if !w.Start.valid() || !w.End.valid() {
					panic(fmt.Sprintf("planet %s: invalid visibility window %v", p.Planet, w))
				}
			}
		}
	}
}

// paradeSize is how many planets in one sky make a planet parade.
const paradeSize = 3

// PlanetaryContext lists the planets visible on a date.
type PlanetaryContext struct {
	Visible      []string
	Evening      []string
	Morning      []string
	NotableEvent string
}

// VisiblePlanetsOn returns the planets visible on date. Evening windows are
// checked first, then morning, then all-night; an all-night planet is listed
// in both the evening and the morning sky.
func VisiblePlanetsOn(date time.Time) *PlanetaryContext {
	p := &PlanetaryContext{
		Visible: []string{},
		Evening: []string{},
		Morning: []string{},
	}
	for _, pw := range PlanetVisibility {
		switch {
		case anyContains(pw.Evening, date):
			p.Visible = append(p.Visible, pw.Planet)
			p.Evening = append(p.Evening, pw.Planet)
		case anyContains(pw.Morning, date):
			p.Visible = append(p.Visible, pw.Planet)
			p.Morning = append(p.Morning, pw.Planet)
		case anyContains(pw.AllNight, date):
			p.Visible = append(p.Visible, pw.Planet)
			p.Evening = append(p.Evening, pw.Planet)
			p.Morning = append(p.Morning, pw.Planet)
		}
	}

	switch {
	case len(p.Evening) >= paradeSize:
		p.NotableEvent = fmt.Sprintf("Planet parade: %s visible in evening sky", strings.Join(p.Evening, ", "))
	case len(p.Morning) >= paradeSize:
		p.NotableEvent = fmt.Sprintf("Planet parade: %s visible before dawn", strings.Join(p.Morning, ", "))
	}
	return p
}

func anyContains(ws []DayWindow, date time.Time) bool {
	for _, w := range ws {
		if w.Contains(date) {
			return true
		}
	}
	return false
}

// Format renders the planets sub-section. No visible planets renders nothing.
func (p *PlanetaryContext) Format() string {
	if p == nil || len(p.Visible) == 0 {
		return ""
	}
	var lines []string
	if len(p.Evening) > 0 {
		lines = append(lines, "- Evening sky: "+strings.Join(p.Evening, ", "))
	}
	if len(p.Morning) > 0 {
		lines = append(lines, "- Before dawn: "+strings.Join(p.Morning, ", "))
	}
	if p.NotableEvent != "" {
		lines = append(lines, "- "+p.NotableEvent)
	}
	return subsection("Visible Planets Tonight", lines...)
}

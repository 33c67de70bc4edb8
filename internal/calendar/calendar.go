// Package calendar resolves wall-clock instants to ledger civil dates.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"

	"taxiledger/internal/core"
)

// System names the calendar expense dates are written in.
type System string

const (
	Jalali    System = "jalali"
	Gregorian System = "gregorian"
)

// Iran Standard Time. Fixed offset because the country dropped DST in 2022.
var tehran = time.FixedZone("IRST", 3*3600+30*60)

// Parse maps a config value to a System. Empty selects Jalali.
func Parse(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case "", Jalali:
		return Jalali, nil
	case Gregorian:
		return Gregorian, nil
	default:
		return "", fmt.Errorf("unknown calendar system %q", s)
	}
}

// CivilDate converts t to a date in the system.
func (s System) CivilDate(t time.Time) core.CivilDate {
	if s == Gregorian {
		y, m, d := t.Date()
		return core.CivilDate{Year: y, Month: int(m), Day: d}
	}
	pt := ptime.New(t.In(tehran))
	return core.CivilDate{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()}
}

// Clock resolves "today" for reports. Now is swappable in tests.
type Clock struct {
	System System
	Now    func() time.Time
}

func NewClock(s System) *Clock {
	return &Clock{System: s, Now: time.Now}
}

// Today returns the current civil date.
func (c *Clock) Today() core.CivilDate {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return c.System.CivilDate(now())
}

package worktime

import (
	"fmt"
	"strings"
	"time"
)

// Zones resolves a user id to the time zone their working window is
// evaluated in. Users without an explicit entry use the default zone,
// so two users reviewing the same PR can legitimately yield different
// business durations.
type Zones struct {
	def    *time.Location
	byUser map[string]*time.Location
}

func NewZones(def *time.Location) *Zones {
	if def == nil {
		def = time.UTC
	}
	return &Zones{def: def, byUser: make(map[string]*time.Location)}
}

func (z *Zones) Set(user string, loc *time.Location) {
	z.byUser[user] = loc
}

// Get returns the zone configured for user, or the default.
func (z *Zones) Get(user string) *time.Location {
	if loc, ok := z.byUser[user]; ok {
		return loc
	}
	return z.def
}

func (z *Zones) Default() *time.Location {
	return z.def
}

// ParseUserZones parses a "user=Area/City,user2=Area/City" list into a
// zone table on top of the given default.
func ParseUserZones(spec string, def *time.Location) (*Zones, error) {
	zones := NewZones(def)
	if strings.TrimSpace(spec) == "" {
		return zones, nil
	}

	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		user, zone, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("user zone entry %q: want user=Area/City", pair)
		}
		loc, err := time.LoadLocation(strings.TrimSpace(zone))
		if err != nil {
			return nil, fmt.Errorf("user zone entry %q: %w", pair, err)
		}
		zones.Set(strings.TrimSpace(user), loc)
	}

	return zones, nil
}

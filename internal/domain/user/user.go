package user

import "time"

// City is the timezone-determining locale a user picks at registration.
type City string

const (
	CityJerusalem City = "JERUSALEM"
	CityParis     City = "PARIS"
	CityLondon    City = "LONDON"
	CityNewYork   City = "NEW_YORK"
)

var (
	zoneJerusalem = mustLocation("Asia/Jerusalem")
	zoneParis     = mustLocation("Europe/Paris")
	zoneLondon    = mustLocation("Europe/London")
	zoneNewYork   = mustLocation("America/New_York")
)

// Timezone maps the city to its IANA zone. The table is fixed; anything
// unrecognized falls back to Jerusalem, same as a fresh account.
func (c City) Timezone() *time.Location {
	switch c {
	case CityParis:
		return zoneParis
	case CityLondon:
		return zoneLondon
	case CityNewYork:
		return zoneNewYork
	default:
		return zoneJerusalem
	}
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// User is a recipient identity as the directory exposes it. Email is the
// delivery key; City derives the zone for reminder arithmetic and time
// rendering. Account lifecycle lives upstream.
type User struct {
	ID    int64
	Email string
	Name  string
	City  City
}

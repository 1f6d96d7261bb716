package utils

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/vit0-9/breachsignal_api/models"
)

// GeoIP wraps the optional MaxMind City and ASN databases. Either reader may
// be missing; lookups then return whatever the loaded databases provide.
type GeoIP struct {
	cityDB *geoip2.Reader
	asnDB  *geoip2.Reader
}

// OpenGeoIP opens the databases whose paths are non-empty. A database that
// fails to open is skipped and reported through the returned error while the
// rest stay usable.
func OpenGeoIP(cityDBPath, asnDBPath string) (*GeoIP, error) {
	g := &GeoIP{}
	var errs []error

	if cityDBPath != "" {
		db, err := geoip2.Open(cityDBPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("open GeoLite2-City database %s: %w", cityDBPath, err))
		} else {
			g.cityDB = db
		}
	}
	if asnDBPath != "" {
		db, err := geoip2.Open(asnDBPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("open GeoLite2-ASN database %s: %w", asnDBPath, err))
		} else {
			g.asnDB = db
		}
	}
	return g, errors.Join(errs...)
}

// Enabled reports whether at least one database is loaded.
func (g *GeoIP) Enabled() bool {
	return g != nil && (g.cityDB != nil || g.asnDB != nil)
}

// Lookup returns location and network ownership for ip, or nil when nothing
// is known about it.
func (g *GeoIP) Lookup(ipStr string) *models.GeoInfo {
	if !g.Enabled() {
		return nil
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil
	}

	info := &models.GeoInfo{}
	found := false

	if g.cityDB != nil {
		if rec, err := g.cityDB.City(ip); err == nil && rec != nil {
			info.CountryName = rec.Country.Names["en"]
			info.CityName = rec.City.Names["en"]
			info.Latitude = rec.Location.Latitude
			info.Longitude = rec.Location.Longitude
			info.TimeZone = rec.Location.TimeZone
			found = found || info.CountryName != "" || info.CityName != ""
		}
	}

	if g.asnDB != nil {
		if rec, err := g.asnDB.ASN(ip); err == nil && rec != nil {
			info.ASN = rec.AutonomousSystemNumber
			info.ASOrganization = rec.AutonomousSystemOrganization
			found = found || info.ASN != 0
		}
	}

	if !found {
		return nil
	}
	return info
}

// Close releases the loaded databases.
func (g *GeoIP) Close() error {
	if g == nil {
		return nil
	}
	var errs []error
	if g.cityDB != nil {
		errs = append(errs, g.cityDB.Close())
	}
	if g.asnDB != nil {
		errs = append(errs, g.asnDB.Close())
	}
	return errors.Join(errs...)
}

// Package geoip maps client IPs to ISO country codes for locale detection.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when no database is loaded.
var ErrUnavailable = errors.New("geoip resolver unavailable")

type countryReader interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Close() error
}

// Resolver answers country lookups from a MaxMind GeoIP2/GeoLite2 database.
// Answers are cached per IP; private and loopback addresses never hit the
// database.
type Resolver struct {
	reader countryReader
	cache  gcache.Cache
}

// NewResolver opens the database at path. An empty path returns a nil
// Resolver and no error.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return newResolver(reader), nil
}

func newResolver(reader countryReader) *Resolver {
	return &Resolver{
		reader: reader,
		cache:  gcache.New(4096).LRU().Expiration(6 * time.Hour).Build(),
	}
}

// CountryCode returns the ISO country code for ip, or "" when it is unknown.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return "", nil
	}
	key := parsed.String()
	if v, err := r.cache.Get(key); err == nil {
		return v.(string), nil
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	code := ""
	if record != nil {
		code = strings.ToUpper(record.Country.IsoCode)
	}
	_ = r.cache.Set(key, code)
	return code, nil
}

// Close releases the database.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

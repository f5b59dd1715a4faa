package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"garmentgrid/internal/i18n"
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

type localeContextKey struct{}

type requestLocale struct {
	locale  string
	country string
}

// Edge proxies that already know the client country.
var countryHeaders = []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}

// I18N picks the response locale (en or bn) for every request. An explicit
// choice wins: the lang query parameter, then X-Locale, then Accept-Language.
// Without one, Bangladeshi clients get bn and everyone else the default.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback := i18n.Normalize(defaultLocale)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rl := requestLocale{country: ResolveCountry(r, lookup)}
			rl.locale = pickLocale(r, fallback, rl.country)

			w.Header().Set("Content-Language", rl.locale)
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeContextKey{}, rl)))
		})
	}
}

func pickLocale(r *http.Request, fallback, country string) string {
	for _, hint := range []string{
		r.URL.Query().Get("lang"),
		r.Header.Get("X-Locale"),
		r.Header.Get("Accept-Language"),
	} {
		if strings.TrimSpace(hint) != "" {
			return i18n.Normalize(hint)
		}
	}
	switch {
	case country == "BD":
		return i18n.LocaleBengali
	case country != "":
		return i18n.LocaleEnglish
	case fallback != "":
		return fallback
	}
	return i18n.LocaleEnglish
}

// LocaleFromContext returns the locale chosen by I18N, or en outside it.
func LocaleFromContext(ctx context.Context) string {
	if rl, ok := ctx.Value(localeContextKey{}).(requestLocale); ok && rl.locale != "" {
		return rl.locale
	}
	return i18n.LocaleEnglish
}

// CountryFromContext returns the upper-case ISO country code, if one was found.
func CountryFromContext(ctx context.Context) string {
	rl, _ := ctx.Value(localeContextKey{}).(requestLocale)
	return rl.country
}

// ResolveCountry makes a best-effort guess at the client country: proxy
// headers first, then a region named in the locale headers, then GeoIP.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range countryHeaders {
		if v := strings.TrimSpace(r.Header.Get(key)); v != "" {
			return strings.ToUpper(v)
		}
	}
	for _, key := range []string{"X-Locale", "Accept-Language"} {
		if region := localeRegion(r.Header.Get(key)); region != "" {
			return region
		}
	}
	if lookup == nil {
		return ""
	}
	ip := ClientIP(r)
	if ip == "" {
		return ""
	}
	country, err := lookup(ip)
	if err != nil {
		return ""
	}
	return strings.ToUpper(country)
}

// localeRegion returns the region an Accept-Language style value names
// explicitly, e.g. BD for "bn-BD". Regions x/text would only guess are ignored.
func localeRegion(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}

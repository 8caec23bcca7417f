package config

import (
	neturl "net/url"
	"strconv"
	"strings"
)

// Placeholder credential fragments that mark a config file copied from the
// template but never filled in. A DSN containing one of these counts as
// unconfigured and gates off all remote-store traffic.
var placeholderMarkers = []string{
	"your-",
	"changeme",
	"<user>",
	"<password>",
}

func (c DatabaseRuntimeConfig) DSNValue() string {
	if v := c.DSN; v != "" {
		return v
	}
	if v := c.URL; v != "" {
		return v
	}
	if c.Host == "" && c.User == "" && c.Name == "" {
		return ""
	}

	host := c.Host
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	charset := c.Charset
	if charset == "" {
		charset = defaultDBCharset
	}
	loc := c.Loc
	if loc == "" {
		loc = defaultDBLoc
	}

	params := neturl.Values{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params.Set(k, v)
		}
	}
	if params.Get("charset") == "" {
		params.Set("charset", charset)
	}
	if params.Get("parseTime") == "" {
		params.Set("parseTime", "True")
	}
	if params.Get("loc") == "" {
		params.Set("loc", loc)
	}

	auth := ""
	if c.User != "" {
		auth = c.User
		if c.Password != "" {
			auth += ":" + c.Password
		}
		auth += "@"
	}

	return auth + "tcp(" + host + ":" + strconv.Itoa(port) + ")/" + c.Name + "?" + params.Encode()
}

// StoreConfigured reports whether real remote-store credentials are present.
// Computed once at startup; an empty or placeholder DSN means every write
// no-ops and every read returns an empty snapshot.
func (c *AppConfig) StoreConfigured() bool {
	dsn := strings.ToLower(c.DSN)
	if dsn == "" {
		return false
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(dsn, marker) {
			return false
		}
	}
	return true
}

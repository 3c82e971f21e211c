package warehouse

import (
	"crypto/tls"
	"database/sql"
	"fmt"
	"net"
	"net/url"

	"github.com/ClickHouse/clickhouse-go/v2"
)

func openClickHouse(settings Settings) (*sql.DB, error) {
	opts, err := clickHouseOptions(settings.ClickHouse)
	if err != nil {
		return nil, err
	}
	return clickhouse.OpenDB(opts), nil
}

// clickHouseOptions maps a URL such as http://localhost:8123 or clickhouse://host:9000
// onto driver options. http and https select the HTTP interface, anything else the native one.
func clickHouseOptions(s ClickHouseSettings) (*clickhouse.Options, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse url %q: %w", s.URL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("clickhouse url %q has no host", s.URL)
	}

	protocol := clickhouse.Native
	defaultPort := "9000"
	var tlsConfig *tls.Config
	switch u.Scheme {
	case "http":
		protocol = clickhouse.HTTP
		defaultPort = "8123"
	case "https":
		protocol = clickhouse.HTTP
		defaultPort = "8443"
		tlsConfig = &tls.Config{}
	case "clickhouse", "tcp":
	default:
		return nil, fmt.Errorf("unsupported clickhouse url scheme %q", u.Scheme)
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), defaultPort)
	}

	return &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: protocol,
		TLS:      tlsConfig,
		Auth: clickhouse.Auth{
			Database: s.Database,
			Username: s.User,
			Password: s.Password,
		},
		DialTimeout: s.DialTimeout,
	}, nil
}

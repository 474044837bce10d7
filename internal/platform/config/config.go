package config

import (
	"os"
	"strings"
	"time"
)

// DefaultOpenLawRoot is the API root of the public contract-hosting instance.
const DefaultOpenLawRoot = "https://lib.openlaw.io/api/v1/default"

// Server captures process level configuration.
type Server struct {
	Addr             string
	Environment      string
	LogLevel         string
	OpenLawRoot      string
	RemoteTimeout    time.Duration
	StrictDates      bool
	DateLocation     *time.Location
	SendNotification bool
}

// RemoteTimeout bounds every call to the contract-hosting service.
var RemoteTimeout = 20 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PETITION_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	root := strings.TrimSpace(os.Getenv("OPENLAW_ROOT"))
	if root == "" {
		root = DefaultOpenLawRoot
	}

	timeout := RemoteTimeout
	if raw := os.Getenv("OPENLAW_TIMEOUT"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
			timeout = duration
		}
	}

	loc := time.UTC
	if name := os.Getenv("DATE_LOCATION"); name != "" {
		if l, err := time.LoadLocation(name); err == nil {
			loc = l
		}
	}

	return Server{
		Addr:             addr,
		Environment:      env,
		LogLevel:         os.Getenv("LOG_LEVEL"),
		OpenLawRoot:      root,
		RemoteTimeout:    timeout,
		StrictDates:      os.Getenv("STRICT_DATES") == "true",
		DateLocation:     loc,
		SendNotification: os.Getenv("SEND_NOTIFICATION") != "false",
	}
}

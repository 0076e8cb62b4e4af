package jwt_cookie_handler_config

import (
	"net/http"
	"time"
)

var (
	DefaultCookieName         = "session"
	DefaultLifetime           = time.Hour
	DefaultReturnUrlParameter = "ReturnUrl"
	DefaultRealm              = "results"
)

type Config struct {
	CookieName         string
	CookiePath         string
	Issuer             string
	Lifetime           time.Duration
	LoginPath          string
	AccessDeniedPath   string
	ReturnUrlParameter string
	Realm              string
	Insecure           bool
	SameSite           http.SameSite
	TimeFunc           func() time.Time
}

type Option func(*Config)

func New(options ...Option) *Config {
	config := &Config{
		CookieName:         DefaultCookieName,
		CookiePath:         "/",
		Lifetime:           DefaultLifetime,
		ReturnUrlParameter: DefaultReturnUrlParameter,
		Realm:              DefaultRealm,
		SameSite:           http.SameSiteLaxMode,
		TimeFunc:           time.Now,
	}
	for _, option := range options {
		if option != nil {
			option(config)
		}
	}

	return config
}

func WithCookieName(name string) Option {
	return func(config *Config) {
		config.CookieName = name
	}
}

func WithCookiePath(path string) Option {
	return func(config *Config) {
		config.CookiePath = path
	}
}

func WithIssuer(issuer string) Option {
	return func(config *Config) {
		config.Issuer = issuer
	}
}

func WithLifetime(lifetime time.Duration) Option {
	return func(config *Config) {
		config.Lifetime = lifetime
	}
}

// WithLoginPath makes challenges redirect to path instead of answering 401.
func WithLoginPath(path string) Option {
	return func(config *Config) {
		config.LoginPath = path
	}
}

// WithAccessDeniedPath makes forbids redirect to path instead of answering 403.
func WithAccessDeniedPath(path string) Option {
	return func(config *Config) {
		config.AccessDeniedPath = path
	}
}

func WithReturnUrlParameter(parameter string) Option {
	return func(config *Config) {
		config.ReturnUrlParameter = parameter
	}
}

func WithRealm(realm string) Option {
	return func(config *Config) {
		config.Realm = realm
	}
}

func WithInsecure(insecure bool) Option {
	return func(config *Config) {
		config.Insecure = insecure
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(config *Config) {
		config.SameSite = sameSite
	}
}

func WithTimeFunc(timeFunc func() time.Time) Option {
	return func(config *Config) {
		config.TimeFunc = timeFunc
	}
}

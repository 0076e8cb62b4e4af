package result_config

import (
	"time"

	"github.com/Motmedel/results_go/pkg/http/json_codec"
)

type Config struct {
	StatusCode            int
	ContentType           string
	Charset               string
	Codec                 json_codec.Codec
	DownloadName          string
	LastModified          time.Time
	ETag                  string
	EnableRangeProcessing bool
	Length                int64
}

type Option func(*Config)

func New(options ...Option) *Config {
	config := &Config{Length: -1}
	for _, option := range options {
		if option != nil {
			option(config)
		}
	}

	return config
}

func WithStatusCode(statusCode int) Option {
	return func(config *Config) {
		config.StatusCode = statusCode
	}
}

func WithContentType(contentType string) Option {
	return func(config *Config) {
		config.ContentType = contentType
	}
}

// WithCharset selects the encoding of textual content. It takes precedence over a charset in the
// content type.
func WithCharset(charset string) Option {
	return func(config *Config) {
		config.Charset = charset
	}
}

func WithCodec(codec json_codec.Codec) Option {
	return func(config *Config) {
		config.Codec = codec
	}
}

func WithDownloadName(name string) Option {
	return func(config *Config) {
		config.DownloadName = name
	}
}

func WithLastModified(lastModified time.Time) Option {
	return func(config *Config) {
		config.LastModified = lastModified
	}
}

// WithETag sets the entity tag. Unquoted values are quoted as strong tags.
func WithETag(etag string) Option {
	return func(config *Config) {
		config.ETag = etag
	}
}

func WithRangeProcessing(enabled bool) Option {
	return func(config *Config) {
		config.EnableRangeProcessing = enabled
	}
}

// WithLength declares the length of a stream whose size cannot be determined by seeking.
func WithLength(length int64) Option {
	return func(config *Config) {
		config.Length = length
	}
}

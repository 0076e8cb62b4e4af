package problem_detail_config

type Config struct {
	Type      string
	Title     string
	Status    int
	Instance  string
	Detail    string
	Extension map[string]any
}

type Option func(*Config)

func New(options ...Option) *Config {
	config := &Config{}
	for _, option := range options {
		if option != nil {
			option(config)
		}
	}

	return config
}

func WithType(t string) Option {
	return func(config *Config) {
		config.Type = t
	}
}

func WithTitle(title string) Option {
	return func(config *Config) {
		config.Title = title
	}
}

func WithStatus(status int) Option {
	return func(config *Config) {
		config.Status = status
	}
}

func WithInstance(instance string) Option {
	return func(config *Config) {
		config.Instance = instance
	}
}

func WithDetail(detail string) Option {
	return func(config *Config) {
		config.Detail = detail
	}
}

// WithExtension adds members that are serialized at the top level of the problem object.
func WithExtension(extension map[string]any) Option {
	return func(config *Config) {
		if config.Extension == nil {
			config.Extension = make(map[string]any, len(extension))
		}
		for key, value := range extension {
			config.Extension[key] = value
		}
	}
}

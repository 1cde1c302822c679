package internal

// Option is a functional option for configuring a validation run.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig sets the runtime configuration the pipeline runs under.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

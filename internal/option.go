package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	stdio  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStdio selects the MCP stdio serve mode instead of HTTP.
func WithStdio() Option {
	return func(a *application) {
		a.stdio = true
	}
}

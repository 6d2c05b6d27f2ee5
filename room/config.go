package room

import "github.com/imdario/mergo"

// StreamOptions configures a stream codec's field caps and buffer sizes.
type StreamOptions struct {
	// ReadBufferSize is the size of the codec's internal read staging
	// buffer.
	ReadBufferSize int
	// WriteBufferSize is the size of the codec's write staging buffer.
	WriteBufferSize int
	// MaxVerbLength caps a Verb's byte length.
	MaxVerbLength int
	// MaxChannelLength caps a Channel's byte length.
	MaxChannelLength int
	// MaxCountLength caps a Count's byte length.
	MaxCountLength int
	// MaxContentLength caps the numeric value of a Count.
	MaxContentLength int64
	// MaxFastBuffering is the in-memory/temp-file content threshold.
	MaxFastBuffering int64
	// TempContentFolder is the directory for spilled content files.
	TempContentFolder string
}

// DefaultStreamOptions holds the spec-mandated defaults.
var DefaultStreamOptions = StreamOptions{
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	MaxVerbLength:     128,
	MaxChannelLength:  32,
	MaxCountLength:    32,
	MaxContentLength:  4 * 1024 * 1024,
	MaxFastBuffering:  1 * 1024 * 1024,
	TempContentFolder: "",
}

// ServiceOptions configures a service's per-stream ingress rate limit.
type ServiceOptions struct {
	// MaxStreamRate is the soft ingress cap, in bytes/second, applied
	// per listen loop.
	MaxStreamRate int64
}

// DefaultServiceOptions holds the spec-mandated defaults.
var DefaultServiceOptions = ServiceOptions{
	MaxStreamRate: 1 * 1024 * 1024,
}

// Config composes StreamOptions and ServiceOptions. A caller constructs
// one with NewConfig, supplying only the fields that differ from
// default; unset fields are filled in from DefaultStreamOptions and
// DefaultServiceOptions, mirroring the way the teacher library resolves
// a partial client.Config against client.DefaultConfig.
type Config struct {
	Stream  StreamOptions
	Service ServiceOptions
}

// ConfigOption mutates a Config under construction.
type ConfigOption func(*Config)

// WithStreamOptions overrides the stream codec configuration.
func WithStreamOptions(o StreamOptions) ConfigOption {
	return func(c *Config) { c.Stream = o }
}

// WithServiceOptions overrides the service configuration.
func WithServiceOptions(o ServiceOptions) ConfigOption {
	return func(c *Config) { c.Service = o }
}

// NewConfig builds a Config from the supplied options, filling any
// zero-valued fields from the package defaults.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	// mergo.Merge only fills zero-valued destination fields, so a
	// caller's explicit non-zero overrides in WithStreamOptions /
	// WithServiceOptions survive the merge.
	_ = mergo.Merge(&cfg.Stream, DefaultStreamOptions)
	_ = mergo.Merge(&cfg.Service, DefaultServiceOptions)
	return cfg
}

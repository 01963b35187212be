package opts

import (
	"github.com/goliatone/go-siteopts/internal/hydrate"
)

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict bool
	target string
}

// WithStrictDecode rejects options without a matching struct field.
func WithStrictDecode() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.strict = true
	}
}

// WithDecodeTarget names the consumer in decode errors.
func WithDecodeTarget(name string) DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.target = name
	}
}

// Decode fills a struct from the resolved configuration. Fields bind to
// options through their json tags; IP values and durations arrive as their
// canonical strings.
func Decode[T any](cfg *Config, options ...DecodeOption) (T, error) {
	var zero T
	if cfg == nil {
		return zero, ErrNilConfig
	}
	dc := decodeConfig{}
	for _, option := range options {
		if option != nil {
			option(&dc)
		}
	}
	var hydrateOptions []hydrate.DecoderOption[T]
	if dc.strict {
		hydrateOptions = append(hydrateOptions, hydrate.WithDisallowUnknownFields[T]())
	}
	decoder := hydrate.NewDecoder[T](hydrateOptions...)
	return decoder.Decode(hydrate.Context{RunID: cfg.RunID(), Target: dc.target}, cfg.Snapshot())
}

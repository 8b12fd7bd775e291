package overlaysync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/logging"
	"github.com/agentstation/overlaysync/pkg/persist"
)

// options configures an engine.
type options struct {
	catalog        *catalog.Catalog
	catalogPath    string
	quiet          time.Duration
	settle         time.Duration
	poll           time.Duration
	historyWindow  int
	elevated       int
	high           int
	clock          Clock
	logger         zerolog.Logger
	persister      persist.Writer
	fsnotify       bool
	initialDesired map[string]string
}

func defaultOptions() *options {
	return &options{
		quiet:         constants.DefaultQuietThreshold,
		settle:        constants.DefaultSettleDelay,
		poll:          constants.DefaultPollInterval,
		historyWindow: constants.DefaultHistoryWindow,
		elevated:      constants.DefaultElevatedThreshold,
		high:          constants.DefaultHighThreshold,
		clock:         systemClock{},
		logger:        logging.Component("engine"),
		persister:     persist.New(),
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns engine options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithCatalog sets an already loaded catalog. It takes precedence over
// WithCatalogPath.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(o *options) error {
		if cat == nil {
			return &errors.ValidationError{Field: "catalog", Message: "cannot be nil"}
		}
		o.catalog = cat
		return nil
	}
}

// WithCatalogPath loads the catalog from a JSON or YAML file.
func WithCatalogPath(path string) Option {
	return func(o *options) error {
		o.catalogPath = path
		return nil
	}
}

// WithQuietThreshold sets how long the document must stay unchanged
// before a reconcile runs.
func WithQuietThreshold(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{Field: "quietThreshold", Value: d, Message: "must be positive"}
		}
		o.quiet = d
		return nil
	}
}

// WithSettleDelay sets the pause between deciding to reconcile and
// re-reading the document. Zero disables it.
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return &errors.ValidationError{Field: "settleDelay", Value: d, Message: "cannot be negative"}
		}
		o.settle = d
		return nil
	}
}

// WithPollInterval sets how often the worker ticks.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{Field: "pollInterval", Value: d, Message: "must be positive"}
		}
		o.poll = d
		return nil
	}
}

// WithHistoryWindow sets how many observations are kept per key.
func WithHistoryWindow(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "historyWindow", Value: n, Message: "must be positive"}
		}
		o.historyWindow = n
		return nil
	}
}

// WithSeverityThresholds sets the conflict counts at which a key becomes
// elevated and high.
func WithSeverityThresholds(elevated, high int) Option {
	return func(o *options) error {
		if elevated <= 0 || high < elevated {
			return &errors.ValidationError{
				Field:   "severityThresholds",
				Value:   [2]int{elevated, high},
				Message: "need 0 < elevated <= high",
			}
		}
		o.elevated, o.high = elevated, high
		return nil
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) error {
		if c == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.clock = c
		return nil
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithPersister replaces the atomic file writer.
func WithPersister(w persist.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return &errors.ValidationError{Field: "persister", Message: "cannot be nil"}
		}
		o.persister = w
		return nil
	}
}

// WithFSNotify makes the worker tick early on file system events for the
// document. Polling still runs.
func WithFSNotify(enabled bool) Option {
	return func(o *options) error {
		o.fsnotify = enabled
		return nil
	}
}

// WithInitialDesired applies overrides right after the document loads.
// Rejected entries are logged and skipped.
func WithInitialDesired(desired map[string]string) Option {
	return func(o *options) error {
		o.initialDesired = make(map[string]string, len(desired))
		for k, v := range desired {
			o.initialDesired[k] = v
		}
		return nil
	}
}

package multidata

import (
	"go.uber.org/zap"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/config"
)

// DefaultMaxBufferSize is the number of buffered bytes after which a
// BufferWriter flushes.
const DefaultMaxBufferSize = 5242880

// Option configures NewHeader, Create, Open, OpenUpdate and NewBufferWriter.
type Option func(*options)

type options struct {
	logger        *zap.Logger
	group         string
	maxBufferSize int
	calvin        []calvin.Option
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger:        zap.NewNop(),
		group:         DefaultGroup,
		maxBufferSize: DefaultMaxBufferSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) calvinOptions() []calvin.Option {
	return append([]calvin.Option{calvin.WithLogger(o.logger)}, o.calvin...)
}

// WithLogger routes debug events to l. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithDefaultGroup sets the group that SetEntryCount uses when it is given
// an empty group name.
func WithDefaultGroup(name string) Option {
	return func(o *options) {
		if name != "" {
			o.group = name
		}
	}
}

// WithMaxBufferSize sets the flush threshold of a BufferWriter in bytes.
func WithMaxBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBufferSize = n
		}
	}
}

// WithCalvinOptions passes options through to the calvin layer.
func WithCalvinOptions(opts ...calvin.Option) Option {
	return func(o *options) {
		o.calvin = append(o.calvin, opts...)
	}
}

// WithConfig applies the buffer and group settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		WithMaxBufferSize(cfg.Buffer.MaxBytes)(o)
		WithDefaultGroup(cfg.MultiData.Group)(o)
	}
}

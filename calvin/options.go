package calvin

import "go.uber.org/zap"

// Option configures Open, OpenAs, OpenUpdate and Create.
type Option func(*options)

type options struct {
	log    *zap.SugaredLogger
	now    func() string
	fileID func() string
}

func defaultOptions() *options {
	return &options{
		log: zap.NewNop().Sugar(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger routes debug events to l. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.log = l.Sugar()
	}
}

// WithCreationTime fixes the creation time stamped by Create when the header
// does not carry one.
func WithCreationTime(ts string) Option {
	return func(o *options) {
		o.now = func() string { return ts }
	}
}

// WithFileID fixes the identifier stamped by Create when the header does not
// carry one.
func WithFileID(id string) Option {
	return func(o *options) {
		o.fileID = func() string { return id }
	}
}

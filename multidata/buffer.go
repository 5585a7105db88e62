package multidata

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// BufferWriter batches record updates for a set of files that share the
// same layout. Records are buffered per (kind, target file) and written at
// each target's next free row once the buffered size passes the limit, or on
// Flush. The target files must already exist with their tables declared,
// typically zero filled by Writer.FillZero.
type BufferWriter struct {
	targets []*bufferTarget
	kinds   map[Kind]bool
	order   []Kind
	max     int
	size    int
	opts    []Option
	log     *zap.SugaredLogger
}

type bufferTarget struct {
	path    string
	pending map[Kind][]Record
	next    map[Kind]int
}

// NewBufferWriter returns a writer over the files in paths for records of
// the given kinds.
func NewBufferWriter(paths []string, kinds []Kind, opts ...Option) (*BufferWriter, error) {
	o := applyOptions(opts)
	b := &BufferWriter{
		kinds: make(map[Kind]bool),
		max:   o.maxBufferSize,
		opts:  opts,
		log:   o.logger.Sugar(),
	}
	for _, k := range kinds {
		if _, err := Info(k); err != nil {
			return nil, err
		}
		if !b.kinds[k] {
			b.kinds[k] = true
			b.order = append(b.order, k)
		}
	}
	for _, p := range paths {
		b.targets = append(b.targets, &bufferTarget{
			path:    p,
			pending: make(map[Kind][]Record),
			next:    make(map[Kind]int),
		})
	}
	return b, nil
}

// MaxBufferSize returns the flush threshold in bytes.
func (b *BufferWriter) MaxBufferSize() int { return b.max }

// Buffered returns the number of bytes currently buffered.
func (b *BufferWriter) Buffered() int { return b.size }

// RowIndex returns the next row that will be written for kind k in target.
func (b *BufferWriter) RowIndex(k Kind, target int) int {
	if target < 0 || target >= len(b.targets) {
		return 0
	}
	return b.targets[target].next[k]
}

// Write buffers a copy of rec for kind k in target, flushing when the
// buffer is full.
func (b *BufferWriter) Write(ctx context.Context, k Kind, target int, rec Record) error {
	if !b.kinds[k] {
		return fmt.Errorf("%w: %s not configured for buffering", ErrKindMismatch, k)
	}
	if err := checkShape(k, kinds[k], rec); err != nil {
		return err
	}
	if target < 0 || target >= len(b.targets) {
		return fmt.Errorf("target %d of %d: %w", target, len(b.targets), calvin.ErrOutOfRange)
	}
	t := b.targets[target]
	t.pending[k] = append(t.pending[k], snapshot(rec))
	b.size += recordCost(rec)
	if b.size > b.max {
		return b.Flush(ctx)
	}
	return nil
}

// WriteGenotype buffers a genotype record.
func (b *BufferWriter) WriteGenotype(ctx context.Context, k Kind, target int, rec GenotypeRecord) error {
	return b.Write(ctx, k, target, &rec)
}

// WriteExpression buffers an expression record.
func (b *BufferWriter) WriteExpression(ctx context.Context, k Kind, target int, rec ExpressionRecord) error {
	return b.Write(ctx, k, target, &rec)
}

// Flush writes every buffered record. Targets are independent files and are
// flushed concurrently; within a target, kinds are written in the order they
// were configured and records in the order they were buffered.
func (b *BufferWriter) Flush(ctx context.Context) error {
	if b.size == 0 {
		return nil
	}
	buffered := b.size
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range b.targets {
		t := t
		g.Go(func() error { return b.flushTarget(ctx, t) })
	}
	err := g.Wait()
	b.size = b.pendingCost()
	b.log.Debugw("flushed buffer", "targets", len(b.targets), "bytes", buffered, "error", err)
	return err
}

func (b *BufferWriter) flushTarget(ctx context.Context, t *bufferTarget) error {
	empty := true
	for _, recs := range t.pending {
		if len(recs) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := OpenUpdate(t.path, b.opts...)
	if err != nil {
		return err
	}
	for _, k := range b.order {
		recs := t.pending[k]
		if len(recs) == 0 {
			continue
		}
		if err := u.UpdateRecords(k, t.next[k], recs); err != nil {
			return errors.Join(fmt.Errorf("%s: %w", t.path, err), u.Close())
		}
		t.next[k] += len(recs)
		t.pending[k] = nil
	}
	return u.Close()
}

// Close flushes the remaining records.
func (b *BufferWriter) Close(ctx context.Context) error {
	return b.Flush(ctx)
}

func (b *BufferWriter) pendingCost() int {
	n := 0
	for _, t := range b.targets {
		for _, recs := range t.pending {
			for _, rec := range recs {
				n += recordCost(rec)
			}
		}
	}
	return n
}

// recordCost estimates the bytes a buffered record holds: its fixed fields
// plus the payload of each metric.
func recordCost(rec Record) int {
	n := 0
	for _, v := range rec.values() {
		switch x := v.(type) {
		case int8, uint8:
			n++
		case int16, uint16:
			n += 2
		case string:
			n += len(x)
		default:
			n += 4
		}
	}
	for _, m := range rec.metrics() {
		n += len(m.Payload())
	}
	return n
}

package multidata

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// Updater rewrites records of an existing multi-data file in place.
type Updater struct {
	u      *calvin.Updater
	header *Header
	log    *zap.SugaredLogger
}

// OpenUpdate opens path for in-place updates.
func OpenUpdate(path string, opts ...Option) (*Updater, error) {
	o := applyOptions(opts)
	u, err := calvin.OpenUpdate(path, o.calvinOptions()...)
	if err != nil {
		return nil, err
	}
	if got := u.Header().Meta.FileTypeID; got != FileTypeID {
		return nil, errors.Join(
			fmt.Errorf("%s: %w: got %q, want %q", path, calvin.ErrInvalidFileType, got, FileTypeID),
			u.Close())
	}
	return &Updater{u: u, header: headerFor(u.Header()), log: o.logger.Sugar()}, nil
}

// Header returns the file header.
func (u *Updater) Header() *Header { return u.header }

// UpdateRecord overwrites record row of kind k.
func (u *Updater) UpdateRecord(k Kind, row int, rec Record) error {
	return u.UpdateRecords(k, row, []Record{rec})
}

// UpdateRecords overwrites consecutive records starting at startRow with a
// single write.
func (u *Updater) UpdateRecords(k Kind, startRow int, recs []Record) error {
	ki, err := Info(k)
	if err != nil {
		return err
	}
	group, th, err := u.header.locate(k)
	if err != nil {
		return err
	}
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		if err := checkShape(k, ki, rec); err != nil {
			return err
		}
		if rows[i], err = rowValues(th, ki, rec); err != nil {
			return fmt.Errorf("row %d: %w", startRow+i, err)
		}
	}
	return u.u.UpdateRows(group, ki.TableName, startRow, rows)
}

// UpdateMetric overwrites one extra metric of record row. The metric is
// matched to its column by name.
func (u *Updater) UpdateMetric(k Kind, row int, metric calvin.TaggedValue) error {
	ki, err := Info(k)
	if err != nil {
		return err
	}
	group, th, err := u.header.locate(k)
	if err != nil {
		return err
	}
	col := th.ColumnIndex(metric.Name)
	if col < ki.fixed {
		return fmt.Errorf("kind %s metric %q: %w", k, metric.Name, calvin.ErrNotFound)
	}
	c, err := th.Column(col)
	if err != nil {
		return err
	}
	v, err := metric.CellValue(c.Type.Kind())
	if err != nil {
		return err
	}
	return u.u.Update(group, ki.TableName, row, col, v)
}

// UpdateGenotype overwrites genotype record row.
func (u *Updater) UpdateGenotype(k Kind, row int, rec GenotypeRecord) error {
	return u.UpdateRecord(k, row, &rec)
}

// UpdateGenotypes overwrites consecutive genotype records.
func (u *Updater) UpdateGenotypes(k Kind, startRow int, recs []GenotypeRecord) error {
	return u.UpdateRecords(k, startRow, asRecords(recs))
}

// UpdateExpression overwrites expression record row.
func (u *Updater) UpdateExpression(k Kind, row int, rec ExpressionRecord) error {
	return u.UpdateRecord(k, row, &rec)
}

// UpdateExpressions overwrites consecutive expression records.
func (u *Updater) UpdateExpressions(k Kind, startRow int, recs []ExpressionRecord) error {
	return u.UpdateRecords(k, startRow, asRecords(recs))
}

// UpdateCopyNumber overwrites copy number record row.
func (u *Updater) UpdateCopyNumber(k Kind, row int, rec CopyNumberRecord) error {
	return u.UpdateRecord(k, row, &rec)
}

// UpdateCyto overwrites cyto region record row.
func (u *Updater) UpdateCyto(k Kind, row int, rec CytoRecord) error {
	return u.UpdateRecord(k, row, &rec)
}

// UpdateChromosomeSegment overwrites segment record row.
func (u *Updater) UpdateChromosomeSegment(k Kind, row int, rec ChromosomeSegmentRecord) error {
	return u.UpdateRecord(k, row, &rec)
}

// Close syncs and closes the file.
func (u *Updater) Close() error { return u.u.Close() }

func asRecords[T any, P interface {
	*T
	Record
}](recs []T) []Record {
	out := make([]Record, len(recs))
	for i := range recs {
		out[i] = P(&recs[i])
	}
	return out
}

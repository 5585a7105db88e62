package multidata

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// log2RatioColumn is the column holding the log2 ratio in copy number
// tables written by the analysis pipeline. It is the second extra metric.
const log2RatioColumn = 4

// Data reads a multi-data file. Kinds are resolved on first access.
type Data struct {
	file   *calvin.File
	header *Header
	sets   map[Kind]*dataSet
	log    *zap.SugaredLogger
}

// dataSet is a resolved kind: its open table and column list.
type dataSet struct {
	kind  Kind
	info  KindInfo
	group string
	table *calvin.Table
	cols  []calvin.Column
}

// Open opens a multi-data file for reading. It fails with
// calvin.ErrInvalidFileType if the file is some other Calvin file.
func Open(path string, opts ...Option) (*Data, error) {
	o := applyOptions(opts)
	f, err := calvin.OpenAs(path, FileTypeID, o.calvinOptions()...)
	if err != nil {
		return nil, err
	}
	return &Data{
		file:   f,
		header: headerFor(f.Header()),
		sets:   make(map[Kind]*dataSet),
		log:    o.logger.Sugar(),
	}, nil
}

// Close closes every resolved table and the file.
func (d *Data) Close() error {
	var errs []error
	for _, ds := range d.sets {
		errs = append(errs, ds.table.Close())
	}
	d.sets = make(map[Kind]*dataSet)
	errs = append(errs, d.file.Close())
	return errors.Join(errs...)
}

// File returns the underlying calvin file.
func (d *Data) File() *calvin.File { return d.file }

// Header returns the file header.
func (d *Data) Header() *Header { return d.header }

func (d *Data) resolve(k Kind) (*dataSet, error) {
	if ds, ok := d.sets[k]; ok {
		return ds, nil
	}
	ki, err := Info(k)
	if err != nil {
		return nil, err
	}
	group, th, err := d.header.locate(k)
	if err != nil {
		return nil, err
	}

	cols := th.Columns()
	fixed := ki.FixedColumns(Sizes{})
	if len(cols) < len(fixed) {
		return nil, fmt.Errorf("%w: table %q has %d columns, kind %s needs %d",
			calvin.ErrSchemaMismatch, th.Name, len(cols), k, len(fixed))
	}
	for i, c := range fixed {
		if cols[i].Type.Kind() != c.Type.Kind() {
			return nil, fmt.Errorf("%w: table %q column %q is %s, want %s",
				calvin.ErrSchemaMismatch, th.Name, cols[i].Name, cols[i].Type.Kind(), c.Type.Kind())
		}
	}

	t, err := d.file.OpenTable(group, ki.TableName)
	if err != nil {
		return nil, err
	}
	ds := &dataSet{kind: k, info: ki, group: group, table: t, cols: cols}
	d.sets[k] = ds
	d.log.Debugw("resolved kind", "kind", k.String(), "group", group,
		"rows", t.RowCount(), "metrics", len(cols)-ki.fixed)
	return ds, nil
}

// EntryCount returns the number of records of kind k. A kind the file has
// no table for has 0 records; any other failure to resolve k is returned.
func (d *Data) EntryCount(k Kind) (int, error) {
	ds, err := d.resolve(k)
	if errors.Is(err, ErrKindNotPresent) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ds.table.RowCount(), nil
}

// MetricColumns returns the extra metric columns of kind k.
func (d *Data) MetricColumns(k Kind) ([]calvin.Column, error) {
	ds, err := d.resolve(k)
	if err != nil {
		return nil, err
	}
	return append([]calvin.Column(nil), ds.cols[ds.info.fixed:]...), nil
}

// GroupName returns the group holding kind k, or "" if absent.
func (d *Data) GroupName(k Kind) string { return d.header.GroupName(k) }

// Record reads record i of kind k into rec.
func (d *Data) Record(k Kind, i int, rec Record) error {
	ds, err := d.resolve(k)
	if err != nil {
		return err
	}
	if err := checkShape(k, ds.info, rec); err != nil {
		return err
	}
	cells, err := ds.table.Row(i)
	if err != nil {
		return err
	}
	if err := scanRow(ds.cols, ds.info, cells, rec); err != nil {
		return fmt.Errorf("kind %s row %d: %w", k, i, err)
	}
	return nil
}

func record[T any, P interface {
	*T
	Record
}](d *Data, k Kind, i int) (T, error) {
	var rec T
	err := d.Record(k, i, P(&rec))
	return rec, err
}

// records reads n consecutive records starting at start with one read.
func records[T any, P interface {
	*T
	Record
}](d *Data, k Kind, start, n int) ([]T, error) {
	ds, err := d.resolve(k)
	if err != nil {
		return nil, err
	}
	var probe T
	if err := checkShape(k, ds.info, P(&probe)); err != nil {
		return nil, err
	}
	rows, err := ds.table.Rows(start, n)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, cells := range rows {
		if err := scanRow(ds.cols, ds.info, cells, P(&out[i])); err != nil {
			return nil, fmt.Errorf("kind %s row %d: %w", k, start+i, err)
		}
	}
	return out, nil
}

// Genotype reads record i of a genotype kind.
func (d *Data) Genotype(k Kind, i int) (GenotypeRecord, error) {
	return record[GenotypeRecord](d, k, i)
}

// Genotypes reads n genotype records starting at start.
func (d *Data) Genotypes(k Kind, start, n int) ([]GenotypeRecord, error) {
	return records[GenotypeRecord](d, k, start, n)
}

// Expression reads record i of an expression kind.
func (d *Data) Expression(k Kind, i int) (ExpressionRecord, error) {
	return record[ExpressionRecord](d, k, i)
}

// Expressions reads n expression records starting at start.
func (d *Data) Expressions(k Kind, start, n int) ([]ExpressionRecord, error) {
	return records[ExpressionRecord](d, k, start, n)
}

// CopyNumber reads record i of a copy number kind.
func (d *Data) CopyNumber(k Kind, i int) (CopyNumberRecord, error) {
	return record[CopyNumberRecord](d, k, i)
}

// Cyto reads record i of a cyto region kind.
func (d *Data) Cyto(k Kind, i int) (CytoRecord, error) {
	return record[CytoRecord](d, k, i)
}

// CopyNumberVariation reads record i of the CopyNumberVariation kind.
func (d *Data) CopyNumberVariation(i int) (CopyNumberVariationRecord, error) {
	return record[CopyNumberVariationRecord](d, CopyNumberVariation, i)
}

// DmetCopyNumber reads record i of the DmetCopyNumber kind.
func (d *Data) DmetCopyNumber(i int) (DmetCopyNumberRecord, error) {
	return record[DmetCopyNumberRecord](d, DmetCopyNumber, i)
}

// DmetMultiAllelic reads record i of the DmetMultiAllelic kind.
func (d *Data) DmetMultiAllelic(i int) (DmetMultiAllelicRecord, error) {
	return record[DmetMultiAllelicRecord](d, DmetMultiAllelic, i)
}

// DmetBiAllelic reads record i of the DmetBiAllelic kind.
func (d *Data) DmetBiAllelic(i int) (DmetBiAllelicRecord, error) {
	return record[DmetBiAllelicRecord](d, DmetBiAllelic, i)
}

// ChromosomeSummary reads record i of the ChromosomeSummary kind.
func (d *Data) ChromosomeSummary(i int) (ChromosomeSummaryRecord, error) {
	return record[ChromosomeSummaryRecord](d, ChromosomeSummary, i)
}

// ChromosomeSegment reads record i of a single-sample segment kind.
func (d *Data) ChromosomeSegment(k Kind, i int) (ChromosomeSegmentRecord, error) {
	return record[ChromosomeSegmentRecord](d, k, i)
}

// FamilialSegment reads record i of a familial segment kind.
func (d *Data) FamilialSegment(k Kind, i int) (FamilialSegmentRecord, error) {
	return record[FamilialSegmentRecord](d, k, i)
}

// FamilialSegmentOverlap reads record i of the FamilialSegmentOverlaps kind.
func (d *Data) FamilialSegmentOverlap(i int) (FamilialSegmentOverlap, error) {
	return record[FamilialSegmentOverlap](d, FamilialSegmentOverlaps, i)
}

// FamilialSample reads record i of the FamilialSamples kind.
func (d *Data) FamilialSample(i int) (FamilialSample, error) {
	return record[FamilialSample](d, FamilialSamples, i)
}

// AllelePeaks reads record i of the AllelePeaks kind.
func (d *Data) AllelePeaks(i int) (AllelePeaksRecord, error) {
	return record[AllelePeaksRecord](d, AllelePeaks, i)
}

// MarkerABSignals reads record i of the MarkerABSignals kind.
func (d *Data) MarkerABSignals(i int) (MarkerABSignalsRecord, error) {
	return record[MarkerABSignalsRecord](d, MarkerABSignals, i)
}

// CytoGenotypeCall reads record i of the CytoGenotypeCall kind.
func (d *Data) CytoGenotypeCall(i int) (CytoGenotypeCallRecord, error) {
	return record[CytoGenotypeCallRecord](d, CytoGenotypeCall, i)
}

func (d *Data) shaped(k Kind, want shape) (*dataSet, error) {
	ds, err := d.resolve(k)
	if err != nil {
		return nil, err
	}
	if ds.info.shape != want {
		return nil, fmt.Errorf("%w: kind %s", ErrKindMismatch, k)
	}
	return ds, nil
}

// GenoCall reads only the call of genotype record i.
func (d *Data) GenoCall(k Kind, i int) (uint8, error) {
	ds, err := d.shaped(k, shapeGenotype)
	if err != nil {
		return 0, err
	}
	return ds.table.UInt8(i, 1)
}

// GenoConfidence reads only the confidence of genotype record i.
func (d *Data) GenoConfidence(k Kind, i int) (float32, error) {
	ds, err := d.shaped(k, shapeGenotype)
	if err != nil {
		return 0, err
	}
	return ds.table.Float32(i, 2)
}

// ExpressionQuantification reads only the quantification of expression
// record i.
func (d *Data) ExpressionQuantification(k Kind, i int) (float32, error) {
	ds, err := d.shaped(k, shapeExpression)
	if err != nil {
		return 0, err
	}
	return ds.table.Float32(i, 1)
}

// ProbeSetName reads only the probe set name of record i. Kind k must have
// a ProbeSetName column first.
func (d *Data) ProbeSetName(k Kind, i int) (string, error) {
	ds, err := d.resolve(k)
	if err != nil {
		return "", err
	}
	if ds.cols[0].Name != ColProbeSetName {
		return "", fmt.Errorf("%w: kind %s has no %s column", ErrKindMismatch, k, ColProbeSetName)
	}
	return ds.table.String(i, 0)
}

// CopyNumberLog2Ratio reads the log2 ratio metric of copy number record i.
func (d *Data) CopyNumberLog2Ratio(k Kind, i int) (float32, error) {
	ds, err := d.shaped(k, shapeCopyNumber)
	if err != nil {
		return 0, err
	}
	return ds.table.Float32(i, log2RatioColumn)
}

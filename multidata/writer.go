package multidata

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// Writer streams records into a new multi-data file. Records of each kind
// are written in row order; Finalize checks every table is complete.
type Writer struct {
	w      *calvin.Writer
	header *Header
	log    *zap.SugaredLogger
}

// Create writes the header h to path and returns a writer for its records.
func Create(path string, h *Header, opts ...Option) (*Writer, error) {
	o := applyOptions(opts)
	w, err := calvin.Create(path, h.file, o.calvinOptions()...)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, header: h, log: o.logger.Sugar()}, nil
}

// Header returns the committed header.
func (w *Writer) Header() *Header { return w.header }

// WriteRecord appends rec to the table of kind k.
func (w *Writer) WriteRecord(k Kind, rec Record) error {
	ki, err := Info(k)
	if err != nil {
		return err
	}
	if err := checkShape(k, ki, rec); err != nil {
		return err
	}
	group, th, err := w.header.locate(k)
	if err != nil {
		return err
	}
	vals, err := rowValues(th, ki, rec)
	if err != nil {
		return err
	}
	rw, err := w.w.Table(group, ki.TableName)
	if err != nil {
		return err
	}
	if err := rw.WriteRow(vals...); err != nil {
		return fmt.Errorf("kind %s: %w", k, err)
	}
	return nil
}

// WriteGenotype appends a genotype record.
func (w *Writer) WriteGenotype(k Kind, rec GenotypeRecord) error { return w.WriteRecord(k, &rec) }

// WriteExpression appends an expression record.
func (w *Writer) WriteExpression(k Kind, rec ExpressionRecord) error { return w.WriteRecord(k, &rec) }

// WriteCopyNumber appends a copy number record.
func (w *Writer) WriteCopyNumber(k Kind, rec CopyNumberRecord) error { return w.WriteRecord(k, &rec) }

// WriteCyto appends a cyto region record.
func (w *Writer) WriteCyto(k Kind, rec CytoRecord) error { return w.WriteRecord(k, &rec) }

// WriteCopyNumberVariation appends a copy number variation record.
func (w *Writer) WriteCopyNumberVariation(rec CopyNumberVariationRecord) error {
	return w.WriteRecord(CopyNumberVariation, &rec)
}

// WriteDmetCopyNumber appends a DMET copy number record.
func (w *Writer) WriteDmetCopyNumber(rec DmetCopyNumberRecord) error {
	return w.WriteRecord(DmetCopyNumber, &rec)
}

// WriteDmetMultiAllelic appends a DMET multi-allelic record.
func (w *Writer) WriteDmetMultiAllelic(rec DmetMultiAllelicRecord) error {
	return w.WriteRecord(DmetMultiAllelic, &rec)
}

// WriteDmetBiAllelic appends a DMET bi-allelic record.
func (w *Writer) WriteDmetBiAllelic(rec DmetBiAllelicRecord) error {
	return w.WriteRecord(DmetBiAllelic, &rec)
}

// WriteChromosomeSummary appends a chromosome summary record.
func (w *Writer) WriteChromosomeSummary(rec ChromosomeSummaryRecord) error {
	return w.WriteRecord(ChromosomeSummary, &rec)
}

// WriteChromosomeSegment appends a segment to a single-sample segment kind.
func (w *Writer) WriteChromosomeSegment(k Kind, rec ChromosomeSegmentRecord) error {
	return w.WriteRecord(k, &rec)
}

// WriteFamilialSegment appends a segment to a familial segment kind.
func (w *Writer) WriteFamilialSegment(k Kind, rec FamilialSegmentRecord) error {
	return w.WriteRecord(k, &rec)
}

// WriteFamilialSegmentOverlap appends a segment overlap.
func (w *Writer) WriteFamilialSegmentOverlap(rec FamilialSegmentOverlap) error {
	return w.WriteRecord(FamilialSegmentOverlaps, &rec)
}

// WriteFamilialSample appends a familial sample.
func (w *Writer) WriteFamilialSample(rec FamilialSample) error {
	return w.WriteRecord(FamilialSamples, &rec)
}

// WriteAllelePeaks appends an allele peaks record.
func (w *Writer) WriteAllelePeaks(rec AllelePeaksRecord) error {
	return w.WriteRecord(AllelePeaks, &rec)
}

// WriteMarkerABSignals appends a marker signal record.
func (w *Writer) WriteMarkerABSignals(rec MarkerABSignalsRecord) error {
	return w.WriteRecord(MarkerABSignals, &rec)
}

// WriteCytoGenotypeCall appends a cyto genotype call.
func (w *Writer) WriteCytoGenotypeCall(rec CytoGenotypeCallRecord) error {
	return w.WriteRecord(CytoGenotypeCall, &rec)
}

// FillZero completes the table of kind k with zeroed rows, leaving them to
// be filled later by an Updater or BufferWriter.
func (w *Writer) FillZero(k Kind) error {
	ki, err := Info(k)
	if err != nil {
		return err
	}
	group, _, err := w.header.locate(k)
	if err != nil {
		return err
	}
	rw, err := w.w.Table(group, ki.TableName)
	if err != nil {
		return err
	}
	w.log.Debugw("zero filling", "kind", k.String(), "rows", rw.Remaining())
	return rw.FillZero()
}

// Finalize checks that every table received its declared row count.
func (w *Writer) Finalize() error { return w.w.Finalize() }

// Close closes the file. It reports calvin.ErrNotFinalized if Finalize was
// not called successfully.
func (w *Writer) Close() error { return w.w.Close() }

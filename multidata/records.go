package multidata

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// Record is implemented by the pointer types of the records in this package.
// Each record converts to and from one table row: its fixed fields first,
// then its extra metrics.
type Record interface {
	shape() shape
	values() []any
	scan(s *scanner)
	metrics() []calvin.TaggedValue
	setMetrics(m []calvin.TaggedValue)
	clone() Record
}

// GenotypeRecord is a row of the Genotype and GenotypeControl kinds.
type GenotypeRecord struct {
	Name       string
	Call       uint8
	Confidence float32
	Metrics    []calvin.TaggedValue
}

func (r *GenotypeRecord) shape() shape { return shapeGenotype }
func (r *GenotypeRecord) values() []any {
	return []any{r.Name, r.Call, r.Confidence}
}
func (r *GenotypeRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Call = scanAs[uint8](s)
	r.Confidence = scanAs[float32](s)
}
func (r *GenotypeRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *GenotypeRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *GenotypeRecord) clone() Record                     { c := *r; return &c }

// ExpressionRecord is a row of the Expression and ExpressionControl kinds.
type ExpressionRecord struct {
	Name           string
	Quantification float32
	Metrics        []calvin.TaggedValue
}

func (r *ExpressionRecord) shape() shape  { return shapeExpression }
func (r *ExpressionRecord) values() []any { return []any{r.Name, r.Quantification} }
func (r *ExpressionRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Quantification = scanAs[float32](s)
}
func (r *ExpressionRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *ExpressionRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *ExpressionRecord) clone() Record                     { c := *r; return &c }

// CopyNumberRecord is a row of the CopyNumber kind.
type CopyNumberRecord struct {
	Name     string
	Chr      uint8
	Position uint32
	Metrics  []calvin.TaggedValue
}

func (r *CopyNumberRecord) shape() shape  { return shapeCopyNumber }
func (r *CopyNumberRecord) values() []any { return []any{r.Name, r.Chr, r.Position} }
func (r *CopyNumberRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Chr = scanAs[uint8](s)
	r.Position = scanAs[uint32](s)
}
func (r *CopyNumberRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *CopyNumberRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *CopyNumberRecord) clone() Record                     { c := *r; return &c }

// CytoRecord is a cytogenetic region call.
type CytoRecord struct {
	Name          string
	Chr           uint8
	StartPosition uint32
	StopPosition  uint32
	Call          uint8
	Confidence    float32
	Metrics       []calvin.TaggedValue
}

func (r *CytoRecord) shape() shape { return shapeCyto }
func (r *CytoRecord) values() []any {
	return []any{r.Name, r.Chr, r.StartPosition, r.StopPosition, r.Call, r.Confidence}
}
func (r *CytoRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Chr = scanAs[uint8](s)
	r.StartPosition = scanAs[uint32](s)
	r.StopPosition = scanAs[uint32](s)
	r.Call = scanAs[uint8](s)
	r.Confidence = scanAs[float32](s)
}
func (r *CytoRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *CytoRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *CytoRecord) clone() Record                     { c := *r; return &c }

// CopyNumberVariationRecord is a copy number variation region call.
type CopyNumberVariationRecord struct {
	Name       string
	Signal     float32
	Call       uint8
	Confidence float32
	Metrics    []calvin.TaggedValue
}

func (r *CopyNumberVariationRecord) shape() shape { return shapeCopyNumberVariation }
func (r *CopyNumberVariationRecord) values() []any {
	return []any{r.Name, r.Signal, r.Call, r.Confidence}
}
func (r *CopyNumberVariationRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Signal = scanAs[float32](s)
	r.Call = scanAs[uint8](s)
	r.Confidence = scanAs[float32](s)
}
func (r *CopyNumberVariationRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *CopyNumberVariationRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *CopyNumberVariationRecord) clone() Record                     { c := *r; return &c }

// DmetCopyNumberRecord is a DMET copy number call.
type DmetCopyNumberRecord struct {
	Name       string
	Call       int16
	Confidence float32
	Force      int16
	Estimate   float32
	Lower      float32
	Upper      float32
	Metrics    []calvin.TaggedValue
}

func (r *DmetCopyNumberRecord) shape() shape { return shapeDmetCopyNumber }
func (r *DmetCopyNumberRecord) values() []any {
	return []any{r.Name, r.Call, r.Confidence, r.Force, r.Estimate, r.Lower, r.Upper}
}
func (r *DmetCopyNumberRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Call = scanAs[int16](s)
	r.Confidence = scanAs[float32](s)
	r.Force = scanAs[int16](s)
	r.Estimate = scanAs[float32](s)
	r.Lower = scanAs[float32](s)
	r.Upper = scanAs[float32](s)
}
func (r *DmetCopyNumberRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *DmetCopyNumberRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *DmetCopyNumberRecord) clone() Record                     { c := *r; return &c }

// DmetMultiAllelicRecord is a DMET call over up to six alleles, A to F.
type DmetMultiAllelicRecord struct {
	Name        string
	Call        uint8
	Confidence  float32
	Force       uint8
	AlleleCount uint8
	Signal      [6]float32
	Context     [6]uint8
	Metrics     []calvin.TaggedValue
}

func (r *DmetMultiAllelicRecord) shape() shape { return shapeDmetMultiAllelic }
func (r *DmetMultiAllelicRecord) values() []any {
	v := []any{r.Name, r.Call, r.Confidence, r.Force, r.AlleleCount}
	for _, x := range r.Signal {
		v = append(v, x)
	}
	for _, x := range r.Context {
		v = append(v, x)
	}
	return v
}
func (r *DmetMultiAllelicRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Call = scanAs[uint8](s)
	r.Confidence = scanAs[float32](s)
	r.Force = scanAs[uint8](s)
	r.AlleleCount = scanAs[uint8](s)
	for i := range r.Signal {
		r.Signal[i] = scanAs[float32](s)
	}
	for i := range r.Context {
		r.Context[i] = scanAs[uint8](s)
	}
}
func (r *DmetMultiAllelicRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *DmetMultiAllelicRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *DmetMultiAllelicRecord) clone() Record                     { c := *r; return &c }

// DmetBiAllelicRecord is a DMET call over two alleles.
type DmetBiAllelicRecord struct {
	Name       string
	Call       uint8
	Confidence float32
	Force      uint8
	SignalA    float32
	SignalB    float32
	ContextA   uint8
	ContextB   uint8
	Metrics    []calvin.TaggedValue
}

func (r *DmetBiAllelicRecord) shape() shape { return shapeDmetBiAllelic }
func (r *DmetBiAllelicRecord) values() []any {
	return []any{r.Name, r.Call, r.Confidence, r.Force, r.SignalA, r.SignalB, r.ContextA, r.ContextB}
}
func (r *DmetBiAllelicRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Call = scanAs[uint8](s)
	r.Confidence = scanAs[float32](s)
	r.Force = scanAs[uint8](s)
	r.SignalA = scanAs[float32](s)
	r.SignalB = scanAs[float32](s)
	r.ContextA = scanAs[uint8](s)
	r.ContextB = scanAs[uint8](s)
}
func (r *DmetBiAllelicRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *DmetBiAllelicRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *DmetBiAllelicRecord) clone() Record                     { c := *r; return &c }

// ChromosomeSummaryRecord summarizes one chromosome.
type ChromosomeSummaryRecord struct {
	Chr           uint8
	Display       string
	StartIndex    uint32
	MarkerCount   uint32
	MinSignal     float32
	MaxSignal     float32
	MedianCNState float32
	HomFrequency  float32
	HetFrequency  float32
	Metrics       []calvin.TaggedValue
}

func (r *ChromosomeSummaryRecord) shape() shape { return shapeChromosomeSummary }
func (r *ChromosomeSummaryRecord) values() []any {
	return []any{r.Chr, r.Display, r.StartIndex, r.MarkerCount, r.MinSignal, r.MaxSignal,
		r.MedianCNState, r.HomFrequency, r.HetFrequency}
}
func (r *ChromosomeSummaryRecord) scan(s *scanner) {
	r.Chr = scanAs[uint8](s)
	r.Display = scanAs[string](s)
	r.StartIndex = scanAs[uint32](s)
	r.MarkerCount = scanAs[uint32](s)
	r.MinSignal = scanAs[float32](s)
	r.MaxSignal = scanAs[float32](s)
	r.MedianCNState = scanAs[float32](s)
	r.HomFrequency = scanAs[float32](s)
	r.HetFrequency = scanAs[float32](s)
}
func (r *ChromosomeSummaryRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *ChromosomeSummaryRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *ChromosomeSummaryRecord) clone() Record                     { c := *r; return &c }

// ChromosomeSegmentRecord is a segment of a single-sample segment kind.
type ChromosomeSegmentRecord struct {
	SegmentID          uint32
	Chr                uint8
	StartPosition      uint32
	StopPosition       uint32
	MarkerCount        int32
	MeanMarkerDistance uint32
	Metrics            []calvin.TaggedValue
}

func (r *ChromosomeSegmentRecord) shape() shape { return shapeSegment }
func (r *ChromosomeSegmentRecord) values() []any {
	return []any{r.SegmentID, r.Chr, r.StartPosition, r.StopPosition, r.MarkerCount, r.MeanMarkerDistance}
}
func (r *ChromosomeSegmentRecord) scan(s *scanner) {
	r.SegmentID = scanAs[uint32](s)
	r.Chr = scanAs[uint8](s)
	r.StartPosition = scanAs[uint32](s)
	r.StopPosition = scanAs[uint32](s)
	r.MarkerCount = scanAs[int32](s)
	r.MeanMarkerDistance = scanAs[uint32](s)
}
func (r *ChromosomeSegmentRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *ChromosomeSegmentRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *ChromosomeSegmentRecord) clone() Record                     { c := *r; return &c }

// FamilialSegmentRecord is a segment of a familial segment kind. It relates
// a reference sample to a family member.
type FamilialSegmentRecord struct {
	SegmentID          uint32
	ReferenceSampleKey uint32
	FamilialSampleKey  uint32
	Chr                uint8
	StartPosition      uint32
	StopPosition       uint32
	Call               uint8
	Confidence         float32
	MarkerCount        int32
	Homozygosity       float32
	Heterozygosity     float32
	Metrics            []calvin.TaggedValue
}

func (r *FamilialSegmentRecord) shape() shape { return shapeFamilialSegment }
func (r *FamilialSegmentRecord) values() []any {
	return []any{r.SegmentID, r.ReferenceSampleKey, r.FamilialSampleKey, r.Chr, r.StartPosition,
		r.StopPosition, r.Call, r.Confidence, r.MarkerCount, r.Homozygosity, r.Heterozygosity}
}
func (r *FamilialSegmentRecord) scan(s *scanner) {
	r.SegmentID = scanAs[uint32](s)
	r.ReferenceSampleKey = scanAs[uint32](s)
	r.FamilialSampleKey = scanAs[uint32](s)
	r.Chr = scanAs[uint8](s)
	r.StartPosition = scanAs[uint32](s)
	r.StopPosition = scanAs[uint32](s)
	r.Call = scanAs[uint8](s)
	r.Confidence = scanAs[float32](s)
	r.MarkerCount = scanAs[int32](s)
	r.Homozygosity = scanAs[float32](s)
	r.Heterozygosity = scanAs[float32](s)
}
func (r *FamilialSegmentRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *FamilialSegmentRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *FamilialSegmentRecord) clone() Record                     { c := *r; return &c }

// FamilialSegmentOverlap links a reference segment to a familial segment.
// It has no extra metrics.
type FamilialSegmentOverlap struct {
	SegmentType        string
	ReferenceSampleKey uint32
	ReferenceSegmentID string
	FamilialSampleKey  uint32
	FamilialSegmentID  string
}

func (r *FamilialSegmentOverlap) shape() shape { return shapeSegmentOverlap }
func (r *FamilialSegmentOverlap) values() []any {
	return []any{r.SegmentType, r.ReferenceSampleKey, r.ReferenceSegmentID, r.FamilialSampleKey, r.FamilialSegmentID}
}
func (r *FamilialSegmentOverlap) scan(s *scanner) {
	r.SegmentType = scanAs[string](s)
	r.ReferenceSampleKey = scanAs[uint32](s)
	r.ReferenceSegmentID = scanAs[string](s)
	r.FamilialSampleKey = scanAs[uint32](s)
	r.FamilialSegmentID = scanAs[string](s)
}
func (r *FamilialSegmentOverlap) metrics() []calvin.TaggedValue   { return nil }
func (r *FamilialSegmentOverlap) setMetrics([]calvin.TaggedValue) {}
func (r *FamilialSegmentOverlap) clone() Record                   { c := *r; return &c }

// FamilialSample describes one sample of a familial analysis. It has no
// extra metrics.
type FamilialSample struct {
	SampleKey      uint32
	ARRID          string
	CHPID          string
	CHPFilename    string
	Role           string
	RoleValidity   bool
	RoleConfidence float32
}

func (r *FamilialSample) shape() shape { return shapeSample }
func (r *FamilialSample) values() []any {
	var valid uint8
	if r.RoleValidity {
		valid = 1
	}
	return []any{r.SampleKey, r.ARRID, r.CHPID, r.CHPFilename, r.Role, valid, r.RoleConfidence}
}
func (r *FamilialSample) scan(s *scanner) {
	r.SampleKey = scanAs[uint32](s)
	r.ARRID = scanAs[string](s)
	r.CHPID = scanAs[string](s)
	r.CHPFilename = scanAs[string](s)
	r.Role = scanAs[string](s)
	r.RoleValidity = scanAs[uint8](s) == 1
	r.RoleConfidence = scanAs[float32](s)
}
func (r *FamilialSample) metrics() []calvin.TaggedValue   { return nil }
func (r *FamilialSample) setMetrics([]calvin.TaggedValue) {}
func (r *FamilialSample) clone() Record                   { c := *r; return &c }

// AllelePeaksRecord holds the allele peaks of one marker. The peaks are the
// table's extra columns.
type AllelePeaksRecord struct {
	Name     string
	Chr      uint8
	Position uint32
	Peaks    []calvin.TaggedValue
}

func (r *AllelePeaksRecord) shape() shape  { return shapeAllelePeaks }
func (r *AllelePeaksRecord) values() []any { return []any{r.Name, r.Chr, r.Position} }
func (r *AllelePeaksRecord) scan(s *scanner) {
	r.Name = scanAs[string](s)
	r.Chr = scanAs[uint8](s)
	r.Position = scanAs[uint32](s)
}
func (r *AllelePeaksRecord) metrics() []calvin.TaggedValue     { return r.Peaks }
func (r *AllelePeaksRecord) setMetrics(m []calvin.TaggedValue) { r.Peaks = m }
func (r *AllelePeaksRecord) clone() Record                     { c := *r; return &c }

// MarkerABSignalsRecord holds the A and B signals of the marker at Index.
type MarkerABSignalsRecord struct {
	Index   uint32
	Metrics []calvin.TaggedValue
}

func (r *MarkerABSignalsRecord) shape() shape                      { return shapeMarkerABSignals }
func (r *MarkerABSignalsRecord) values() []any                     { return []any{r.Index} }
func (r *MarkerABSignalsRecord) scan(s *scanner)                   { r.Index = scanAs[uint32](s) }
func (r *MarkerABSignalsRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *MarkerABSignalsRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *MarkerABSignalsRecord) clone() Record                     { c := *r; return &c }

// CytoGenotypeCallRecord is a genotype call made on a cytogenetics array.
type CytoGenotypeCallRecord struct {
	Index          uint32
	Call           int8
	Confidence     float32
	ForceCall      int8
	ASignal        float32
	BSignal        float32
	SignalStrength float32
	Contrast       float32
	Metrics        []calvin.TaggedValue
}

func (r *CytoGenotypeCallRecord) shape() shape { return shapeCytoGenotypeCall }
func (r *CytoGenotypeCallRecord) values() []any {
	return []any{r.Index, r.Call, r.Confidence, r.ForceCall, r.ASignal, r.BSignal, r.SignalStrength, r.Contrast}
}
func (r *CytoGenotypeCallRecord) scan(s *scanner) {
	r.Index = scanAs[uint32](s)
	r.Call = scanAs[int8](s)
	r.Confidence = scanAs[float32](s)
	r.ForceCall = scanAs[int8](s)
	r.ASignal = scanAs[float32](s)
	r.BSignal = scanAs[float32](s)
	r.SignalStrength = scanAs[float32](s)
	r.Contrast = scanAs[float32](s)
}
func (r *CytoGenotypeCallRecord) metrics() []calvin.TaggedValue     { return r.Metrics }
func (r *CytoGenotypeCallRecord) setMetrics(m []calvin.TaggedValue) { r.Metrics = m }
func (r *CytoGenotypeCallRecord) clone() Record                     { c := *r; return &c }

// scanner walks the decoded cells of one row. The first failed assertion is
// kept in err and later calls return zero values.
type scanner struct {
	cells []any
	pos   int
	err   error
}

func scanAs[T any](s *scanner) T {
	var zero T
	if s.err != nil {
		return zero
	}
	if s.pos >= len(s.cells) {
		s.err = fmt.Errorf("%w: row has %d cells", calvin.ErrSchemaMismatch, len(s.cells))
		return zero
	}
	v := s.cells[s.pos]
	s.pos++
	x, ok := v.(T)
	if !ok {
		s.err = fmt.Errorf("%w: column %d holds %T, want %T", calvin.ErrSchemaMismatch, s.pos-1, v, zero)
		return zero
	}
	return x
}

// rowValues converts rec into the cells of a row of th. Metrics are matched
// to the extra columns by position and converted to each column's kind.
func rowValues(th *calvin.TableHeader, ki KindInfo, rec Record) ([]any, error) {
	cols := th.Columns()
	if len(cols) < ki.fixed {
		return nil, fmt.Errorf("%w: table %q has %d columns, kind needs %d",
			calvin.ErrSchemaMismatch, th.Name, len(cols), ki.fixed)
	}
	extra := cols[ki.fixed:]
	metrics := rec.metrics()
	if len(metrics) != len(extra) {
		return nil, fmt.Errorf("table %q: %w: record has %d, table has %d",
			th.Name, ErrMetricCount, len(metrics), len(extra))
	}
	vals := rec.values()
	for i, c := range extra {
		v, err := metrics[i].CellValue(c.Type.Kind())
		if err != nil {
			return nil, fmt.Errorf("table %q: metric %q: %w", th.Name, c.Name, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// scanRow fills rec from the cells of a row whose columns are cols.
func scanRow(cols []calvin.Column, ki KindInfo, cells []any, rec Record) error {
	if len(cells) != len(cols) || len(cols) < ki.fixed {
		return fmt.Errorf("%w: row has %d cells for %d columns", calvin.ErrSchemaMismatch, len(cells), len(cols))
	}
	s := &scanner{cells: cells[:ki.fixed]}
	rec.scan(s)
	if s.err != nil {
		return s.err
	}
	extra := cols[ki.fixed:]
	if len(extra) == 0 {
		rec.setMetrics(nil)
		return nil
	}
	metrics := make([]calvin.TaggedValue, len(extra))
	for i, c := range extra {
		tv, err := calvin.CellParam(c, cells[ki.fixed+i])
		if err != nil {
			return err
		}
		metrics[i] = tv
	}
	rec.setMetrics(metrics)
	return nil
}

// snapshot returns a copy of rec that shares no memory with it.
func snapshot(rec Record) Record {
	c := rec.clone()
	if m := rec.metrics(); m != nil {
		cp := make([]calvin.TaggedValue, len(m))
		for i, tv := range m {
			cp[i] = tv.Clone()
		}
		c.setMetrics(cp)
	}
	return c
}

func checkShape(k Kind, ki KindInfo, rec Record) error {
	if rec.shape() != ki.shape {
		return fmt.Errorf("%w: %T for kind %s", ErrKindMismatch, rec, k)
	}
	return nil
}

package multidata

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

var (
	genotypeMetrics = []calvin.Column{
		{Name: "SignalA", Type: calvin.Float32Column()},
		{Name: "Note", Type: calvin.ASCIIColumn(4)},
	}
	copyNumberMetrics = []calvin.Column{
		{Name: "CNState", Type: calvin.Float32Column()},
		{Name: "Log2Ratio", Type: calvin.Float32Column()},
	}
)

func sampleGenotypes() []GenotypeRecord {
	return []GenotypeRecord{
		{Name: "SNP_A", Call: 6, Confidence: 0.99, Metrics: []calvin.TaggedValue{
			calvin.NewFloatParam("SignalA", 1.5), calvin.NewASCIIParam("Note", "ok", -1),
		}},
		{Name: "SNP_B", Call: 7, Confidence: 0.87, Metrics: []calvin.TaggedValue{
			calvin.NewFloatParam("SignalA", 2.5), calvin.NewASCIIParam("Note", "low", -1),
		}},
	}
}

// writeSample writes a file with genotype and copy number tables in the
// default group and an expression table in group "Expr".
func writeSample(t *testing.T) string {
	t.Helper()
	h := NewHeader()
	require.NoError(t, h.SetAlgName("BRLMM"))
	require.NoError(t, h.SetAlgVersion("1.0"))
	require.NoError(t, h.SetArrayType("Mapping250K_Nsp"))
	require.NoError(t, h.AddAlgParams(calvin.NewFloatParam("prior", 0.5)))
	require.NoError(t, h.AddSummaryParams(calvin.NewInt32Param("call-count", 2)))
	require.NoError(t, h.AddAppMetaInfo(calvin.NewTextParam("operator", "lab", -1)))

	require.NoError(t, h.SetEntryCount(Genotype, 2, 8, genotypeMetrics, ""))
	require.NoError(t, h.SetEntryCount(Expression, 1, 10, nil, "Expr"))
	require.NoError(t, h.SetEntryCount(CopyNumber, 1, 8, copyNumberMetrics, ""))

	path := filepath.Join(t.TempDir(), "sample.chp")
	w, err := Create(path, h, WithCalvinOptions(calvin.WithFileID("guid-md")))
	require.NoError(t, err)

	err = w.WriteGenotype(Genotype, GenotypeRecord{Name: "SNP_A", Call: 6, Confidence: 0.99})
	require.ErrorIs(t, err, ErrMetricCount)

	for _, rec := range sampleGenotypes() {
		require.NoError(t, w.WriteGenotype(Genotype, rec))
	}
	require.NoError(t, w.WriteExpression(Expression, ExpressionRecord{Name: "AFFX-1", Quantification: 123.5}))
	require.NoError(t, w.WriteCopyNumber(CopyNumber, CopyNumberRecord{
		Name: "CN_1", Chr: 3, Position: 1000,
		Metrics: []calvin.TaggedValue{calvin.NewFloatParam("CNState", 2), calvin.NewFloatParam("Log2Ratio", -0.25)},
	}))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())
	return path
}

func TestReadBack(t *testing.T) {
	d, err := Open(writeSample(t))
	require.NoError(t, err)
	defer d.Close()

	for k, want := range map[Kind]int{Genotype: 2, Expression: 1, Cyto: 0} {
		n, err := d.EntryCount(k)
		require.NoError(t, err, k)
		assert.Equal(t, want, n, k)
	}
	assert.Equal(t, DefaultGroup, d.GroupName(Genotype))
	assert.Equal(t, "Expr", d.GroupName(Expression))
	assert.Empty(t, d.GroupName(Cyto))
	assert.Equal(t, []Kind{Genotype, CopyNumber, Expression}, d.Header().Kinds())

	want := sampleGenotypes()
	for i := range want {
		got, err := d.Genotype(Genotype, i)
		require.NoError(t, err)
		assert.Equal(t, want[i], got)
	}
	all, err := d.Genotypes(Genotype, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, want, all)

	expr, err := d.Expression(Expression, 0)
	require.NoError(t, err)
	assert.Equal(t, ExpressionRecord{Name: "AFFX-1", Quantification: 123.5}, expr)
}

func TestHeaderHelpersReadBack(t *testing.T) {
	d, err := Open(writeSample(t))
	require.NoError(t, err)
	defer d.Close()

	h := d.Header()
	assert.Equal(t, "BRLMM", h.AlgName())
	assert.Equal(t, "1.0", h.AlgVersion())
	assert.Equal(t, "Mapping250K_Nsp", h.ArrayType())
	assert.Equal(t, "guid-md", h.Meta().FileID)

	tv, ok := h.Meta().Params.Find(ParamArrayType)
	require.True(t, ok)
	assert.Len(t, tv.Payload(), 2*arrayTypeReserve)

	algs := h.AlgParams()
	require.Len(t, algs, 1)
	assert.Equal(t, "prior", algs[0].Name)
	f, err := algs[0].Float()
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f)

	sums := h.SummaryParams()
	require.Len(t, sums, 1)
	assert.Equal(t, "call-count", sums[0].Name)

	meta := h.AppMetaInfo()
	require.Len(t, meta, 1)
	s, err := meta[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "lab", s)

	assert.ErrorIs(t, h.SetAlgName("other"), calvin.ErrCommitted)
	assert.ErrorIs(t, h.AddAlgParams(calvin.NewInt8Param("x", 1)), calvin.ErrCommitted)
}

func TestExtraMetricColumns(t *testing.T) {
	d, err := Open(writeSample(t))
	require.NoError(t, err)
	defer d.Close()

	cols, err := d.MetricColumns(Genotype)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "SignalA", cols[0].Name)
	assert.Equal(t, calvin.KindFloat32, cols[0].Type.Kind())
	assert.Equal(t, "Note", cols[1].Name)
	assert.Equal(t, calvin.KindASCII, cols[1].Type.Kind())

	cols, err = d.MetricColumns(Expression)
	require.NoError(t, err)
	assert.Empty(t, cols)

	_, err = d.MetricColumns(Cyto)
	assert.ErrorIs(t, err, ErrKindNotPresent)
	assert.ErrorIs(t, err, calvin.ErrNotFound)
}

func TestSingleFieldAccessors(t *testing.T) {
	d, err := Open(writeSample(t))
	require.NoError(t, err)
	defer d.Close()

	call, err := d.GenoCall(Genotype, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), call)

	conf, err := d.GenoConfidence(Genotype, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.99), conf)

	q, err := d.ExpressionQuantification(Expression, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(123.5), q)

	name, err := d.ProbeSetName(CopyNumber, 0)
	require.NoError(t, err)
	assert.Equal(t, "CN_1", name)

	ratio, err := d.CopyNumberLog2Ratio(CopyNumber, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(-0.25), ratio)

	_, err = d.GenoCall(Expression, 0)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestAccessErrors(t *testing.T) {
	d, err := Open(writeSample(t))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Genotype(Genotype, 2)
	assert.ErrorIs(t, err, calvin.ErrOutOfRange)

	_, err = d.Expression(Genotype, 0)
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = d.Cyto(Cyto, 0)
	assert.ErrorIs(t, err, ErrKindNotPresent)

	_, err = d.Genotype(Kind(77), 0)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestOpenRejectsOtherFileTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.dat")
	hdr := calvin.NewFileHeader("affymetrix-calvin-intensity")
	g, err := hdr.AddGroup("Data")
	require.NoError(t, err)
	tbl, err := g.AddTable("Intensity", 1)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn("Value", calvin.Float32Column()))
	w, err := calvin.Create(path, hdr)
	require.NoError(t, err)
	rw, err := w.Table("Data", "Intensity")
	require.NoError(t, err)
	require.NoError(t, rw.WriteRow(float32(1)))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	_, err = Open(path)
	assert.ErrorIs(t, err, calvin.ErrInvalidFileType)
	_, err = OpenUpdate(path)
	assert.ErrorIs(t, err, calvin.ErrInvalidFileType)
}

func TestForwardCompatibleRead(t *testing.T) {
	// A newer writer appends columns this package does not know about.
	path := filepath.Join(t.TempDir(), "newer.chp")
	hdr := calvin.NewFileHeader(FileTypeID)
	g, err := hdr.AddGroup(DefaultGroup)
	require.NoError(t, err)
	tbl, err := g.AddTable("Expression", 1)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(ColProbeSetName, calvin.ASCIIColumn(6)))
	require.NoError(t, tbl.AddColumn(ColQuantification, calvin.Float32Column()))
	require.NoError(t, tbl.AddColumn("Detection", calvin.Int16Column()))
	require.NoError(t, tbl.AddColumn("Comment", calvin.TextColumn(5)))

	w, err := calvin.Create(path, hdr)
	require.NoError(t, err)
	rw, err := w.Table(DefaultGroup, "Expression")
	require.NoError(t, err)
	require.NoError(t, rw.WriteRow("AFFX-2", float32(7.25), int16(-3), "héllo"))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	rec, err := d.Expression(Expression, 0)
	require.NoError(t, err)
	assert.Equal(t, "AFFX-2", rec.Name)
	assert.Equal(t, float32(7.25), rec.Quantification)
	require.Len(t, rec.Metrics, 2)
	assert.Equal(t, "Detection", rec.Metrics[0].Name)
	assert.Equal(t, calvin.ParamInt16, rec.Metrics[0].Type())
	det, err := rec.Metrics[0].Int16()
	require.NoError(t, err)
	assert.Equal(t, int16(-3), det)
	assert.Equal(t, calvin.ParamText, rec.Metrics[1].Type())
	comment, err := rec.Metrics[1].Text()
	require.NoError(t, err)
	assert.Equal(t, "héllo", comment)
}

func TestFixedColumnTypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.chp")
	hdr := calvin.NewFileHeader(FileTypeID)
	g, err := hdr.AddGroup(DefaultGroup)
	require.NoError(t, err)
	tbl, err := g.AddTable("Genotype", 1)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(ColProbeSetName, calvin.ASCIIColumn(4)))
	require.NoError(t, tbl.AddColumn(ColCall, calvin.Float32Column()))
	require.NoError(t, tbl.AddColumn(ColConfidence, calvin.Float32Column()))
	w, err := calvin.Create(path, hdr)
	require.NoError(t, err)
	rw, err := w.Table(DefaultGroup, "Genotype")
	require.NoError(t, err)
	require.NoError(t, rw.FillZero())
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()
	_, err = d.Genotype(Genotype, 0)
	assert.ErrorIs(t, err, calvin.ErrSchemaMismatch)
	_, err = d.EntryCount(Genotype)
	assert.ErrorIs(t, err, calvin.ErrSchemaMismatch)
}

func TestEntryCountErrors(t *testing.T) {
	d, err := Open(writeSample(t))
	require.NoError(t, err)

	_, err = d.EntryCount(Kind(77))
	assert.ErrorIs(t, err, ErrUnknownKind)

	require.NoError(t, d.Close())
	_, err = d.EntryCount(Genotype)
	assert.ErrorIs(t, err, calvin.ErrClosed)
}

func TestRecordRoundTripAllShapes(t *testing.T) {
	sizes := Sizes{
		MaxName: 12, MaxSegmentType: 6, MaxReferenceSegmentID: 6, MaxFamilialSegmentID: 6,
		MaxARRID: 8, MaxCHPID: 8, MaxCHPFile: 16, MaxRole: 8,
	}
	peakCols := []calvin.Column{
		{Name: "peaks1", Type: calvin.Float32Column()},
		{Name: "peaks2", Type: calvin.Float32Column()},
	}
	abCols := []calvin.Column{
		{Name: "A", Type: calvin.Float32Column()},
		{Name: "B", Type: calvin.Float32Column()},
	}
	countCol := []calvin.Column{{Name: "Count", Type: calvin.UInt16Column()}}

	tests := []struct {
		kind    Kind
		metrics []calvin.Column
		rec     Record
	}{
		{Cyto, nil, &CytoRecord{Name: "1p36", Chr: 1, StartPosition: 10, StopPosition: 20, Call: 2, Confidence: 0.5}},
		{CopyNumberVariation, nil, &CopyNumberVariationRecord{Name: "cnv-9", Signal: 1.25, Call: 3, Confidence: 0.75}},
		{DmetCopyNumber, nil, &DmetCopyNumberRecord{Name: "CYP2D6", Call: 2, Confidence: 0.9, Force: -1, Estimate: 2.1, Lower: 1.8, Upper: 2.4}},
		{DmetMultiAllelic, countCol, &DmetMultiAllelicRecord{
			Name: "DMET_1", Call: 4, Confidence: 0.8, Force: 4, AlleleCount: 3,
			Signal:  [6]float32{1, 2, 3, 0, 0, 0},
			Context: [6]uint8{1, 1, 2, 0, 0, 0},
			Metrics: []calvin.TaggedValue{calvin.NewUInt16Param("Count", 12)},
		}},
		{DmetBiAllelic, nil, &DmetBiAllelicRecord{Name: "DMET_2", Call: 1, Confidence: 0.6, Force: 1, SignalA: 5, SignalB: 6, ContextA: 1, ContextB: 2}},
		{ChromosomeSummary, nil, &ChromosomeSummaryRecord{
			Chr: 7, Display: "7", StartIndex: 100, MarkerCount: 50,
			MinSignal: -1, MaxSignal: 1, MedianCNState: 2, HomFrequency: 0.3, HetFrequency: 0.7,
		}},
		{SegmentLOH, countCol, &ChromosomeSegmentRecord{
			SegmentID: 9, Chr: 2, StartPosition: 1, StopPosition: 900, MarkerCount: -1, MeanMarkerDistance: 12,
			Metrics: []calvin.TaggedValue{calvin.NewUInt16Param("Count", 4)},
		}},
		{SegmentIsoUPD, nil, &FamilialSegmentRecord{
			SegmentID: 3, ReferenceSampleKey: 1, FamilialSampleKey: 2, Chr: 15, StartPosition: 5,
			StopPosition: 6, Call: 1, Confidence: 0.4, MarkerCount: 30, Homozygosity: 0.9, Heterozygosity: 0.1,
		}},
		{FamilialSegmentOverlaps, nil, &FamilialSegmentOverlap{
			SegmentType: "LOH", ReferenceSampleKey: 1, ReferenceSegmentID: "r1", FamilialSampleKey: 2, FamilialSegmentID: "f1",
		}},
		{FamilialSamples, nil, &FamilialSample{
			SampleKey: 2, ARRID: "arr-2", CHPID: "chp-2", CHPFilename: "fam/α.chp", Role: "mother",
			RoleValidity: true, RoleConfidence: 0.95,
		}},
		{AllelePeaks, peakCols, &AllelePeaksRecord{
			Name: "SNP_P", Chr: 4, Position: 77,
			Peaks: []calvin.TaggedValue{calvin.NewFloatParam("peaks1", 0.1), calvin.NewFloatParam("peaks2", 0.9)},
		}},
		{MarkerABSignals, abCols, &MarkerABSignalsRecord{
			Index:   5,
			Metrics: []calvin.TaggedValue{calvin.NewFloatParam("A", 100), calvin.NewFloatParam("B", 200)},
		}},
		{CytoGenotypeCall, nil, &CytoGenotypeCallRecord{
			Index: 6, Call: -1, Confidence: 0.2, ForceCall: 2, ASignal: 1, BSignal: 2, SignalStrength: 3, Contrast: -0.5,
		}},
	}

	h := NewHeader()
	for _, tt := range tests {
		require.NoError(t, h.SetEntries(tt.kind, 1, sizes, tt.metrics, ""), tt.kind)
	}
	path := filepath.Join(t.TempDir(), "shapes.chp")
	w, err := Create(path, h)
	require.NoError(t, err)
	for _, tt := range tests {
		require.NoError(t, w.WriteRecord(tt.kind, tt.rec), tt.kind)
	}
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := reflect.New(reflect.TypeOf(tt.rec).Elem()).Interface().(Record)
			require.NoError(t, d.Record(tt.kind, 0, got))
			assert.Equal(t, tt.rec, got)
		})
	}

	sample, err := d.FamilialSample(0)
	require.NoError(t, err)
	assert.Equal(t, "fam/α.chp", sample.CHPFilename)
	assert.True(t, sample.RoleValidity)
}

func TestSetEntryCountErrors(t *testing.T) {
	h := NewHeader()
	require.NoError(t, h.SetEntryCount(Genotype, 1, 8, nil, ""))
	assert.ErrorIs(t, h.SetEntryCount(Genotype, 1, 8, nil, "Other"), calvin.ErrDuplicateName)
	assert.ErrorIs(t, h.SetEntryCount(Kind(-1), 1, 8, nil, ""), ErrUnknownKind)

	w, err := Create(filepath.Join(t.TempDir(), "frozen.chp"), h)
	require.NoError(t, err)
	defer w.Close()
	assert.ErrorIs(t, h.SetEntryCount(Expression, 1, 8, nil, ""), calvin.ErrCommitted)
	assert.ErrorIs(t, h.SetEntryCount(Cyto, 1, 8, nil, "Late"), calvin.ErrCommitted)
	assert.ErrorIs(t, h.SetAlgVersion("2"), calvin.ErrCommitted)
}

func TestSizesVariants(t *testing.T) {
	h := NewHeader()
	require.NoError(t, h.SetSegmentOverlapCount(2, 4, 5, 6, "Familial"))
	require.NoError(t, h.SetSampleCount(3, 7, 8, 9, 10, "Familial"))

	th, err := h.File().Table("Familial", "SegmentOverlaps")
	require.NoError(t, err)
	assert.Equal(t, 2, th.RowCount())
	c, err := th.Column(2)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Type.ElementCount())

	th, err = h.File().Table("Familial", "Samples")
	require.NoError(t, err)
	c, err = th.Column(3)
	require.NoError(t, err)
	assert.Equal(t, calvin.KindUTF16, c.Type.Kind())
	assert.Equal(t, 9, c.Type.ElementCount())
	assert.Equal(t, "Familial", h.GroupName(FamilialSamples))
}

func TestMetricTypeMustMatchColumn(t *testing.T) {
	h := NewHeader()
	require.NoError(t, h.SetEntryCount(Genotype, 1, 8, genotypeMetrics, ""))
	w, err := Create(filepath.Join(t.TempDir(), "typed.chp"), h)
	require.NoError(t, err)
	defer w.Close()

	rec := sampleGenotypes()[0]
	rec.Metrics[0] = calvin.NewInt32Param("SignalA", 16777217)
	assert.ErrorIs(t, w.WriteGenotype(Genotype, rec), calvin.ErrSchemaMismatch)

	rec = sampleGenotypes()[0]
	rec.Metrics[1] = calvin.NewTextParam("Note", "ok", -1)
	assert.ErrorIs(t, w.WriteGenotype(Genotype, rec), calvin.ErrSchemaMismatch)

	require.NoError(t, w.WriteGenotype(Genotype, sampleGenotypes()[0]))
	require.NoError(t, w.Finalize())
}

func TestAlgParamTemplate(t *testing.T) {
	prior := calvin.DefaultRequiredValue{Kind: calvin.ValueFloat}
	prior.Name = "prior"
	prior.SetDefault(calvin.NewFloatParam("", 0.1))
	bins := calvin.DefaultRequiredValue{Kind: calvin.ValueInt}
	bins.Name = "bins"
	bins.SetDefault(calvin.NewInt32Param("", 12))
	tmpl := []calvin.DefaultRequiredValue{prior, bins}

	h := NewHeader()
	require.NoError(t, h.AddAlgParams(calvin.NewFloatParam("prior", 0.5)))
	require.NoError(t, h.ApplyAlgParamTemplate(tmpl))
	require.NoError(t, h.SetEntryCount(Expression, 1, 4, nil, ""))

	path := filepath.Join(t.TempDir(), "template.chp")
	w, err := Create(path, h)
	require.NoError(t, err)
	require.NoError(t, w.FillZero(Expression))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, h.ApplyAlgParamTemplate(tmpl), calvin.ErrCommitted)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()
	algs := d.Header().AlgParams()
	require.Len(t, algs, 2)
	p, err := algs[0].Float()
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), p)
	assert.Equal(t, "bins", algs[1].Name)
	n, err := algs[1].Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(12), n)

	bad := NewHeader()
	require.NoError(t, bad.AddAlgParams(calvin.NewInt32Param("prior", 1)))
	assert.ErrorIs(t, bad.ApplyAlgParamTemplate(tmpl), calvin.ErrSchemaMismatch)
}

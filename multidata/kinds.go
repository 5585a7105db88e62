package multidata

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// Kind identifies a record kind stored in a multi-data file. Each kind maps
// onto exactly one table.
type Kind int

// Record kinds, in the order used by existing files.
const (
	Expression Kind = iota
	ExpressionControl
	Genotype
	GenotypeControl
	CopyNumber
	Cyto
	CopyNumberVariation
	DmetCopyNumber
	DmetMultiAllelic
	DmetBiAllelic
	ChromosomeSummary
	SegmentCN
	SegmentLOH
	SegmentCNNeutralLOH
	SegmentNormalDiploid
	SegmentMosaicism
	SegmentNoCall
	FamilialSegmentOverlaps
	FamilialSamples
	SegmentGenotypeConcordance
	SegmentGenotypeDiscordance
	SegmentCNLossLOHConcordance
	SegmentCNNeutralLOHConcordance
	SegmentHeteroUPD
	SegmentIsoUPD
	SegmentDenovoCopyNumber
	SegmentHemizygousParentOfOrigin
	AllelePeaks
	MarkerABSignals
	CytoGenotypeCall

	numKinds
)

// Column names shared by the fixed layouts.
const (
	ColProbeSetName       = "ProbeSetName"
	ColRegion             = "Region"
	ColCall               = "Call"
	ColConfidence         = "Confidence"
	ColQuantification     = "Quantification"
	ColChromosome         = "Chromosome"
	ColPosition           = "Position"
	ColStartPosition      = "StartPosition"
	ColStopPosition       = "StopPosition"
	ColSignal             = "Signal"
	ColCNCall             = "CN Call"
	ColCNConfidence       = "CN Confidence"
	ColCNForce            = "CN_force"
	ColCNEstimate         = "CN_estim"
	ColCNLower            = "CN_lower"
	ColCNUpper            = "CN_upper"
	ColForcedCall         = "Forced Call"
	ColAlleleCount        = "Allele Count"
	ColDisplay            = "Display"
	ColStartIndex         = "StartIndex"
	ColMarkerCount        = "MarkerCount"
	ColMinSignal          = "MinSignal"
	ColMaxSignal          = "MaxSignal"
	ColMedianCNState      = "MedianCnState"
	ColHomFrequency       = "HomFrequency"
	ColHetFrequency       = "HetFrequency"
	ColSegmentID          = "SegmentID"
	ColMeanMarkerDistance = "MeanMarkerDistance"
	ColReferenceSampleKey = "ReferenceSampleKey"
	ColFamilialSampleKey  = "FamilialSampleKey"
	ColHomozygosity       = "Homozygosity"
	ColHeterozygosity     = "Heterozygosity"
	ColSegmentType        = "SegmentType"
	ColReferenceSegmentID = "ReferenceSegmentID"
	ColFamilialSegmentID  = "FamilialSegmentID"
	ColSampleKey          = "SampleKey"
	ColARRID              = "ARRID"
	ColCHPID              = "CHPID"
	ColCHPFilename        = "CHPFilename"
	ColRole               = "Role"
	ColRoleValidity       = "RoleValidity"
	ColRoleConfidence     = "RoleConfidence"
	ColIndex              = "Index"
	ColASignal            = "ASignal"
	ColBSignal            = "BSignal"
	ColSignalStrength     = "SignalStrength"
	ColContrast           = "Contrast"
)

var alleles = [6]string{"A", "B", "C", "D", "E", "F"}

// Sizes carries the string capacities of the fixed columns. Only the fields
// used by a kind's layout matter.
type Sizes struct {
	MaxName               int
	MaxSegmentType        int
	MaxReferenceSegmentID int
	MaxFamilialSegmentID  int
	MaxARRID              int
	MaxCHPID              int
	MaxCHPFile            int
	MaxRole               int
}

// shape groups kinds that share a record type.
type shape int

const (
	shapeExpression shape = iota
	shapeGenotype
	shapeCopyNumber
	shapeCyto
	shapeCopyNumberVariation
	shapeDmetCopyNumber
	shapeDmetMultiAllelic
	shapeDmetBiAllelic
	shapeChromosomeSummary
	shapeSegment
	shapeFamilialSegment
	shapeSegmentOverlap
	shapeSample
	shapeAllelePeaks
	shapeMarkerABSignals
	shapeCytoGenotypeCall
)

// KindInfo describes how a kind is laid out on disk.
type KindInfo struct {
	TableName    string
	FixedColumns func(Sizes) []calvin.Column

	shape shape
	fixed int
}

// FixedColumnCount returns the number of leading columns the kind defines.
// Any column beyond them is an extra metric.
func (ki KindInfo) FixedColumnCount() int { return ki.fixed }

func col(name string, t calvin.ColumnType) calvin.Column {
	return calvin.Column{Name: name, Type: t}
}

func expressionColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColQuantification, calvin.Float32Column()),
	}
}

func genotypeColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColCall, calvin.UInt8Column()),
		col(ColConfidence, calvin.Float32Column()),
	}
}

func copyNumberColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColChromosome, calvin.UInt8Column()),
		col(ColPosition, calvin.UInt32Column()),
	}
}

func cytoColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColRegion, calvin.ASCIIColumn(s.MaxName)),
		col(ColChromosome, calvin.UInt8Column()),
		col(ColStartPosition, calvin.UInt32Column()),
		col(ColStopPosition, calvin.UInt32Column()),
		col(ColCall, calvin.UInt8Column()),
		col(ColConfidence, calvin.Float32Column()),
	}
}

func copyNumberVariationColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColRegion, calvin.ASCIIColumn(s.MaxName)),
		col(ColSignal, calvin.Float32Column()),
		col(ColCall, calvin.UInt8Column()),
		col(ColConfidence, calvin.Float32Column()),
	}
}

func dmetCopyNumberColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColCNCall, calvin.Int16Column()),
		col(ColCNConfidence, calvin.Float32Column()),
		col(ColCNForce, calvin.Int16Column()),
		col(ColCNEstimate, calvin.Float32Column()),
		col(ColCNLower, calvin.Float32Column()),
		col(ColCNUpper, calvin.Float32Column()),
	}
}

func dmetMultiAllelicColumns(s Sizes) []calvin.Column {
	cols := []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColCall, calvin.UInt8Column()),
		col(ColConfidence, calvin.Float32Column()),
		col(ColForcedCall, calvin.UInt8Column()),
		col(ColAlleleCount, calvin.UInt8Column()),
	}
	for _, a := range alleles {
		cols = append(cols, col("Signal "+a, calvin.Float32Column()))
	}
	for _, a := range alleles {
		cols = append(cols, col("Context "+a, calvin.UInt8Column()))
	}
	return cols
}

func dmetBiAllelicColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColCall, calvin.UInt8Column()),
		col(ColConfidence, calvin.Float32Column()),
		col(ColForcedCall, calvin.UInt8Column()),
		col("Signal A", calvin.Float32Column()),
		col("Signal B", calvin.Float32Column()),
		col("Context A", calvin.UInt8Column()),
		col("Context B", calvin.UInt8Column()),
	}
}

func chromosomeSummaryColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColChromosome, calvin.UInt8Column()),
		col(ColDisplay, calvin.ASCIIColumn(s.MaxName)),
		col(ColStartIndex, calvin.UInt32Column()),
		col(ColMarkerCount, calvin.UInt32Column()),
		col(ColMinSignal, calvin.Float32Column()),
		col(ColMaxSignal, calvin.Float32Column()),
		col(ColMedianCNState, calvin.Float32Column()),
		col(ColHomFrequency, calvin.Float32Column()),
		col(ColHetFrequency, calvin.Float32Column()),
	}
}

func segmentColumns(Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColSegmentID, calvin.UInt32Column()),
		col(ColChromosome, calvin.UInt8Column()),
		col(ColStartPosition, calvin.UInt32Column()),
		col(ColStopPosition, calvin.UInt32Column()),
		col(ColMarkerCount, calvin.Int32Column()),
		col(ColMeanMarkerDistance, calvin.UInt32Column()),
	}
}

func familialSegmentColumns(Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColSegmentID, calvin.UInt32Column()),
		col(ColReferenceSampleKey, calvin.UInt32Column()),
		col(ColFamilialSampleKey, calvin.UInt32Column()),
		col(ColChromosome, calvin.UInt8Column()),
		col(ColStartPosition, calvin.UInt32Column()),
		col(ColStopPosition, calvin.UInt32Column()),
		col(ColCall, calvin.UInt8Column()),
		col(ColConfidence, calvin.Float32Column()),
		col(ColMarkerCount, calvin.Int32Column()),
		col(ColHomozygosity, calvin.Float32Column()),
		col(ColHeterozygosity, calvin.Float32Column()),
	}
}

func segmentOverlapColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColSegmentType, calvin.ASCIIColumn(s.MaxSegmentType)),
		col(ColReferenceSampleKey, calvin.UInt32Column()),
		col(ColReferenceSegmentID, calvin.ASCIIColumn(s.MaxReferenceSegmentID)),
		col(ColFamilialSampleKey, calvin.UInt32Column()),
		col(ColFamilialSegmentID, calvin.ASCIIColumn(s.MaxFamilialSegmentID)),
	}
}

func sampleColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColSampleKey, calvin.UInt32Column()),
		col(ColARRID, calvin.ASCIIColumn(s.MaxARRID)),
		col(ColCHPID, calvin.ASCIIColumn(s.MaxCHPID)),
		col(ColCHPFilename, calvin.TextColumn(s.MaxCHPFile)),
		col(ColRole, calvin.ASCIIColumn(s.MaxRole)),
		col(ColRoleValidity, calvin.UInt8Column()),
		col(ColRoleConfidence, calvin.Float32Column()),
	}
}

func allelePeaksColumns(s Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColProbeSetName, calvin.ASCIIColumn(s.MaxName)),
		col(ColChromosome, calvin.UInt8Column()),
		col(ColPosition, calvin.UInt32Column()),
	}
}

func markerABSignalsColumns(Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColIndex, calvin.UInt32Column()),
	}
}

func cytoGenotypeCallColumns(Sizes) []calvin.Column {
	return []calvin.Column{
		col(ColIndex, calvin.UInt32Column()),
		col(ColCall, calvin.Int8Column()),
		col(ColConfidence, calvin.Float32Column()),
		col(ColForcedCall, calvin.Int8Column()),
		col(ColASignal, calvin.Float32Column()),
		col(ColBSignal, calvin.Float32Column()),
		col(ColSignalStrength, calvin.Float32Column()),
		col(ColContrast, calvin.Float32Column()),
	}
}

func info(table string, sh shape, cols func(Sizes) []calvin.Column) KindInfo {
	return KindInfo{TableName: table, FixedColumns: cols, shape: sh, fixed: len(cols(Sizes{}))}
}

var kinds = map[Kind]KindInfo{
	Expression:                      info("Expression", shapeExpression, expressionColumns),
	ExpressionControl:               info("ExpressionControl", shapeExpression, expressionColumns),
	Genotype:                        info("Genotype", shapeGenotype, genotypeColumns),
	GenotypeControl:                 info("GenotypeControl", shapeGenotype, genotypeColumns),
	CopyNumber:                      info("CopyNumber", shapeCopyNumber, copyNumberColumns),
	Cyto:                            info("Cyto", shapeCyto, cytoColumns),
	CopyNumberVariation:             info("CopyNumberVariation", shapeCopyNumberVariation, copyNumberVariationColumns),
	DmetCopyNumber:                  info("DmetCopyNumber", shapeDmetCopyNumber, dmetCopyNumberColumns),
	DmetMultiAllelic:                info("DmetMultiAllelic", shapeDmetMultiAllelic, dmetMultiAllelicColumns),
	DmetBiAllelic:                   info("DmetBiAllelic", shapeDmetBiAllelic, dmetBiAllelicColumns),
	ChromosomeSummary:               info("Summary", shapeChromosomeSummary, chromosomeSummaryColumns),
	SegmentCN:                       info("CN", shapeSegment, segmentColumns),
	SegmentLOH:                      info("LOH", shapeSegment, segmentColumns),
	SegmentCNNeutralLOH:             info("CNNeutralLOH", shapeSegment, segmentColumns),
	SegmentNormalDiploid:            info("NormalDiploid", shapeSegment, segmentColumns),
	SegmentMosaicism:                info("Mosaicism", shapeSegment, segmentColumns),
	SegmentNoCall:                   info("NoCall", shapeSegment, segmentColumns),
	FamilialSegmentOverlaps:         info("SegmentOverlaps", shapeSegmentOverlap, segmentOverlapColumns),
	FamilialSamples:                 info("Samples", shapeSample, sampleColumns),
	SegmentGenotypeConcordance:      info("GenotypeConcordance", shapeFamilialSegment, familialSegmentColumns),
	SegmentGenotypeDiscordance:      info("GenotypeDiscordance", shapeFamilialSegment, familialSegmentColumns),
	SegmentCNLossLOHConcordance:     info("CNLossLOHConcordance", shapeFamilialSegment, familialSegmentColumns),
	SegmentCNNeutralLOHConcordance:  info("CNNeutralLOHConcordance", shapeFamilialSegment, familialSegmentColumns),
	SegmentHeteroUPD:                info("HeteroUPD", shapeFamilialSegment, familialSegmentColumns),
	SegmentIsoUPD:                   info("IsoUPD", shapeFamilialSegment, familialSegmentColumns),
	SegmentDenovoCopyNumber:         info("DenovoCopyNumber", shapeFamilialSegment, familialSegmentColumns),
	SegmentHemizygousParentOfOrigin: info("HemizygousParentOfOrigin", shapeFamilialSegment, familialSegmentColumns),
	AllelePeaks:                     info("AllelePeaks", shapeAllelePeaks, allelePeaksColumns),
	MarkerABSignals:                 info("MarkerABSignal", shapeMarkerABSignals, markerABSignalsColumns),
	CytoGenotypeCall:                info("Calls", shapeCytoGenotypeCall, cytoGenotypeCallColumns),
}

// Info returns the layout of kind k.
func Info(k Kind) (KindInfo, error) {
	ki, ok := kinds[k]
	if !ok {
		return KindInfo{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return ki, nil
}

// Kinds returns every known kind in order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// KindForTable returns the kind stored in the table called name.
func KindForTable(name string) (Kind, bool) {
	for k := Kind(0); k < numKinds; k++ {
		if kinds[k].TableName == name {
			return k, true
		}
	}
	return 0, false
}

// String returns the kind's table name.
func (k Kind) String() string {
	if ki, ok := kinds[k]; ok {
		return ki.TableName
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

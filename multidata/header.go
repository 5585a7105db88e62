package multidata

import (
	"fmt"
	"strings"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// Header parameter names.
const (
	ParamAlgName    = "affymetrix-algorithm-name"
	ParamAlgVersion = "affymetrix-algorithm-version"
	ParamArrayType  = "affymetrix-array-type"

	AlgParamPrefix     = "affymetrix-algorithm-param-"
	SummaryParamPrefix = "affymetrix-chipsummary-"
	AppMetaInfoPrefix  = "affymetrix-application-meta-data-info-"
)

// arrayTypeReserve is the capacity, in characters, reserved for the array
// type so it can be rewritten in place.
const arrayTypeReserve = 100

// Header is the header of a multi-data file: a calvin.FileHeader plus the
// group each kind lives in.
type Header struct {
	file   *calvin.FileHeader
	group  string
	groups map[Kind]string
}

// NewHeader returns an empty header for a new multi-data file.
func NewHeader(opts ...Option) *Header {
	o := applyOptions(opts)
	return &Header{
		file:   calvin.NewFileHeader(FileTypeID),
		group:  o.group,
		groups: make(map[Kind]string),
	}
}

func headerFor(fh *calvin.FileHeader) *Header {
	return &Header{file: fh, group: DefaultGroup, groups: make(map[Kind]string)}
}

// File returns the underlying calvin header.
func (h *Header) File() *calvin.FileHeader { return h.file }

// Meta returns the generic data header.
func (h *Header) Meta() *calvin.GenericDataHeader { return h.file.Meta }

// SetEntryCount declares the table of kind k with rows rows. maxName is the
// capacity of the kind's name column, if it has one. metrics are appended
// after the fixed columns. An empty group places the table in the default
// group.
func (h *Header) SetEntryCount(k Kind, rows, maxName int, metrics []calvin.Column, group string) error {
	return h.SetEntries(k, rows, Sizes{MaxName: maxName}, metrics, group)
}

// SetSegmentOverlapCount declares the FamilialSegmentOverlaps table.
func (h *Header) SetSegmentOverlapCount(rows, maxSegmentType, maxReferenceSegmentID, maxFamilialSegmentID int, group string) error {
	return h.SetEntries(FamilialSegmentOverlaps, rows, Sizes{
		MaxSegmentType:        maxSegmentType,
		MaxReferenceSegmentID: maxReferenceSegmentID,
		MaxFamilialSegmentID:  maxFamilialSegmentID,
	}, nil, group)
}

// SetSampleCount declares the FamilialSamples table.
func (h *Header) SetSampleCount(rows, maxARRID, maxCHPID, maxCHPFile, maxRole int, group string) error {
	return h.SetEntries(FamilialSamples, rows, Sizes{
		MaxARRID:   maxARRID,
		MaxCHPID:   maxCHPID,
		MaxCHPFile: maxCHPFile,
		MaxRole:    maxRole,
	}, nil, group)
}

// SetEntries declares the table of kind k with explicit column sizes.
func (h *Header) SetEntries(k Kind, rows int, sizes Sizes, metrics []calvin.Column, group string) error {
	ki, err := Info(k)
	if err != nil {
		return err
	}
	if prev, ok := h.groups[k]; ok {
		return fmt.Errorf("kind %s already declared in group %q: %w", k, prev, calvin.ErrDuplicateName)
	}
	if group == "" {
		group = h.group
	}

	g, ok := h.file.Group(group)
	if !ok {
		if g, err = h.file.AddGroup(group); err != nil {
			return err
		}
	}
	th, err := g.AddTable(ki.TableName, rows)
	if err != nil {
		return err
	}
	for _, c := range ki.FixedColumns(sizes) {
		if err := th.AddColumn(c.Name, c.Type); err != nil {
			return fmt.Errorf("kind %s: %w", k, err)
		}
	}
	for _, c := range metrics {
		if err := th.AddColumn(c.Name, c.Type); err != nil {
			return fmt.Errorf("kind %s: metric %q: %w", k, c.Name, err)
		}
	}
	h.groups[k] = group
	return nil
}

// GroupName returns the group holding kind k, or "" if the header has no
// table for it.
func (h *Header) GroupName(k Kind) string {
	group, _, err := h.locate(k)
	if err != nil {
		return ""
	}
	return group
}

// Kinds returns the kinds that have a table, in file order.
func (h *Header) Kinds() []Kind {
	var out []Kind
	for _, g := range h.file.Groups() {
		for _, t := range g.Tables() {
			if k, ok := KindForTable(t.Name); ok {
				out = append(out, k)
			}
		}
	}
	return out
}

// locate finds the table of kind k. Groups are scanned in file order the
// first time a kind is looked up.
func (h *Header) locate(k Kind) (string, *calvin.TableHeader, error) {
	ki, err := Info(k)
	if err != nil {
		return "", nil, err
	}
	if group, ok := h.groups[k]; ok {
		th, err := h.file.Table(group, ki.TableName)
		return group, th, err
	}
	for _, g := range h.file.Groups() {
		if th, ok := g.Table(ki.TableName); ok {
			h.groups[k] = g.Name
			return g.Name, th, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %s", ErrKindNotPresent, k)
}

func (h *Header) text(name string) string {
	tv, ok := h.file.Meta.Params.Find(name)
	if !ok {
		return ""
	}
	s, err := tv.Text()
	if err != nil {
		return ""
	}
	return s
}

func (h *Header) setText(name, value string, reserve int) error {
	if h.file.Committed() {
		return fmt.Errorf("setting %q: %w", name, calvin.ErrCommitted)
	}
	h.file.Meta.Params.Add(calvin.NewTextParam(name, value, reserve))
	return nil
}

// AlgName returns the algorithm name, or "" if unset.
func (h *Header) AlgName() string { return h.text(ParamAlgName) }

// SetAlgName sets the algorithm name.
func (h *Header) SetAlgName(v string) error { return h.setText(ParamAlgName, v, -1) }

// AlgVersion returns the algorithm version, or "" if unset.
func (h *Header) AlgVersion() string { return h.text(ParamAlgVersion) }

// SetAlgVersion sets the algorithm version.
func (h *Header) SetAlgVersion(v string) error { return h.setText(ParamAlgVersion, v, -1) }

// ArrayType returns the array type, or "" if unset.
func (h *Header) ArrayType() string { return h.text(ParamArrayType) }

// SetArrayType sets the array type, reserving room for 100 characters.
func (h *Header) SetArrayType(v string) error {
	return h.setText(ParamArrayType, v, arrayTypeReserve)
}

// AlgParams returns the algorithm parameters with their prefix removed.
func (h *Header) AlgParams() []calvin.TaggedValue { return h.prefixed(AlgParamPrefix) }

// AddAlgParams stores params as algorithm parameters.
func (h *Header) AddAlgParams(params ...calvin.TaggedValue) error {
	return h.addPrefixed(AlgParamPrefix, params)
}

// ApplyAlgParamTemplate checks the algorithm parameters against tmpl and
// adds the defaults of the ones not yet set. See calvin.ApplyTemplate.
func (h *Header) ApplyAlgParamTemplate(tmpl []calvin.DefaultRequiredValue) error {
	if h.file.Committed() {
		return fmt.Errorf("applying algorithm parameter template: %w", calvin.ErrCommitted)
	}
	var l calvin.ParamList
	for _, p := range h.AlgParams() {
		l.Add(p)
	}
	n := l.Len()
	if err := calvin.ApplyTemplate(&l, tmpl); err != nil {
		return err
	}
	return h.addPrefixed(AlgParamPrefix, l.All()[n:])
}

// SummaryParams returns the chip summary parameters with their prefix removed.
func (h *Header) SummaryParams() []calvin.TaggedValue { return h.prefixed(SummaryParamPrefix) }

// AddSummaryParams stores params as chip summary parameters.
func (h *Header) AddSummaryParams(params ...calvin.TaggedValue) error {
	return h.addPrefixed(SummaryParamPrefix, params)
}

// AppMetaInfo returns the application meta data with its prefix removed.
func (h *Header) AppMetaInfo() []calvin.TaggedValue { return h.prefixed(AppMetaInfoPrefix) }

// AddAppMetaInfo stores params as application meta data.
func (h *Header) AddAppMetaInfo(params ...calvin.TaggedValue) error {
	return h.addPrefixed(AppMetaInfoPrefix, params)
}

func (h *Header) prefixed(prefix string) []calvin.TaggedValue {
	var out []calvin.TaggedValue
	for _, p := range h.file.Meta.Params.All() {
		if name, ok := strings.CutPrefix(p.Name, prefix); ok {
			p.Name = name
			out = append(out, p)
		}
	}
	return out
}

func (h *Header) addPrefixed(prefix string, params []calvin.TaggedValue) error {
	if h.file.Committed() {
		return fmt.Errorf("adding %s parameters: %w", strings.TrimSuffix(prefix, "-"), calvin.ErrCommitted)
	}
	for _, p := range params {
		p = p.Clone()
		p.Name = prefix + p.Name
		h.file.Meta.Params.Add(p)
	}
	return nil
}

package calvin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggedNumbers(t *testing.T) {
	tests := []struct {
		name    string
		tv      TaggedValue
		mime    string
		display string
		want    any
	}{
		{"int8", NewInt8Param("a", -5), "text/x-calvin-integer-8", "-5", int8(-5)},
		{"uint8", NewUInt8Param("a", 250), "text/x-calvin-unsigned-integer-8", "250", uint8(250)},
		{"int16", NewInt16Param("a", -1234), "text/x-calvin-integer-16", "-1234", int16(-1234)},
		{"uint16", NewUInt16Param("a", 65000), "text/x-calvin-unsigned-integer-16", "65000", uint16(65000)},
		{"int32", NewInt32Param("a", -70000), "text/x-calvin-integer-32", "-70000", int32(-70000)},
		{"uint32", NewUInt32Param("a", 4000000000), "text/x-calvin-unsigned-integer-32", "4000000000", uint32(4000000000)},
		{"float", NewFloatParam("a", 1.5), "text/x-calvin-float", "1.500000", float32(1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mime, tt.tv.MIMEType())
			assert.Equal(t, tt.display, tt.tv.String())
			assert.Len(t, tt.tv.Payload(), 16)
			v, err := tt.tv.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)

			back := paramFromWire(tt.tv.toWire())
			assert.True(t, back.Equal(tt.tv))
			assert.Equal(t, tt.tv.Type(), back.Type())
		})
	}
}

func TestTaggedWordLayout(t *testing.T) {
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFB}, NewInt8Param("a", -5).Payload()[:4])
	assert.Equal(t, []byte{0x3F, 0xC0, 0x00, 0x00}, NewFloatParam("a", 1.5).Payload()[:4])
	assert.Equal(t, make([]byte, 12), NewUInt16Param("a", 1).Payload()[4:])
}

func TestTaggedStrings(t *testing.T) {
	text := NewTextParam("n", "BRLMM", 100)
	assert.Len(t, text.Payload(), 200)
	s, err := text.Text()
	require.NoError(t, err)
	assert.Equal(t, "BRLMM", s)
	assert.Equal(t, "BRLMM", text.String())

	short := NewTextParam("n", "abc", 1)
	assert.Len(t, short.Payload(), 6)

	ascii := NewASCIIParam("n", "Mapping250K_Nsp", 20)
	assert.Len(t, ascii.Payload(), 20)
	s, err = ascii.ASCII()
	require.NoError(t, err)
	assert.Equal(t, "Mapping250K_Nsp", s)

	noReserve := NewASCIIParam("n", "abc", -1)
	assert.Equal(t, []byte("abc"), noReserve.Payload())
}

func TestTaggedMismatch(t *testing.T) {
	tv := NewInt32Param("a", 1)
	_, err := tv.Int16()
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = tv.Float()
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = tv.Text()
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	short := NewRawParam("a", "text/x-calvin-integer-32", []byte{1, 2})
	_, err = short.Int32()
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestTaggedUnknownRoundTrip(t *testing.T) {
	tv := NewRawParam("x", "application/x-something-new", []byte{0xDE, 0xAD})
	assert.Equal(t, ParamUnknown, tv.Type())
	assert.Equal(t, "dead", tv.String())

	w := tv.toWire()
	assert.Equal(t, "application/x-something-new", w.MIMEType)
	assert.Equal(t, []byte{0xDE, 0xAD}, w.Value)

	_, err := tv.CellValue(KindInt32)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestTaggedClone(t *testing.T) {
	a := NewASCIIParam("a", "abc", -1)
	b := a.Clone()
	b.SetASCII("xyz", -1)
	s, _ := a.ASCII()
	assert.Equal(t, "abc", s)

	p := a.Payload()
	p[0] = 'z'
	s, _ = a.ASCII()
	assert.Equal(t, "abc", s)
}

func TestCellParam(t *testing.T) {
	col := Column{Name: "score", Type: Float32Column()}
	tv, err := CellParam(col, float32(2.5))
	require.NoError(t, err)
	assert.Equal(t, ParamFloat, tv.Type())
	assert.Equal(t, "score", tv.Name)

	v, err := tv.CellValue(KindFloat32)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)

	text, err := CellParam(Column{Name: "t", Type: TextColumn(4)}, "ab")
	require.NoError(t, err)
	assert.Equal(t, ParamText, text.Type())

	_, err = CellParam(col, 2.5)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	n, err := NewInt32Param("n", 300).CellValue(KindUInt8)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Nil(t, n)
}

func TestCellValueRejectsOtherTypes(t *testing.T) {
	tests := []struct {
		name string
		tv   TaggedValue
		kind ColumnKind
	}{
		{"int32 into float", NewInt32Param("n", 16777217), KindFloat32},
		{"float into int32", NewFloatParam("f", 1), KindInt32},
		{"uint8 into int8", NewUInt8Param("u", 1), KindInt8},
		{"ascii into text", NewASCIIParam("a", "x", -1), KindUTF16},
		{"text into ascii", NewTextParam("s", "x", -1), KindASCII},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tv.CellValue(tt.kind)
			assert.ErrorIs(t, err, ErrSchemaMismatch)
		})
	}

	v, err := NewUInt16Param("u", 9).CellValue(KindUInt16)
	require.NoError(t, err)
	assert.Equal(t, uint16(9), v)
}

func TestParamList(t *testing.T) {
	var l ParamList
	l.Add(NewInt32Param("a", 1))
	l.Add(NewInt32Param("b", 2))
	l.Add(NewInt32Param("a", 3))

	require.Equal(t, 2, l.Len())
	a, ok := l.Find("a")
	require.True(t, ok)
	v, _ := a.Int32()
	assert.Equal(t, int32(3), v)
	assert.Equal(t, "a", l.All()[0].Name)

	assert.True(t, l.Remove("a"))
	assert.False(t, l.Remove("a"))
	b, ok := l.Find("b")
	require.True(t, ok)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, 1, l.Len())
}

func TestDefaultRequiredValue(t *testing.T) {
	p := DefaultRequiredValue{
		TaggedValue:          NewTextParam("Scanner", "GeneChip 3000", -1),
		Kind:                 ValueSingleControl,
		Required:             true,
		ControlledVocabulary: []string{"GeneChip 3000", "GeneChip 7G"},
	}
	_, ok := p.Default()
	assert.False(t, ok)

	p.SetDefault(NewTextParam("ignored", "GeneChip 7G", -1))
	d, ok := p.Default()
	require.True(t, ok)
	assert.Equal(t, "Scanner", d.Name)
	s, err := d.Text()
	require.NoError(t, err)
	assert.Equal(t, "GeneChip 7G", s)

	assert.True(t, p.Allowed("GeneChip 7G"))
	assert.False(t, p.Allowed("Other"))

	c := p.Clone()
	c.ControlledVocabulary[0] = "changed"
	assert.Equal(t, "GeneChip 3000", p.ControlledVocabulary[0])

	assert.Equal(t, "SingleControl", p.Kind.String())
	assert.Equal(t, ValueText, ParseValueKind("String"))
	assert.Equal(t, ValueNone, ParseValueKind("bogus"))
}

func TestApplyTemplate(t *testing.T) {
	scanner := DefaultRequiredValue{
		TaggedValue:          TaggedValue{Name: "Scanner"},
		Kind:                 ValueSingleControl,
		ControlledVocabulary: []string{"GeneChip 3000", "GeneChip 7G"},
	}
	scanner.SetDefault(NewTextParam("", "GeneChip 3000", -1))
	operator := DefaultRequiredValue{TaggedValue: NewTextParam("Operator", "", -1), Kind: ValueText, Required: true}
	lanes := DefaultRequiredValue{Kind: ValueInt}
	lanes.Name = "Lanes"
	lanes.SetDefault(NewInt32Param("", 4))
	tmpl := []DefaultRequiredValue{scanner, operator, lanes}

	var l ParamList
	l.Add(NewTextParam("Operator", "lab", -1))
	l.Add(NewInt32Param("Lanes", 8))
	require.NoError(t, ApplyTemplate(&l, tmpl))
	require.Equal(t, 3, l.Len())
	got, ok := l.Find("Scanner")
	require.True(t, ok)
	s, err := got.Text()
	require.NoError(t, err)
	assert.Equal(t, "GeneChip 3000", s)
	n, _ := l.Find("Lanes")
	v, err := n.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(8), v, "present values are kept")

	tests := []struct {
		name   string
		params []TaggedValue
		want   error
	}{
		{"missing required", nil, ErrRequired},
		{"wrong type", []TaggedValue{NewTextParam("Operator", "lab", -1), NewFloatParam("Lanes", 4)}, ErrSchemaMismatch},
		{"outside vocabulary", []TaggedValue{NewTextParam("Operator", "lab", -1), NewTextParam("Scanner", "Other", -1)}, ErrNotInVocabulary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l ParamList
			for _, p := range tt.params {
				l.Add(p)
			}
			assert.ErrorIs(t, ApplyTemplate(&l, tmpl), tt.want)
		})
	}
}

package calvin

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	binpkg "github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/dtype"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/message"
)

// ParamType is the type tag of a TaggedValue.
type ParamType int

// Parameter types. ParamUnknown keeps the stored MIME string untouched.
const (
	ParamUnknown ParamType = iota
	ParamInt8
	ParamUInt8
	ParamInt16
	ParamUInt16
	ParamInt32
	ParamUInt32
	ParamFloat
	ParamText
	ParamASCII
)

// numberPayloadSize is the stored size of every numeric parameter value.
const numberPayloadSize = 16

var mimeTypes = map[ParamType]string{
	ParamInt8:   "text/x-calvin-integer-8",
	ParamUInt8:  "text/x-calvin-unsigned-integer-8",
	ParamInt16:  "text/x-calvin-integer-16",
	ParamUInt16: "text/x-calvin-unsigned-integer-16",
	ParamInt32:  "text/x-calvin-integer-32",
	ParamUInt32: "text/x-calvin-unsigned-integer-32",
	ParamFloat:  "text/x-calvin-float",
	ParamText:   "text/plain",
	ParamASCII:  "text/ascii",
}

var paramTypes = func() map[string]ParamType {
	m := make(map[string]ParamType, len(mimeTypes))
	for t, s := range mimeTypes {
		m[s] = t
	}
	return m
}()

// MIMEType returns the wire rendering of t, or "" for ParamUnknown.
func (t ParamType) MIMEType() string { return mimeTypes[t] }

func (t ParamType) String() string {
	switch t {
	case ParamInt8:
		return "int8"
	case ParamUInt8:
		return "uint8"
	case ParamInt16:
		return "int16"
	case ParamUInt16:
		return "uint16"
	case ParamInt32:
		return "int32"
	case ParamUInt32:
		return "uint32"
	case ParamFloat:
		return "float"
	case ParamText:
		return "text"
	case ParamASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

// ParseMIMEType maps a wire MIME string to its ParamType.
func ParseMIMEType(s string) ParamType {
	return paramTypes[s]
}

// TaggedValue is a named, typed parameter. The payload is owned by the value;
// copies made with Clone never alias.
type TaggedValue struct {
	Name    string
	typ     ParamType
	mime    string
	payload []byte
}

// NewRawParam builds a value from a wire MIME type and payload.
func NewRawParam(name, mimeType string, payload []byte) TaggedValue {
	return TaggedValue{
		Name:    name,
		typ:     ParseMIMEType(mimeType),
		mime:    mimeType,
		payload: append([]byte(nil), payload...),
	}
}

func NewInt8Param(name string, v int8) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetInt8(v)
	return tv
}

func NewUInt8Param(name string, v uint8) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetUInt8(v)
	return tv
}

func NewInt16Param(name string, v int16) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetInt16(v)
	return tv
}

func NewUInt16Param(name string, v uint16) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetUInt16(v)
	return tv
}

func NewInt32Param(name string, v int32) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetInt32(v)
	return tv
}

func NewUInt32Param(name string, v uint32) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetUInt32(v)
	return tv
}

func NewFloatParam(name string, v float32) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetFloat(v)
	return tv
}

// NewTextParam builds a UTF-16 text value. See SetText for reserve.
func NewTextParam(name, s string, reserve int) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetText(s, reserve)
	return tv
}

// NewASCIIParam builds a single-byte text value. See SetASCII for reserve.
func NewASCIIParam(name, s string, reserve int) TaggedValue {
	tv := TaggedValue{Name: name}
	tv.SetASCII(s, reserve)
	return tv
}

// Type returns the type tag.
func (v TaggedValue) Type() ParamType { return v.typ }

// MIMEType returns the wire type string.
func (v TaggedValue) MIMEType() string {
	if v.typ == ParamUnknown {
		return v.mime
	}
	return v.typ.MIMEType()
}

// Payload returns a copy of the raw stored bytes.
func (v TaggedValue) Payload() []byte {
	return append([]byte(nil), v.payload...)
}

// Clone returns a deep copy of v.
func (v TaggedValue) Clone() TaggedValue {
	v.payload = append([]byte(nil), v.payload...)
	return v
}

// Equal reports whether v and o have the same name, type and payload.
func (v TaggedValue) Equal(o TaggedValue) bool {
	return v.Name == o.Name && v.MIMEType() == o.MIMEType() && string(v.payload) == string(o.payload)
}

func (v *TaggedValue) setWord(t ParamType, w uint32) {
	buf := make([]byte, numberPayloadSize)
	binary.BigEndian.PutUint32(buf, w)
	v.typ, v.mime, v.payload = t, "", buf
}

func (v *TaggedValue) SetInt8(x int8)     { v.setWord(ParamInt8, uint32(int32(x))) }
func (v *TaggedValue) SetUInt8(x uint8)   { v.setWord(ParamUInt8, uint32(x)) }
func (v *TaggedValue) SetInt16(x int16)   { v.setWord(ParamInt16, uint32(int32(x))) }
func (v *TaggedValue) SetUInt16(x uint16) { v.setWord(ParamUInt16, uint32(x)) }
func (v *TaggedValue) SetInt32(x int32)   { v.setWord(ParamInt32, uint32(x)) }
func (v *TaggedValue) SetUInt32(x uint32) { v.setWord(ParamUInt32, x) }
func (v *TaggedValue) SetFloat(x float32) { v.setWord(ParamFloat, math.Float32bits(x)) }

// SetText stores s as UTF-16BE code units. When reserve exceeds the encoded
// length the payload is zero padded to reserve code units; pass -1 for none.
func (v *TaggedValue) SetText(s string, reserve int) {
	units, err := binpkg.EncodeUTF16(s)
	if err != nil {
		units = nil
	}
	if reserve > len(units)/2 {
		padded := make([]byte, 2*reserve)
		copy(padded, units)
		units = padded
	}
	v.typ, v.mime, v.payload = ParamText, "", units
}

// SetASCII stores s as raw bytes, zero padded to reserve bytes when reserve
// exceeds len(s); pass -1 for none.
func (v *TaggedValue) SetASCII(s string, reserve int) {
	buf := []byte(s)
	if reserve > len(buf) {
		padded := make([]byte, reserve)
		copy(padded, buf)
		buf = padded
	}
	v.typ, v.mime, v.payload = ParamASCII, "", buf
}

func (v TaggedValue) word(t ParamType) (uint32, error) {
	if v.typ != t {
		return 0, fmt.Errorf("%w: parameter %q is %s, not %s", ErrSchemaMismatch, v.Name, v.typ, t)
	}
	if len(v.payload) < 4 {
		return 0, fmt.Errorf("%w: parameter %q has a %d byte payload", ErrSchemaMismatch, v.Name, len(v.payload))
	}
	return binary.BigEndian.Uint32(v.payload), nil
}

func (v TaggedValue) Int8() (int8, error) {
	w, err := v.word(ParamInt8)
	return int8(w), err
}

func (v TaggedValue) UInt8() (uint8, error) {
	w, err := v.word(ParamUInt8)
	return uint8(w), err
}

func (v TaggedValue) Int16() (int16, error) {
	w, err := v.word(ParamInt16)
	return int16(w), err
}

func (v TaggedValue) UInt16() (uint16, error) {
	w, err := v.word(ParamUInt16)
	return uint16(w), err
}

func (v TaggedValue) Int32() (int32, error) {
	w, err := v.word(ParamInt32)
	return int32(w), err
}

func (v TaggedValue) UInt32() (uint32, error) {
	return v.word(ParamUInt32)
}

func (v TaggedValue) Float() (float32, error) {
	w, err := v.word(ParamFloat)
	return math.Float32frombits(w), err
}

// Text returns a UTF-16 value, truncated at the first NUL.
func (v TaggedValue) Text() (string, error) {
	if v.typ != ParamText {
		return "", fmt.Errorf("%w: parameter %q is %s, not text", ErrSchemaMismatch, v.Name, v.typ)
	}
	s, err := binpkg.DecodeUTF16(v.payload[:len(v.payload)&^1])
	if err != nil {
		return "", fmt.Errorf("parameter %q: %w", v.Name, err)
	}
	return binpkg.TrimNUL(s), nil
}

// ASCII returns a single-byte value, truncated at the first NUL.
func (v TaggedValue) ASCII() (string, error) {
	if v.typ != ParamASCII {
		return "", fmt.Errorf("%w: parameter %q is %s, not ascii", ErrSchemaMismatch, v.Name, v.typ)
	}
	return binpkg.TrimNUL(string(v.payload)), nil
}

// Value returns the decoded Go value: an integer of the tagged width,
// float32, or string. Unknown values return their payload bytes.
func (v TaggedValue) Value() (any, error) {
	switch v.typ {
	case ParamInt8:
		return v.Int8()
	case ParamUInt8:
		return v.UInt8()
	case ParamInt16:
		return v.Int16()
	case ParamUInt16:
		return v.UInt16()
	case ParamInt32:
		return v.Int32()
	case ParamUInt32:
		return v.UInt32()
	case ParamFloat:
		return v.Float()
	case ParamText:
		return v.Text()
	case ParamASCII:
		return v.ASCII()
	default:
		return v.Payload(), nil
	}
}

// String renders the value for display. Numbers are printed without locale
// formatting; unknown payloads are printed as hex.
func (v TaggedValue) String() string {
	switch v.typ {
	case ParamInt8, ParamInt16, ParamInt32, ParamUInt8, ParamUInt16, ParamUInt32:
		x, err := v.Value()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%d", x)
	case ParamFloat:
		f, err := v.Float()
		if err != nil {
			return ""
		}
		return strconv.FormatFloat(float64(f), 'f', 6, 32)
	case ParamText, ParamASCII:
		x, err := v.Value()
		if err != nil {
			return ""
		}
		return x.(string)
	default:
		return hex.EncodeToString(v.payload)
	}
}

// CellValue returns the Go value v stores in a column of kind k. The
// parameter type must be the one ParamTypeFor(k) names; values are never
// coerced between types.
func (v TaggedValue) CellValue(k ColumnKind) (any, error) {
	if v.typ == ParamUnknown {
		return nil, fmt.Errorf("%w: parameter %q has unknown type %q", ErrSchemaMismatch, v.Name, v.mime)
	}
	if want := ParamTypeFor(k); v.typ != want {
		return nil, fmt.Errorf("%w: parameter %q is %s, column is %s", ErrSchemaMismatch, v.Name, v.typ, want)
	}
	x, err := v.Value()
	if err != nil {
		return nil, err
	}
	return dtype.Convert(k, x)
}

// ParamTypeFor returns the parameter type matching column kind k.
func ParamTypeFor(k ColumnKind) ParamType {
	switch k {
	case KindInt8:
		return ParamInt8
	case KindUInt8:
		return ParamUInt8
	case KindInt16:
		return ParamInt16
	case KindUInt16:
		return ParamUInt16
	case KindInt32:
		return ParamInt32
	case KindUInt32:
		return ParamUInt32
	case KindFloat32:
		return ParamFloat
	case KindASCII:
		return ParamASCII
	case KindUTF16:
		return ParamText
	default:
		return ParamUnknown
	}
}

// CellParam wraps a decoded cell of column col as a TaggedValue named after
// the column.
func CellParam(col Column, cell any) (TaggedValue, error) {
	tv := TaggedValue{Name: col.Name}
	switch x := cell.(type) {
	case int8:
		tv.SetInt8(x)
	case uint8:
		tv.SetUInt8(x)
	case int16:
		tv.SetInt16(x)
	case uint16:
		tv.SetUInt16(x)
	case int32:
		tv.SetInt32(x)
	case uint32:
		tv.SetUInt32(x)
	case float32:
		tv.SetFloat(x)
	case string:
		if col.Type.Kind() == KindUTF16 {
			tv.SetText(x, -1)
		} else {
			tv.SetASCII(x, -1)
		}
	default:
		return tv, fmt.Errorf("%w: column %q cell of type %T", ErrSchemaMismatch, col.Name, cell)
	}
	return tv, nil
}

func (v TaggedValue) toWire() message.Param {
	return message.Param{Name: v.Name, Value: v.Payload(), MIMEType: v.MIMEType()}
}

func paramFromWire(p message.Param) TaggedValue {
	return NewRawParam(p.Name, p.MIMEType, p.Value)
}

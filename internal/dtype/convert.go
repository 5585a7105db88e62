package dtype

import (
	"fmt"
	"math"
)

// Convert converts a Go numeric or string value to the Go type of kind k.
// Integer conversions are range checked; float to integer is rejected.
func Convert(k Kind, v any) (any, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown column kind %d", ErrMismatch, int8(k))
	}
	if k.IsString() {
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(k, v)
		}
		return s, nil
	}
	if k == Float32 {
		f, err := ToFloat64(v)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	}

	var i int64
	switch x := v.(type) {
	case int:
		i = int64(x)
	case int8:
		i = int64(x)
	case int16:
		i = int64(x)
	case int32:
		i = int64(x)
	case int64:
		i = x
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, outOfRange(k, v)
		}
		i = int64(x)
	case uint8:
		i = int64(x)
	case uint16:
		i = int64(x)
	case uint32:
		i = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return nil, outOfRange(k, v)
		}
		i = int64(x)
	default:
		return nil, mismatch(k, v)
	}

	switch k {
	case Int8:
		if i < math.MinInt8 || i > math.MaxInt8 {
			return nil, outOfRange(k, v)
		}
		return int8(i), nil
	case UInt8:
		if i < 0 || i > math.MaxUint8 {
			return nil, outOfRange(k, v)
		}
		return uint8(i), nil
	case Int16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return nil, outOfRange(k, v)
		}
		return int16(i), nil
	case UInt16:
		if i < 0 || i > math.MaxUint16 {
			return nil, outOfRange(k, v)
		}
		return uint16(i), nil
	case Int32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, outOfRange(k, v)
		}
		return int32(i), nil
	default: // UInt32
		if i < 0 || i > math.MaxUint32 {
			return nil, outOfRange(k, v)
		}
		return uint32(i), nil
	}
}

// ToFloat64 widens any Go numeric value to float64.
func ToFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("%w: %T is not numeric", ErrMismatch, v)
	}
}

func outOfRange(k Kind, v any) error {
	return fmt.Errorf("%w: %v overflows %s", ErrMismatch, v, k)
}

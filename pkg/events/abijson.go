package events

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotImplemented is returned by ArgValueToJSON for decoded Go types this
// mapping does not recognize.
var ErrNotImplemented = errors.New("no JSON mapping for this ABI value")

// ErrSizeExceeds32 is returned for a fixed-bytes value wider than a single
// 32-byte word.
type ErrSizeExceeds32 struct {
	Size int
}

func (e *ErrSizeExceeds32) Error() string {
	return fmt.Sprintf("fixed bytes size %d exceeds a 32-byte word", e.Size)
}

// ArgValueToJSON converts a single decoded ABI argument (as returned by
// go-ethereum's abi.Arguments.Unpack / abi.ParseTopics) into the JSON
// representation used in decoded_events records:
//
//	address            -> checksummed hex string
//	bool               -> JSON bool
//	string              -> JSON string
//	int/uint (any size) -> decimal string (*big.Int for the wide Solidity
//	                       widths, or go-ethereum's native uint8/16/32/64
//	                       and int8/16/32/64 for the narrow ones)
//	bytes               -> JSON array of byte values
//	bytesN              -> JSON array of the first N byte values
//	array/tuple         -> recursive JSON array (positional, not an object)
//
// Anything else returns ErrNotImplemented.
func ArgValueToJSON(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case common.Address:
		return t.Hex(), nil
	case bool:
		return t, nil
	case string:
		return t, nil
	case []byte:
		return bytesToJSON(t), nil
	case *big.Int:
		if t == nil {
			return nil, fmt.Errorf("nil big.Int")
		}
		return t.String(), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			size := rv.Len()
			if size > 32 {
				return nil, &ErrSizeExceeds32{Size: size}
			}
			buf := make([]byte, size)
			reflect.Copy(reflect.ValueOf(buf), rv)
			return bytesToJSON(buf), nil
		}
		return sliceToJSON(rv)
	case reflect.Slice:
		return sliceToJSON(rv)
	case reflect.Struct:
		return structToJSON(rv)
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, fmt.Errorf("nil pointer value")
		}
		return ArgValueToJSON(rv.Elem().Interface())
	}

	return nil, fmt.Errorf("%w: %T", ErrNotImplemented, v)
}

func bytesToJSON(b []byte) []interface{} {
	out := make([]interface{}, len(b))
	for i, b := range b {
		out[i] = int(b)
	}
	return out
}

func sliceToJSON(rv reflect.Value) (interface{}, error) {
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := ArgValueToJSON(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// structToJSON maps a tuple (decoded by go-ethereum as a generated Go
// struct) into a positional JSON array, one entry per field in declaration
// order, matching how array/tuple values are represented elsewhere in this
// mapping.
func structToJSON(rv reflect.Value) (interface{}, error) {
	out := make([]interface{}, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		v, err := ArgValueToJSON(rv.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

package superfluid

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// toArg converts a Go value or raw string to the Go type abi.Pack expects for t.
// Values that already have the right type pass through unchanged.
func toArg(v any, t abi.Type) (any, error) {
	switch val := v.(type) {
	case string:
		if t.T == abi.StringTy {
			return val, nil
		}
		return ParseArg(t, val)
	case int:
		return fitInt(big.NewInt(int64(val)), t)
	case int32:
		return fitInt(big.NewInt(int64(val)), t)
	case int64:
		return fitInt(big.NewInt(val), t)
	case uint32:
		return fitInt(new(big.Int).SetUint64(uint64(val)), t)
	case uint64:
		return fitInt(new(big.Int).SetUint64(val), t)
	case *big.Int:
		if val == nil {
			return nil, &EncodingError{Value: v, Err: errors.New("nil integer")}
		}
		return fitInt(val, t)
	default:
		return v, nil
	}
}

// ParseArg converts a raw form string into the Go value for ABI type t.
//
// Supported types: address, intN/uintN (decimal or 0x hex), bool, string,
// bytes and bytesN (0x hex). Arrays and tuples are not supported.
func ParseArg(t abi.Type, raw string) (any, error) {
	s := strings.TrimSpace(raw)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, &EncodingError{Value: raw, Err: fmt.Errorf("invalid address %q", raw)}
		}
		return common.HexToAddress(s), nil

	case abi.IntTy, abi.UintTy:
		n, ok := parseBigInt(s)
		if !ok {
			return nil, &EncodingError{Value: raw, Err: fmt.Errorf("invalid integer %q", raw)}
		}
		return fitInt(n, t)

	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, &EncodingError{Value: raw, Err: err}
		}
		return b, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		if s == "" || s == "0x" {
			return []byte{}, nil
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, &EncodingError{Value: raw, Err: err}
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, &EncodingError{Value: raw, Err: err}
		}
		if len(b) != t.Size {
			return nil, &EncodingError{Value: raw, Err: fmt.Errorf("want %d bytes, got %d", t.Size, len(b))}
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	default:
		return nil, &EncodingError{Value: raw, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, t.String())}
	}
}

// parseBigInt parses a decimal or 0x-prefixed hex integer.
func parseBigInt(s string) (*big.Int, bool) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	if s == "" {
		return nil, false
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return n, true
}

// fitInt range-checks n against an integer ABI type and converts it to
// the exact Go type abi.Pack requires (uint8, int64, *big.Int, ...).
func fitInt(n *big.Int, t abi.Type) (any, error) {
	if t.T != abi.IntTy && t.T != abi.UintTy {
		return nil, &EncodingError{Value: n, Err: fmt.Errorf("integer given for %s", t.String())}
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, &EncodingError{Value: n, Err: fmt.Errorf("%s out of range for %s", n, t.String())}
		}
	} else {
		mag := n
		if n.Sign() < 0 {
			mag = new(big.Int).Neg(n)
			mag.Sub(mag, big.NewInt(1))
		}
		if mag.BitLen() > t.Size-1 {
			return nil, &EncodingError{Value: n, Err: fmt.Errorf("%s out of range for %s", n, t.String())}
		}
	}

	rt := t.GetType()
	if rt == bigIntType {
		return new(big.Int).Set(n), nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(rt).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(rt).Interface(), nil
}

// ParseUnits converts a decimal amount string into base units,
// e.g. ParseUnits("1.5", 18) is 1.5e18.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, &EncodingError{Value: amount, Err: errors.New("empty amount")}
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return nil, &EncodingError{Value: amount, Err: errors.New("invalid decimal amount")}
	}
	if len(frac) > decimals {
		return nil, &EncodingError{Value: amount, Err: fmt.Errorf("more than %d decimal places", decimals)}
	}
	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", decimals-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, &EncodingError{Value: amount, Err: errors.New("invalid decimal amount")}
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// FormatUnits renders base units as a decimal string with at least one
// fractional digit, e.g. FormatUnits(1e18, 18) is "1.0".
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0.0"
	}

	abs := new(big.Int).Abs(v)
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
	}

	if decimals <= 0 {
		return sign + abs.String()
	}

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, rem := new(big.Int).QuoRem(abs, unit, new(big.Int))

	frac := rem.String()
	frac = strings.Repeat("0", decimals-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	return sign + whole.String() + "." + frac
}

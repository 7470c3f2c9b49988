package types

import (
	"strings"

	"github.com/pkg/errors"
)

var scalarTypes = func() map[string]Type {
	out := make(map[string]Type)
	for _, t := range []Type{
		Boolean, Int8, Int16, Int32, Int64, Float32, Float64, String, Binary,
		Timestamp, TimestampTz, Date, Time, IntervalDay, IntervalYear, UUID,
	} {
		out[names[t.TypeID].typeString] = t
		out[names[t.TypeID].signature] = t
	}
	return out
}()

var parameterizedTypes = func() map[string]TypeID {
	out := make(map[string]TypeID)
	for _, id := range []TypeID{
		TypeIDDecimal, TypeIDVarchar, TypeIDFixedChar, TypeIDFixedBinary,
		TypeIDList, TypeIDMap, TypeIDStruct,
	} {
		out[names[id].typeString] = id
		out[names[id].signature] = id
	}
	return out
}()

// Decode parses a raw type string, as found in extension declarations or produced by Signature.
// Names are matched case-insensitively and a trailing nullability marker (?) is ignored.
func Decode(raw string) (Type, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Type{}, errors.Wrap(ErrMalformedType, "empty type string")
	}

	parenPos := strings.IndexByte(raw, '<')
	if parenPos == -1 {
		return decodeSimple(strings.TrimSuffix(raw, "?")), nil
	}

	body := strings.TrimSuffix(raw, "?")
	if !strings.HasSuffix(body, ">") {
		return Type{}, errors.Wrapf(ErrMalformedType, "couldn't find the closing bracket in '%s'", raw)
	}
	baseName := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(body[:parenPos]), "?"))

	segments, err := splitParameters(body[parenPos+1 : len(body)-1])
	if err != nil {
		return Type{}, errors.Wrapf(err, "couldn't split parameters of '%s'", raw)
	}
	params := make([]Type, len(segments))
	for i, segment := range segments {
		param, err := Decode(segment)
		if err != nil {
			return Type{}, errors.Wrapf(err, "couldn't decode parameter %d of '%s'", i, raw)
		}
		params[i] = param
	}

	typeID, ok := parameterizedTypes[baseName]
	if !ok {
		return Type{}, errors.Wrapf(ErrUnsupportedType, "'%s'", raw)
	}

	switch typeID {
	case TypeIDList:
		if len(params) != 1 {
			return Type{}, errors.Wrapf(ErrMalformedType, "list type must have exactly one parameter, got '%s'", raw)
		}
		return NewList(params[0]), nil
	case TypeIDMap:
		if len(params) != 2 {
			return Type{}, errors.Wrapf(ErrMalformedType, "map type must have a key and a value parameter, got '%s'", raw)
		}
		return NewMap(params[0], params[1]), nil
	case TypeIDDecimal:
		if len(params) != 2 {
			return Type{}, errors.Wrapf(ErrMalformedType, "decimal type must have a precision and a scale parameter, got '%s'", raw)
		}
		if err := checkLiterals(raw, params...); err != nil {
			return Type{}, err
		}
		return NewDecimal(params[0], params[1]), nil
	case TypeIDVarchar, TypeIDFixedChar, TypeIDFixedBinary:
		if len(params) != 1 {
			return Type{}, errors.Wrapf(ErrMalformedType, "%s type must have exactly one length parameter, got '%s'", names[typeID].typeString, raw)
		}
		if err := checkLiterals(raw, params...); err != nil {
			return Type{}, err
		}
		switch typeID {
		case TypeIDVarchar:
			return NewVarchar(params[0]), nil
		case TypeIDFixedChar:
			return NewFixedChar(params[0]), nil
		default:
			return NewFixedBinary(params[0]), nil
		}
	case TypeIDStruct:
		if len(params) == 0 {
			return Type{}, errors.Wrapf(ErrMalformedType, "struct type must have at least one field, got '%s'", raw)
		}
		return NewStruct(params...), nil
	default:
		panic("impossible, type switch bug")
	}
}

func decodeSimple(raw string) Type {
	matching := strings.ToLower(raw)
	if t, ok := scalarTypes[matching]; ok {
		return t
	}
	if isWildcardName(matching) {
		return NewWildcard(matching)
	}
	if strings.HasPrefix(matching, userDefinedPrefix) {
		return NewUserDefined(raw[len(userDefinedPrefix):])
	}
	if strings.HasPrefix(matching, UnknownTypeName) {
		return NewUserDefined(raw)
	}
	return NewStringLiteral(raw)
}

// isWildcardName matches any, any1, any2, ...
func isWildcardName(name string) bool {
	if !strings.HasPrefix(name, "any") {
		return false
	}
	for _, c := range name[len("any"):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// splitParameters splits on top-level commas, so nested parameter lists stay intact.
func splitParameters(params string) ([]string, error) {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, errors.Wrap(ErrMalformedType, "unbalanced '>'")
			}
		case ',':
			if depth == 0 {
				out = append(out, params[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.Wrap(ErrMalformedType, "unbalanced '<'")
	}
	out = append(out, params[start:])

	for i := range out {
		if strings.TrimSpace(out[i]) == "" {
			return nil, errors.Wrapf(ErrMalformedType, "parameter %d is empty", i)
		}
	}
	return out, nil
}

func checkLiterals(raw string, params ...Type) error {
	for i := range params {
		if params[i].TypeID != TypeIDStringLiteral {
			return errors.Wrapf(ErrMalformedType, "parameter %d of '%s' must be a literal, got %s", i, raw, params[i].Signature())
		}
	}
	return nil
}

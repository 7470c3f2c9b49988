package types

import (
	"strings"
)

type typeNames struct {
	// signature is the short token used in function signatures.
	signature string
	// typeString is the name used in extension declarations.
	typeString string
}

var names = map[TypeID]typeNames{
	TypeIDBoolean:      {"bool", "boolean"},
	TypeIDInt8:         {"i8", "i8"},
	TypeIDInt16:        {"i16", "i16"},
	TypeIDInt32:        {"i32", "i32"},
	TypeIDInt64:        {"i64", "i64"},
	TypeIDFloat32:      {"fp32", "fp32"},
	TypeIDFloat64:      {"fp64", "fp64"},
	TypeIDString:       {"str", "string"},
	TypeIDBinary:       {"vbin", "binary"},
	TypeIDTimestamp:    {"ts", "timestamp"},
	TypeIDTimestampTz:  {"tstz", "timestamp_tz"},
	TypeIDDate:         {"date", "date"},
	TypeIDTime:         {"time", "time"},
	TypeIDIntervalDay:  {"iday", "interval_day"},
	TypeIDIntervalYear: {"iyear", "interval_year"},
	TypeIDUUID:         {"uuid", "uuid"},
	TypeIDDecimal:      {"dec", "decimal"},
	TypeIDVarchar:      {"vchar", "varchar"},
	TypeIDFixedChar:    {"fchar", "fixedchar"},
	TypeIDFixedBinary:  {"fbin", "fixedbinary"},
	TypeIDList:         {"list", "list"},
	TypeIDMap:          {"map", "map"},
	TypeIDStruct:       {"struct", "struct"},
}

const userDefinedPrefix = "u!"

// Signature returns the canonical signature of the type, e.g. i32, dec<10,2> or list<str>.
// Two types are interchangeable for function matching iff their signatures are equal.
func (t Type) Signature() string {
	switch t.TypeID {
	case TypeIDBoolean, TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64,
		TypeIDFloat32, TypeIDFloat64, TypeIDString, TypeIDBinary,
		TypeIDTimestamp, TypeIDTimestampTz, TypeIDDate, TypeIDTime,
		TypeIDIntervalDay, TypeIDIntervalYear, TypeIDUUID:
		return names[t.TypeID].signature
	case TypeIDDecimal:
		return parameterized(names[t.TypeID].signature, *t.Decimal.Precision, *t.Decimal.Scale)
	case TypeIDVarchar:
		return parameterized(names[t.TypeID].signature, *t.Varchar.Length)
	case TypeIDFixedChar:
		return parameterized(names[t.TypeID].signature, *t.FixedChar.Length)
	case TypeIDFixedBinary:
		return parameterized(names[t.TypeID].signature, *t.FixedBinary.Length)
	case TypeIDList:
		return parameterized(names[t.TypeID].signature, *t.List.Element)
	case TypeIDMap:
		return parameterized(names[t.TypeID].signature, *t.Map.Key, *t.Map.Value)
	case TypeIDStruct:
		return parameterized(names[t.TypeID].signature, t.Struct.Fields...)
	case TypeIDStringLiteral:
		return t.StringLiteral.Value
	case TypeIDUserDefined:
		return userDefinedPrefix + t.UserDefined.Name
	case TypeIDWildcard:
		return t.Wildcard.Tag
	}
	panic("impossible, type switch bug")
}

// TypeString returns the long, declaration style name of the type, e.g. boolean or decimal<P1,S1>.
func (t Type) TypeString() string {
	switch t.TypeID {
	case TypeIDBoolean, TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64,
		TypeIDFloat32, TypeIDFloat64, TypeIDString, TypeIDBinary,
		TypeIDTimestamp, TypeIDTimestampTz, TypeIDDate, TypeIDTime,
		TypeIDIntervalDay, TypeIDIntervalYear, TypeIDUUID:
		return names[t.TypeID].typeString
	case TypeIDDecimal:
		return parameterizedTypeString(names[t.TypeID].typeString, *t.Decimal.Precision, *t.Decimal.Scale)
	case TypeIDVarchar:
		return parameterizedTypeString(names[t.TypeID].typeString, *t.Varchar.Length)
	case TypeIDFixedChar:
		return parameterizedTypeString(names[t.TypeID].typeString, *t.FixedChar.Length)
	case TypeIDFixedBinary:
		return parameterizedTypeString(names[t.TypeID].typeString, *t.FixedBinary.Length)
	case TypeIDList:
		return parameterizedTypeString(names[t.TypeID].typeString, *t.List.Element)
	case TypeIDMap:
		return parameterizedTypeString(names[t.TypeID].typeString, *t.Map.Key, *t.Map.Value)
	case TypeIDStruct:
		return parameterizedTypeString(names[t.TypeID].typeString, t.Struct.Fields...)
	case TypeIDStringLiteral:
		return t.StringLiteral.Value
	case TypeIDUserDefined:
		return userDefinedPrefix + t.UserDefined.Name
	case TypeIDWildcard:
		return t.Wildcard.Tag
	}
	panic("impossible, type switch bug")
}

func parameterized(name string, params ...Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('<')
	for i := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(params[i].Signature())
	}
	sb.WriteByte('>')
	return sb.String()
}

func parameterizedTypeString(name string, params ...Type) string {
	parts := make([]string, len(params))
	for i := range params {
		parts[i] = params[i].TypeString()
	}
	return name + "<" + strings.Join(parts, ",") + ">"
}

// Signatures joins the signatures of the given types with the separator used in function signatures.
func Signatures(types []Type) string {
	parts := make([]string, len(types))
	for i := range types {
		parts[i] = types[i].Signature()
	}
	return strings.Join(parts, "_")
}

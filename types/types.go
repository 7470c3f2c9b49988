package types

import (
	"fmt"
	"strings"
)

type TypeID int

const (
	TypeIDBoolean TypeID = iota
	TypeIDInt8
	TypeIDInt16
	TypeIDInt32
	TypeIDInt64
	TypeIDFloat32
	TypeIDFloat64
	TypeIDString
	TypeIDBinary
	TypeIDTimestamp
	TypeIDTimestampTz
	TypeIDDate
	TypeIDTime
	TypeIDIntervalDay
	TypeIDIntervalYear
	TypeIDUUID
	TypeIDDecimal
	TypeIDVarchar
	TypeIDFixedChar
	TypeIDFixedBinary
	TypeIDList
	TypeIDMap
	TypeIDStruct
	TypeIDStringLiteral
	TypeIDUserDefined
	TypeIDWildcard
)

// Type is a Substrait type. Only the payload matching TypeID is meaningful.
// Numeric parameters (precision, scale, length) are StringLiteral types.
type Type struct {
	TypeID  TypeID
	Decimal struct {
		Precision *Type
		Scale     *Type
	}
	Varchar struct {
		Length *Type
	}
	FixedChar struct {
		Length *Type
	}
	FixedBinary struct {
		Length *Type
	}
	List struct {
		Element *Type
	}
	Map struct {
		Key   *Type
		Value *Type
	}
	Struct struct {
		Fields []Type
	}
	StringLiteral struct {
		Value string
	}
	UserDefined struct {
		Name string
	}
	Wildcard struct {
		Tag string
	}
}

// UnknownTypeName is the user defined type name used for types which haven't been determined yet.
const UnknownTypeName = "unknown"

var (
	Boolean      = Type{TypeID: TypeIDBoolean}
	Int8         = Type{TypeID: TypeIDInt8}
	Int16        = Type{TypeID: TypeIDInt16}
	Int32        = Type{TypeID: TypeIDInt32}
	Int64        = Type{TypeID: TypeIDInt64}
	Float32      = Type{TypeID: TypeIDFloat32}
	Float64      = Type{TypeID: TypeIDFloat64}
	String       = Type{TypeID: TypeIDString}
	Binary       = Type{TypeID: TypeIDBinary}
	Timestamp    = Type{TypeID: TypeIDTimestamp}
	TimestampTz  = Type{TypeID: TypeIDTimestampTz}
	Date         = Type{TypeID: TypeIDDate}
	Time         = Type{TypeID: TypeIDTime}
	IntervalDay  = Type{TypeID: TypeIDIntervalDay}
	IntervalYear = Type{TypeID: TypeIDIntervalYear}
	UUID         = Type{TypeID: TypeIDUUID}
	Unknown      = NewUserDefined(UnknownTypeName)
)

func NewStringLiteral(value string) Type {
	out := Type{TypeID: TypeIDStringLiteral}
	out.StringLiteral.Value = value
	return out
}

func NewUserDefined(name string) Type {
	out := Type{TypeID: TypeIDUserDefined}
	out.UserDefined.Name = name
	return out
}

func NewWildcard(tag string) Type {
	out := Type{TypeID: TypeIDWildcard}
	out.Wildcard.Tag = tag
	return out
}

func NewDecimal(precision, scale Type) Type {
	out := Type{TypeID: TypeIDDecimal}
	out.Decimal.Precision = &precision
	out.Decimal.Scale = &scale
	return out
}

func NewVarchar(length Type) Type {
	out := Type{TypeID: TypeIDVarchar}
	out.Varchar.Length = &length
	return out
}

func NewFixedChar(length Type) Type {
	out := Type{TypeID: TypeIDFixedChar}
	out.FixedChar.Length = &length
	return out
}

func NewFixedBinary(length Type) Type {
	out := Type{TypeID: TypeIDFixedBinary}
	out.FixedBinary.Length = &length
	return out
}

func NewList(element Type) Type {
	out := Type{TypeID: TypeIDList}
	out.List.Element = &element
	return out
}

func NewMap(key, value Type) Type {
	out := Type{TypeID: TypeIDMap}
	out.Map.Key = &key
	out.Map.Value = &value
	return out
}

func NewStruct(fields ...Type) Type {
	out := Type{TypeID: TypeIDStruct}
	out.Struct.Fields = fields
	return out
}

// IsWildcard reports whether the type is a generic placeholder (any, any1, ...).
func (t Type) IsWildcard() bool {
	return t.TypeID == TypeIDWildcard
}

// IsUnknown reports whether the type is the "unknown" user defined type.
func (t Type) IsUnknown() bool {
	return t.TypeID == TypeIDUserDefined && t.UserDefined.Name == UnknownTypeName
}

// Equals checks structural equality.
// Literal parameters are compared by their text, so dec<P1,S1> and dec<10,2> differ.
func (t Type) Equals(other Type) bool {
	if t.TypeID != other.TypeID {
		return false
	}
	switch t.TypeID {
	case TypeIDBoolean, TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64,
		TypeIDFloat32, TypeIDFloat64, TypeIDString, TypeIDBinary,
		TypeIDTimestamp, TypeIDTimestampTz, TypeIDDate, TypeIDTime,
		TypeIDIntervalDay, TypeIDIntervalYear, TypeIDUUID:
		return true
	case TypeIDDecimal:
		return t.Decimal.Precision.Equals(*other.Decimal.Precision) &&
			t.Decimal.Scale.Equals(*other.Decimal.Scale)
	case TypeIDVarchar:
		return t.Varchar.Length.Equals(*other.Varchar.Length)
	case TypeIDFixedChar:
		return t.FixedChar.Length.Equals(*other.FixedChar.Length)
	case TypeIDFixedBinary:
		return t.FixedBinary.Length.Equals(*other.FixedBinary.Length)
	case TypeIDList:
		return t.List.Element.Equals(*other.List.Element)
	case TypeIDMap:
		return t.Map.Key.Equals(*other.Map.Key) && t.Map.Value.Equals(*other.Map.Value)
	case TypeIDStruct:
		if len(t.Struct.Fields) != len(other.Struct.Fields) {
			return false
		}
		for i := range t.Struct.Fields {
			if !t.Struct.Fields[i].Equals(other.Struct.Fields[i]) {
				return false
			}
		}
		return true
	case TypeIDStringLiteral:
		return t.StringLiteral.Value == other.StringLiteral.Value
	case TypeIDUserDefined:
		return t.UserDefined.Name == other.UserDefined.Name
	case TypeIDWildcard:
		return t.Wildcard.Tag == other.Wildcard.Tag
	}
	panic("impossible, type switch bug")
}

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDStruct:
		fieldStrings := make([]string, len(t.Struct.Fields))
		for i, field := range t.Struct.Fields {
			fieldStrings[i] = field.String()
		}
		return fmt.Sprintf("struct<%s>", strings.Join(fieldStrings, ", "))
	case TypeIDList:
		return fmt.Sprintf("list<%s>", *t.List.Element)
	case TypeIDMap:
		return fmt.Sprintf("map<%s, %s>", *t.Map.Key, *t.Map.Value)
	default:
		return t.TypeString()
	}
}

package types

import (
	"strconv"

	"github.com/pkg/errors"
	substraitpb "github.com/substrait-io/substrait-go/proto"
)

// UserDefinedResolver maps user defined type names to plan-local type references and back.
type UserDefinedResolver interface {
	TypeReference(name string) (uint32, error)
	TypeName(reference uint32) (string, error)
}

const nullable = substraitpb.Type_NULLABILITY_NULLABLE

// ToProto encodes the type as a Substrait wire message.
// Only concrete types can be encoded, so literal parameters must be integers.
// The resolver may be nil if no user defined types are expected.
func ToProto(t Type, resolver UserDefinedResolver) (*substraitpb.Type, error) {
	switch t.TypeID {
	case TypeIDBoolean:
		return &substraitpb.Type{Kind: &substraitpb.Type_Bool{Bool: &substraitpb.Type_Boolean{Nullability: nullable}}}, nil
	case TypeIDInt8:
		return &substraitpb.Type{Kind: &substraitpb.Type_I8_{I8: &substraitpb.Type_I8{Nullability: nullable}}}, nil
	case TypeIDInt16:
		return &substraitpb.Type{Kind: &substraitpb.Type_I16_{I16: &substraitpb.Type_I16{Nullability: nullable}}}, nil
	case TypeIDInt32:
		return &substraitpb.Type{Kind: &substraitpb.Type_I32_{I32: &substraitpb.Type_I32{Nullability: nullable}}}, nil
	case TypeIDInt64:
		return &substraitpb.Type{Kind: &substraitpb.Type_I64_{I64: &substraitpb.Type_I64{Nullability: nullable}}}, nil
	case TypeIDFloat32:
		return &substraitpb.Type{Kind: &substraitpb.Type_Fp32{Fp32: &substraitpb.Type_FP32{Nullability: nullable}}}, nil
	case TypeIDFloat64:
		return &substraitpb.Type{Kind: &substraitpb.Type_Fp64{Fp64: &substraitpb.Type_FP64{Nullability: nullable}}}, nil
	case TypeIDString:
		return &substraitpb.Type{Kind: &substraitpb.Type_String_{String_: &substraitpb.Type_String{Nullability: nullable}}}, nil
	case TypeIDBinary:
		return &substraitpb.Type{Kind: &substraitpb.Type_Binary_{Binary: &substraitpb.Type_Binary{Nullability: nullable}}}, nil
	case TypeIDTimestamp:
		return &substraitpb.Type{Kind: &substraitpb.Type_Timestamp_{Timestamp: &substraitpb.Type_Timestamp{Nullability: nullable}}}, nil
	case TypeIDTimestampTz:
		return &substraitpb.Type{Kind: &substraitpb.Type_TimestampTz{TimestampTz: &substraitpb.Type_TimestampTZ{Nullability: nullable}}}, nil
	case TypeIDDate:
		return &substraitpb.Type{Kind: &substraitpb.Type_Date_{Date: &substraitpb.Type_Date{Nullability: nullable}}}, nil
	case TypeIDTime:
		return &substraitpb.Type{Kind: &substraitpb.Type_Time_{Time: &substraitpb.Type_Time{Nullability: nullable}}}, nil
	case TypeIDIntervalDay:
		return &substraitpb.Type{Kind: &substraitpb.Type_IntervalDay_{IntervalDay: &substraitpb.Type_IntervalDay{Nullability: nullable}}}, nil
	case TypeIDIntervalYear:
		return &substraitpb.Type{Kind: &substraitpb.Type_IntervalYear_{IntervalYear: &substraitpb.Type_IntervalYear{Nullability: nullable}}}, nil
	case TypeIDUUID:
		return &substraitpb.Type{Kind: &substraitpb.Type_Uuid{Uuid: &substraitpb.Type_UUID{Nullability: nullable}}}, nil
	case TypeIDDecimal:
		precision, err := literalInt(*t.Decimal.Precision)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode decimal precision")
		}
		scale, err := literalInt(*t.Decimal.Scale)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode decimal scale")
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_Decimal_{Decimal: &substraitpb.Type_Decimal{
			Precision:   precision,
			Scale:       scale,
			Nullability: nullable,
		}}}, nil
	case TypeIDVarchar:
		length, err := literalInt(*t.Varchar.Length)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode varchar length")
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_Varchar{Varchar: &substraitpb.Type_VarChar{Length: length, Nullability: nullable}}}, nil
	case TypeIDFixedChar:
		length, err := literalInt(*t.FixedChar.Length)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode fixedchar length")
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_FixedChar_{FixedChar: &substraitpb.Type_FixedChar{Length: length, Nullability: nullable}}}, nil
	case TypeIDFixedBinary:
		length, err := literalInt(*t.FixedBinary.Length)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode fixedbinary length")
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_FixedBinary_{FixedBinary: &substraitpb.Type_FixedBinary{Length: length, Nullability: nullable}}}, nil
	case TypeIDList:
		element, err := ToProto(*t.List.Element, resolver)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode list element type")
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_List_{List: &substraitpb.Type_List{Type: element, Nullability: nullable}}}, nil
	case TypeIDMap:
		key, err := ToProto(*t.Map.Key, resolver)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode map key type")
		}
		value, err := ToProto(*t.Map.Value, resolver)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode map value type")
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_Map_{Map: &substraitpb.Type_Map{Key: key, Value: value, Nullability: nullable}}}, nil
	case TypeIDStruct:
		fields := make([]*substraitpb.Type, len(t.Struct.Fields))
		for i := range t.Struct.Fields {
			field, err := ToProto(t.Struct.Fields[i], resolver)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't encode struct field %d", i)
			}
			fields[i] = field
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_Struct_{Struct: &substraitpb.Type_Struct{Types: fields, Nullability: nullable}}}, nil
	case TypeIDUserDefined:
		if resolver == nil {
			return nil, errors.Wrapf(ErrUnsupportedType, "no resolver for user defined type '%s'", t.UserDefined.Name)
		}
		reference, err := resolver.TypeReference(t.UserDefined.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't get reference of user defined type '%s'", t.UserDefined.Name)
		}
		return &substraitpb.Type{Kind: &substraitpb.Type_UserDefined_{UserDefined: &substraitpb.Type_UserDefined{
			TypeReference: reference,
			Nullability:   nullable,
		}}}, nil
	case TypeIDStringLiteral, TypeIDWildcard:
		return nil, errors.Wrapf(ErrUnsupportedType, "placeholder type '%s' can't be encoded", t.Signature())
	}
	panic("impossible, type switch bug")
}

// FromProto decodes a Substrait wire type. Nullability and type variations are dropped.
func FromProto(pt *substraitpb.Type, resolver UserDefinedResolver) (Type, error) {
	if pt == nil {
		return Type{}, errors.Wrap(ErrMalformedType, "type message is empty")
	}
	switch kind := pt.Kind.(type) {
	case *substraitpb.Type_Bool:
		return Boolean, nil
	case *substraitpb.Type_I8_:
		return Int8, nil
	case *substraitpb.Type_I16_:
		return Int16, nil
	case *substraitpb.Type_I32_:
		return Int32, nil
	case *substraitpb.Type_I64_:
		return Int64, nil
	case *substraitpb.Type_Fp32:
		return Float32, nil
	case *substraitpb.Type_Fp64:
		return Float64, nil
	case *substraitpb.Type_String_:
		return String, nil
	case *substraitpb.Type_Binary_:
		return Binary, nil
	case *substraitpb.Type_Timestamp_:
		return Timestamp, nil
	case *substraitpb.Type_TimestampTz:
		return TimestampTz, nil
	case *substraitpb.Type_Date_:
		return Date, nil
	case *substraitpb.Type_Time_:
		return Time, nil
	case *substraitpb.Type_IntervalDay_:
		return IntervalDay, nil
	case *substraitpb.Type_IntervalYear_:
		return IntervalYear, nil
	case *substraitpb.Type_Uuid:
		return UUID, nil
	case *substraitpb.Type_Decimal_:
		return NewDecimal(intLiteral(kind.Decimal.Precision), intLiteral(kind.Decimal.Scale)), nil
	case *substraitpb.Type_Varchar:
		return NewVarchar(intLiteral(kind.Varchar.Length)), nil
	case *substraitpb.Type_FixedChar_:
		return NewFixedChar(intLiteral(kind.FixedChar.Length)), nil
	case *substraitpb.Type_FixedBinary_:
		return NewFixedBinary(intLiteral(kind.FixedBinary.Length)), nil
	case *substraitpb.Type_List_:
		element, err := FromProto(kind.List.Type, resolver)
		if err != nil {
			return Type{}, errors.Wrap(err, "couldn't decode list element type")
		}
		return NewList(element), nil
	case *substraitpb.Type_Map_:
		key, err := FromProto(kind.Map.Key, resolver)
		if err != nil {
			return Type{}, errors.Wrap(err, "couldn't decode map key type")
		}
		value, err := FromProto(kind.Map.Value, resolver)
		if err != nil {
			return Type{}, errors.Wrap(err, "couldn't decode map value type")
		}
		return NewMap(key, value), nil
	case *substraitpb.Type_Struct_:
		if len(kind.Struct.Types) == 0 {
			return Type{}, errors.Wrap(ErrMalformedType, "struct type must have at least one field")
		}
		fields := make([]Type, len(kind.Struct.Types))
		for i := range kind.Struct.Types {
			field, err := FromProto(kind.Struct.Types[i], resolver)
			if err != nil {
				return Type{}, errors.Wrapf(err, "couldn't decode struct field %d", i)
			}
			fields[i] = field
		}
		return NewStruct(fields...), nil
	case *substraitpb.Type_UserDefined_:
		if resolver == nil {
			return Type{}, errors.Wrapf(ErrUnsupportedType, "no resolver for user defined type reference %d", kind.UserDefined.TypeReference)
		}
		name, err := resolver.TypeName(kind.UserDefined.TypeReference)
		if err != nil {
			return Type{}, errors.Wrapf(err, "couldn't resolve user defined type reference %d", kind.UserDefined.TypeReference)
		}
		return NewUserDefined(name), nil
	default:
		return Type{}, errors.Wrapf(ErrUnsupportedType, "type kind %T", pt.Kind)
	}
}

func literalInt(t Type) (int32, error) {
	if t.TypeID != TypeIDStringLiteral {
		return 0, errors.Wrapf(ErrMalformedType, "expected literal, got %s", t.Signature())
	}
	value, err := strconv.ParseInt(t.StringLiteral.Value, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrUnsupportedType, "generic parameter '%s' can't be encoded", t.StringLiteral.Value)
	}
	return int32(value), nil
}

func intLiteral(value int32) Type {
	return NewStringLiteral(strconv.Itoa(int(value)))
}

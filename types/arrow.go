package types

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/pkg/errors"
)

// FromArrow maps a native Arrow type to a Substrait type.
// Kinds without a Substrait counterpart fail with ErrUnsupportedNativeType.
func FromArrow(dt arrow.DataType) (Type, error) {
	if dt == nil {
		return Type{}, errors.Wrap(ErrUnsupportedNativeType, "nil type")
	}
	switch dt.ID() {
	case arrow.NULL:
		return Unknown, nil
	case arrow.BOOL:
		return Boolean, nil
	case arrow.INT8:
		return Int8, nil
	case arrow.INT16:
		return Int16, nil
	case arrow.INT32:
		return Int32, nil
	case arrow.INT64:
		return Int64, nil
	case arrow.FLOAT32:
		return Float32, nil
	case arrow.FLOAT64:
		return Float64, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return String, nil
	case arrow.BINARY, arrow.LARGE_BINARY:
		return Binary, nil
	case arrow.FIXED_SIZE_BINARY:
		return NewFixedBinary(NewStringLiteral(strconv.Itoa(dt.(*arrow.FixedSizeBinaryType).ByteWidth))), nil
	case arrow.DATE32, arrow.DATE64:
		return Date, nil
	case arrow.TIME32, arrow.TIME64:
		return Time, nil
	case arrow.TIMESTAMP:
		if dt.(*arrow.TimestampType).TimeZone != "" {
			return TimestampTz, nil
		}
		return Timestamp, nil
	case arrow.INTERVAL_MONTHS:
		return IntervalYear, nil
	case arrow.INTERVAL_DAY_TIME:
		return IntervalDay, nil
	case arrow.DECIMAL128:
		decimal := dt.(*arrow.Decimal128Type)
		return NewDecimal(
			NewStringLiteral(strconv.Itoa(int(decimal.Precision))),
			NewStringLiteral(strconv.Itoa(int(decimal.Scale))),
		), nil
	case arrow.LIST:
		return listFromArrow(dt.(*arrow.ListType).Elem())
	case arrow.LARGE_LIST:
		return listFromArrow(dt.(*arrow.LargeListType).Elem())
	case arrow.FIXED_SIZE_LIST:
		return listFromArrow(dt.(*arrow.FixedSizeListType).Elem())
	case arrow.MAP:
		mapType := dt.(*arrow.MapType)
		key, err := FromArrow(mapType.KeyType())
		if err != nil {
			return Type{}, errors.Wrap(err, "couldn't map key type")
		}
		value, err := FromArrow(mapType.ItemType())
		if err != nil {
			return Type{}, errors.Wrap(err, "couldn't map value type")
		}
		return NewMap(key, value), nil
	case arrow.STRUCT:
		structType := dt.(*arrow.StructType)
		arrowFields := structType.Fields()
		fields := make([]Type, len(arrowFields))
		for i := range arrowFields {
			field, err := FromArrow(arrowFields[i].Type)
			if err != nil {
				return Type{}, errors.Wrapf(err, "couldn't map struct field '%s'", arrowFields[i].Name)
			}
			fields[i] = field
		}
		if len(fields) == 0 {
			return Type{}, errors.Wrap(ErrUnsupportedNativeType, "empty struct")
		}
		return NewStruct(fields...), nil
	default:
		return Type{}, errors.Wrapf(ErrUnsupportedNativeType, "%s", dt)
	}
}

func listFromArrow(elem arrow.DataType) (Type, error) {
	element, err := FromArrow(elem)
	if err != nil {
		return Type{}, errors.Wrap(err, "couldn't map list element type")
	}
	return NewList(element), nil
}

// ToArrow maps a Substrait type to the native Arrow type used to represent it.
// Generic types (wildcards, non-numeric parameters) have no native counterpart.
func ToArrow(t Type) (arrow.DataType, error) {
	switch t.TypeID {
	case TypeIDBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case TypeIDInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case TypeIDInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case TypeIDInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case TypeIDInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case TypeIDFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case TypeIDFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case TypeIDString, TypeIDVarchar, TypeIDFixedChar:
		return arrow.BinaryTypes.String, nil
	case TypeIDBinary:
		return arrow.BinaryTypes.Binary, nil
	case TypeIDTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond}, nil
	case TypeIDTimestampTz:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, nil
	case TypeIDDate:
		return arrow.FixedWidthTypes.Date32, nil
	case TypeIDTime:
		return arrow.FixedWidthTypes.Time64us, nil
	case TypeIDIntervalDay:
		return arrow.FixedWidthTypes.DayTimeInterval, nil
	case TypeIDIntervalYear:
		return arrow.FixedWidthTypes.MonthInterval, nil
	case TypeIDUUID:
		return &arrow.FixedSizeBinaryType{ByteWidth: 16}, nil
	case TypeIDDecimal:
		precision, err := literalInt(*t.Decimal.Precision)
		if err != nil {
			return nil, errors.Wrap(ErrUnsupportedNativeType, err.Error())
		}
		scale, err := literalInt(*t.Decimal.Scale)
		if err != nil {
			return nil, errors.Wrap(ErrUnsupportedNativeType, err.Error())
		}
		return &arrow.Decimal128Type{Precision: precision, Scale: scale}, nil
	case TypeIDFixedBinary:
		length, err := literalInt(*t.FixedBinary.Length)
		if err != nil {
			return nil, errors.Wrap(ErrUnsupportedNativeType, err.Error())
		}
		return &arrow.FixedSizeBinaryType{ByteWidth: int(length)}, nil
	case TypeIDList:
		element, err := ToArrow(*t.List.Element)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't map list element type")
		}
		return arrow.ListOf(element), nil
	case TypeIDMap:
		key, err := ToArrow(*t.Map.Key)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't map key type")
		}
		value, err := ToArrow(*t.Map.Value)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't map value type")
		}
		return arrow.MapOf(key, value), nil
	case TypeIDStruct:
		fields := make([]arrow.Field, len(t.Struct.Fields))
		for i := range t.Struct.Fields {
			fieldType, err := ToArrow(t.Struct.Fields[i])
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't map struct field %d", i)
			}
			fields[i] = arrow.Field{
				Name:     fmt.Sprintf("_%d", i),
				Type:     fieldType,
				Nullable: true,
			}
		}
		return arrow.StructOf(fields...), nil
	case TypeIDUserDefined:
		if t.IsUnknown() {
			return arrow.Null, nil
		}
		return nil, errors.Wrapf(ErrUnsupportedNativeType, "user defined type '%s'", t.UserDefined.Name)
	case TypeIDStringLiteral, TypeIDWildcard:
		return nil, errors.Wrapf(ErrUnsupportedNativeType, "placeholder type '%s'", t.Signature())
	}
	panic("impossible, type switch bug")
}

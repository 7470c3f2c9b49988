package types

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedType is returned when a type name isn't a known Substrait type.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrMalformedType is returned on bracket or parameter count mismatches.
	ErrMalformedType = errors.New("malformed type")
	// ErrUnsupportedNativeType is returned when a native type has no Substrait counterpart, or the other way round.
	ErrUnsupportedNativeType = errors.New("unsupported native type")
)

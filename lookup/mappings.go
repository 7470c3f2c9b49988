package lookup

// Mappings rename native engine function names to the names used in extension declarations.
// Names without an entry are used unchanged.
type Mappings interface {
	ScalarMappings() map[string]string
	AggregateMappings() map[string]string
	WindowMappings() map[string]string
}

type MapMappings struct {
	Scalar    map[string]string
	Aggregate map[string]string
	Window    map[string]string
}

func (m MapMappings) ScalarMappings() map[string]string {
	return m.Scalar
}

func (m MapMappings) AggregateMappings() map[string]string {
	return m.Aggregate
}

func (m MapMappings) WindowMappings() map[string]string {
	return m.Window
}

// With returns a copy of the mappings with the entries of other added, overriding existing ones.
func (m MapMappings) With(other Mappings) MapMappings {
	return MapMappings{
		Scalar:    merged(m.Scalar, other.ScalarMappings()),
		Aggregate: merged(m.Aggregate, other.AggregateMappings()),
		Window:    merged(m.Window, other.WindowMappings()),
	}
}

func merged(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func DefaultMappings() MapMappings {
	return MapMappings{
		Scalar: map[string]string{
			"plus":   "add",
			"minus":  "subtract",
			"mod":    "modulus",
			"eq":     "equal",
			"neq":    "not_equal",
			"substr": "substring",
		},
		Aggregate: map[string]string{},
		Window:    map[string]string{},
	}
}

func mappedName(mappings map[string]string, name string) string {
	if mapped, ok := mappings[name]; ok {
		return mapped
	}
	return name
}

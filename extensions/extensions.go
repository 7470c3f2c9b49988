package extensions

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/logs"
	"github.com/cube2222/octosubstrait/types"
)

var ErrInvalidDeclaration = errors.New("invalid extension declaration")

//go:embed yaml/*.yaml
var defaultExtensions embed.FS

type extensionFile struct {
	Types              []typeDeclaration     `yaml:"types"`
	ScalarFunctions    []functionDeclaration `yaml:"scalar_functions"`
	AggregateFunctions []functionDeclaration `yaml:"aggregate_functions"`
}

type typeDeclaration struct {
	Name string `yaml:"name"`
}

type functionDeclaration struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Impls       []implDeclaration `yaml:"impls"`
}

type implDeclaration struct {
	Args         []argumentDeclaration `yaml:"args"`
	Return       string                `yaml:"return"`
	Intermediate string                `yaml:"intermediate"`
}

// argumentDeclaration is one of a value argument (value), an enum argument (options, required)
// or a type argument (type).
type argumentDeclaration struct {
	Name     string   `yaml:"name"`
	Value    string   `yaml:"value"`
	Type     string   `yaml:"type"`
	Options  []string `yaml:"options"`
	Required bool     `yaml:"required"`
}

// URIFor returns the extension URI used for a declaration file.
func URIFor(filePath string) string {
	return "/" + filepath.Base(filePath)
}

// Parse parses a single simple extension YAML document declared under the given URI.
func Parse(uri string, data []byte) (*functions.Catalog, error) {
	var file extensionFile
	decoder := yaml.NewDecoder(bytes.NewReader(stripVersionDirective(data)))
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Wrapf(err, "couldn't decode extension yaml %s", uri)
	}

	var variants []*functions.Variant
	for _, decl := range file.ScalarFunctions {
		out, err := decl.variants(uri, functions.VariantKindScalar)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid scalar function %s in %s", decl.Name, uri)
		}
		variants = append(variants, out...)
	}
	for _, decl := range file.AggregateFunctions {
		out, err := decl.variants(uri, functions.VariantKindAggregate)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid aggregate function %s in %s", decl.Name, uri)
		}
		variants = append(variants, out...)
	}

	typeAnchors := make([]functions.TypeAnchor, 0, len(file.Types))
	for i, decl := range file.Types {
		if decl.Name == "" {
			return nil, errors.Wrapf(ErrInvalidDeclaration, "type %d in %s has no name", i, uri)
		}
		typeAnchors = append(typeAnchors, functions.TypeAnchor{URI: uri, Name: decl.Name})
	}

	logs.Logger().Debug("parsed extension",
		zap.String("uri", uri),
		zap.Int("variants", len(variants)),
		zap.Int("types", len(typeAnchors)),
	)

	return functions.NewCatalog(variants, typeAnchors), nil
}

func (decl *functionDeclaration) variants(uri string, kind functions.VariantKind) ([]*functions.Variant, error) {
	if decl.Name == "" {
		return nil, errors.Wrap(ErrInvalidDeclaration, "function has no name")
	}
	out := make([]*functions.Variant, 0, len(decl.Impls))
	for i := range decl.Impls {
		variant, err := decl.Impls[i].variant(decl.Name, uri, kind)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid implementation %d", i)
		}
		variant.Description = decl.Description
		out = append(out, variant)
	}
	return out, nil
}

func (impl *implDeclaration) variant(name, uri string, kind functions.VariantKind) (*functions.Variant, error) {
	arguments := make([]functions.Argument, len(impl.Args))
	for i, arg := range impl.Args {
		switch {
		case arg.Value != "":
			t, err := types.Decode(arg.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't decode type of argument %d", i)
			}
			arguments[i] = functions.NewValueArgument(arg.Name, t)
		case arg.Type != "":
			arguments[i] = functions.NewTypeArgument(arg.Name)
		case len(arg.Options) > 0:
			arguments[i] = functions.NewEnumArgument(arg.Name, arg.Required, arg.Options...)
		default:
			return nil, errors.Wrapf(ErrInvalidDeclaration, "argument %d is neither a value, a type, nor an enum", i)
		}
	}

	returnLine := lastLine(impl.Return)
	if returnLine == "" {
		return nil, errors.Wrap(ErrInvalidDeclaration, "missing return type")
	}
	returnType, err := types.Decode(returnLine)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't decode return type")
	}

	variant := &functions.Variant{
		Name:      name,
		URI:       uri,
		Kind:      kind,
		Arguments: arguments,
		Return:    returnType,
	}
	if kind == functions.VariantKindAggregate && impl.Intermediate != "" {
		intermediate, err := types.Decode(impl.Intermediate)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't decode intermediate type")
		}
		variant.Intermediate = &intermediate
	}
	return variant, nil
}

// stripVersionDirective drops a %YAML directive preceding the document.
// Published extension files declare YAML 1.2, which the decoder refuses.
func stripVersionDirective(data []byte) []byte {
	rest := data
	for len(rest) > 0 {
		line := rest
		var next []byte
		if i := bytes.IndexByte(rest, '\n'); i != -1 {
			line, next = rest[:i], rest[i+1:]
		}
		trimmed := bytes.TrimSpace(line)
		switch {
		case len(trimmed) == 0, trimmed[0] == '#':
			rest = next
		case bytes.HasPrefix(trimmed, []byte("%YAML")):
			return append(append([]byte(nil), data[:len(data)-len(rest)]...), next...)
		default:
			return data
		}
	}
	return data
}

// lastLine returns the last non-empty line. Multi-line return declarations
// compute the output type step by step and end with the type itself.
func lastLine(program string) string {
	lines := strings.Split(program, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// Load parses the given extension files and merges them into one catalog.
func Load(paths ...string) (*functions.Catalog, error) {
	catalog := functions.NewCatalog(nil, nil)
	for _, filePath := range paths {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't read extension file %s", filePath)
		}
		fileCatalog, err := Parse(URIFor(filePath), data)
		if err != nil {
			return nil, err
		}
		catalog = catalog.Merge(fileCatalog)
	}
	return catalog, nil
}

// LoadDefault loads the standard extensions embedded in the binary.
func LoadDefault() (*functions.Catalog, error) {
	entries, err := fs.ReadDir(defaultExtensions, "yaml")
	if err != nil {
		return nil, errors.Wrap(err, "couldn't list embedded extensions")
	}
	catalog := functions.NewCatalog(nil, nil)
	for _, entry := range entries {
		data, err := defaultExtensions.ReadFile(path.Join("yaml", entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't read embedded extension %s", entry.Name())
		}
		fileCatalog, err := Parse(URIFor(entry.Name()), data)
		if err != nil {
			return nil, err
		}
		catalog = catalog.Merge(fileCatalog)
	}
	return catalog, nil
}

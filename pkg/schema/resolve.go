package schema

import (
	"fmt"

	"github.com/blockberries/autodrive/pkg/ctypes"
)

// builtinScalarSizes is the fixed scalar table seeded into the type table
// before any user declaration is resolved. Sizes are in bytes; "void" is a
// zero-width scalar. Verbatim from the built-in table this domain's schema
// never needs to (and must not) redeclare.
var builtinScalarSizes = map[string]int{
	"void": 0,

	"char":          1,
	"signed char":   1,
	"unsigned char": 1,

	"short":          2,
	"signed short":   2,
	"unsigned short": 2,

	"int":          4,
	"signed int":   4,
	"unsigned int": 4,

	"long":               8,
	"signed long":        8,
	"unsigned long":      8,
	"signed long long":   8,
	"unsigned long long": 8,

	"float":  4,
	"double": 8,
}

// Function describes one resolved callable exposed by the schema.
type Function struct {
	Name          string
	ReturnType    ctypes.Value
	ParameterType []ctypes.Value
}

// Tables holds the immutable, fully-resolved output of schema ingest:
// the named type table and the function descriptor list, plus the two
// sizing parameters the wire codec needs.
type Tables struct {
	Types                    map[string]ctypes.Value
	Functions                []Function
	DecisionBitsPerIteration int
	ChainingVariablesSize    int
}

// Resolve builds a Tables from a parsed Root document, running the
// multi-pass fixed-point resolution algorithm over the declared types and
// then resolving every function's return and parameter types through the
// result. It accumulates every problem it finds into a single SchemaError
// rather than stopping at the first one.
func Resolve(root *Root) (*Tables, error) {
	r := &resolver{
		root:     root,
		resolved: make(map[string]ctypes.Value, len(builtinScalarSizes)+len(root.Types)+1),
		pending:  make(map[string]*TypeDecl, len(root.Types)),
	}
	return r.resolve()
}

type resolver struct {
	root     *Root
	resolved map[string]ctypes.Value
	pending  map[string]*TypeDecl
}

func (r *resolver) resolve() (*Tables, error) {
	var errs SchemaError

	for name, size := range builtinScalarSizes {
		r.resolved[name] = &ctypes.Scalar{Content: make([]byte, size)}
	}
	r.resolved["function_pointer"] = ctypes.FunctionPointer{}

	for i := range r.root.Types {
		decl := &r.root.Types[i]
		if _, isBuiltin := r.resolved[decl.Name]; isBuiltin {
			errs.Add(fmt.Errorf("schema: declared type %q collides with a built-in name", decl.Name))
			continue
		}
		r.pending[decl.Name] = decl
	}

	for len(r.pending) > 0 {
		progressed := false
		for name, decl := range r.pending {
			v, err := r.tryResolveDecl(decl)
			if err != nil {
				errs.Add(err)
				delete(r.pending, name)
				progressed = true
				continue
			}
			if v == nil {
				continue // still blocked on an unresolved dependency
			}
			r.resolved[name] = v
			delete(r.pending, name)
			progressed = true
		}
		if !progressed {
			for name := range r.pending {
				errs.Add(fmt.Errorf("%w: %s", ErrUnresolvableSchema, name))
			}
			break
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	functions := make([]Function, 0, len(r.root.Functions))
	for _, fd := range r.root.Functions {
		fn, err := r.resolveFunction(fd)
		if err != nil {
			errs.Add(err)
			continue
		}
		functions = append(functions, fn)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	return &Tables{
		Types:                    r.resolved,
		Functions:                functions,
		DecisionBitsPerIteration: r.root.DecisionBitsPerIteration,
		ChainingVariablesSize:    r.root.MinimalInitChainingVariablesSize,
	}, nil
}

// tryResolveDecl attempts to build decl's Value from the currently resolved
// table. It returns (nil, nil) when resolution is blocked on a dependency
// that hasn't resolved yet, so the caller can defer to a later pass.
func (r *resolver) tryResolveDecl(decl *TypeDecl) (ctypes.Value, error) {
	switch decl.Kind {
	case "struct":
		fields, err := r.tryResolveFields(decl.Fields)
		if err != nil || fields == nil {
			return nil, err
		}
		return &ctypes.Struct{Fields: fields}, nil

	case "union":
		fields, err := r.tryResolveFields(decl.Fields)
		if err != nil || fields == nil {
			return nil, err
		}
		return &ctypes.Union{Variant: 0, Fields: fields}, nil

	case "enum":
		return &ctypes.Enum{Variant: 0}, nil

	case "typedef":
		if decl.Underlying == nil {
			return nil, fmt.Errorf("schema: typedef %q has no underlying type", decl.Name)
		}
		inner, err := r.tryResolveRef(*decl.Underlying)
		if err != nil || inner == nil {
			return nil, err
		}
		return &ctypes.Typedef{Inner: inner}, nil

	case "function_pointer":
		return ctypes.FunctionPointer{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTypeDiscriminator, decl.Kind)
	}
}

// tryResolveFields resolves an ordered list of field references, returning
// (nil, nil) if any field is still blocked.
func (r *resolver) tryResolveFields(refs []TypeRef) ([]ctypes.Value, error) {
	out := make([]ctypes.Value, len(refs))
	for i, ref := range refs {
		v, err := r.tryResolveRef(ref)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		out[i] = v
	}
	return out, nil
}

// tryResolveRef resolves a single field reference: a bare name, an inline
// array shape, or an inline pointer shape. Returns (nil, nil) when blocked
// on an unresolved named dependency.
func (r *resolver) tryResolveRef(ref TypeRef) (ctypes.Value, error) {
	switch {
	case ref.IsName():
		v, ok := r.resolved[ref.Name]
		if !ok {
			if _, pending := r.pending[ref.Name]; !pending {
				return nil, fmt.Errorf("%w: %q", ErrUndeclaredType, ref.Name)
			}
			return nil, nil // still pending, try again next pass
		}
		return v.Clone(), nil

	case ref.IsArray():
		elem, err := r.tryResolveRef(*ref.ArrayElement)
		if err != nil || elem == nil {
			return nil, err
		}
		elems := make([]ctypes.Value, ref.Length)
		for i := range elems {
			elems[i] = elem.Clone()
		}
		return &ctypes.Array{Elements: elems}, nil

	case ref.IsPointer():
		if ref.Pointee.IsName() {
			return &ctypes.Pointer{TargetTypeID: ref.Pointee.Name}, nil
		}
		inner, err := r.tryResolveRef(*ref.Pointee)
		if err != nil || inner == nil {
			return nil, err
		}
		return &ctypes.Pointer{Elements: []ctypes.Value{inner}}, nil

	default:
		return nil, fmt.Errorf("schema: type reference is neither a name, array, nor pointer")
	}
}

// resolveFunction resolves a function's return and parameter types through
// the fully-resolved type table, unwrapping typedefs at the outermost level
// (spec §4.3) and lowering opaque parameters to OpaquePointer regardless of
// their declared type.
func (r *resolver) resolveFunction(fd FuncDecl) (Function, error) {
	ret, err := r.lookupUnwrapped(fd.ReturnType.Type)
	if err != nil {
		return Function{}, fmt.Errorf("schema: function %q return type: %w", fd.Name, err)
	}

	params := make([]ctypes.Value, len(fd.Parameters))
	for i, p := range fd.Parameters {
		if p.Opaque {
			params[i] = ctypes.OpaquePointer{}
			continue
		}
		v, err := r.lookupUnwrapped(p.Type)
		if err != nil {
			return Function{}, fmt.Errorf("schema: function %q parameter %d: %w", fd.Name, i, err)
		}
		params[i] = v
	}

	return Function{Name: fd.Name, ReturnType: ret, ParameterType: params}, nil
}

// lookupUnwrapped resolves ref against the completed type table (no
// deferral: every name must already be resolved) and strips any leading
// chain of Typedef wrappers.
func (r *resolver) lookupUnwrapped(ref TypeRef) (ctypes.Value, error) {
	v, err := r.tryResolveRef(ref)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %q", ErrUndeclaredType, ref.Name)
	}
	for {
		td, ok := v.(*ctypes.Typedef)
		if !ok {
			return v, nil
		}
		v = td.Inner
	}
}

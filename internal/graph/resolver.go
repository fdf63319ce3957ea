package graph

import "github.com/dusk-indust/injectgraph/internal/source"

// Decorator names recognized on injection points, matched case-sensitively.
var (
	constructorMarkers = []string{"inject", "Inject"}
	propertyMarkers    = []string{"inject", "Inject", "injectable", "Injectable"}
)

// Resolver walks each class's injection points and emits dependency edges
// into an Assembler. It only reads the Index.
type Resolver struct {
	index *Index
	asm   *Assembler
}

// NewResolver returns a Resolver emitting into asm.
func NewResolver(index *Index, asm *Assembler) *Resolver {
	return &Resolver{index: index, asm: asm}
}

// Resolve emits the outgoing edges of every named class in project.
func (r *Resolver) Resolve(project *source.Project) {
	for _, unit := range project.Units {
		for i := range unit.Classes {
			r.ResolveClass(&unit.Classes[i])
		}
	}
}

// ResolveClass emits the outgoing edges of a single class. Classes without a
// name contribute nothing.
func (r *Resolver) ResolveClass(cls *source.ClassDecl) {
	if cls.Name == "" {
		return
	}
	for _, ctor := range cls.Constructors {
		for _, param := range ctor.Params {
			r.constructorParam(cls.Name, param)
		}
	}
	for _, prop := range cls.Properties {
		r.property(cls.Name, prop)
	}
}

func (r *Resolver) constructorParam(className string, param source.Param) {
	candidate := param.Type.Name
	if m, ok := source.FindMarker(param.Markers, constructorMarkers...); ok {
		candidate = r.override(m, candidate)
	}
	if candidate == "" || candidate == className {
		return
	}

	// The kind comes from the declared type, not from an override; an
	// interface-typed parameter fans out over the implementers recorded
	// under the candidate name.
	if param.Type.Kind == source.DeclInterface {
		for _, impl := range r.index.Implementations(candidate) {
			if r.index.IsClass(impl) {
				r.asm.AddEdge(className, impl)
			}
		}
		return
	}
	if r.index.IsClass(candidate) {
		r.asm.AddEdge(className, candidate)
	}
}

// property mirrors constructorParam without interface fan-out.
func (r *Resolver) property(className string, prop source.Property) {
	m, ok := source.FindMarker(prop.Markers, propertyMarkers...)
	if !ok {
		return
	}
	candidate := r.override(m, prop.Type.Name)
	if candidate != "" && candidate != className && r.index.IsClass(candidate) {
		r.asm.AddEdge(className, candidate)
	}
}

// override returns the marker's first argument when it is a string literal
// naming a known class, and fallback otherwise.
func (r *Resolver) override(m source.Marker, fallback string) string {
	if len(m.Args) == 0 || !m.Args[0].StringLiteral {
		return fallback
	}
	if name := m.Args[0].Value(); r.index.IsClass(name) {
		return name
	}
	return fallback
}

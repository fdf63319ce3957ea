package source

// --- Enums ---

// DeclKind classifies the declaration a type reference resolves to.
type DeclKind string

const (
	DeclUnknown   DeclKind = "unknown"   // not declared anywhere in the project
	DeclClass     DeclKind = "class"     // class or abstract class
	DeclInterface DeclKind = "interface" // interface (wins over class on merge)
	DeclOther     DeclKind = "other"     // enum, non-reference type alias, namespace
)

// Language identifies the grammar used to parse a unit.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// --- Models ---

// Project is the parsed, read-only model of every source unit selected by a
// project's tsconfig. Units are ordered by repo-relative path.
type Project struct {
	Root     string `json:"root"`
	TSConfig string `json:"tsconfig"`
	Units    []Unit `json:"units"`
}

// Unit is one parsed source file.
type Unit struct {
	Path       string          `json:"path"`
	Language   Language        `json:"language"`
	LOC        int             `json:"loc"`
	HasErrors  bool            `json:"hasErrors"`
	Classes    []ClassDecl     `json:"classes"`
	Interfaces []InterfaceDecl `json:"interfaces"`
	Aliases    []TypeAliasDecl `json:"aliases,omitempty"`
	Others     []string        `json:"others,omitempty"` // enums and namespaces
	// ImportAliases maps the local name of a renamed import
	// (`import { Name as Local }`) to the imported name.
	ImportAliases map[string]string `json:"importAliases,omitempty"`
	Skipped       []SkippedDeclInfo `json:"skipped,omitempty"`
}

// ClassDecl is a class declaration as consumed by the extractor. Name is empty
// for anonymous default-exported classes.
type ClassDecl struct {
	Name         string        `json:"name"`
	Abstract     bool          `json:"abstract,omitempty"`
	Implements   []string      `json:"implements,omitempty"`
	Constructors []Constructor `json:"constructors,omitempty"`
	Properties   []Property    `json:"properties,omitempty"`
	StartLine    int           `json:"startLine"`
	EndLine      int           `json:"endLine"`
}

// InterfaceDecl is only used as a key for kind checks.
type InterfaceDecl struct {
	Name      string `json:"name"`
	StartLine int    `json:"startLine"`
}

// TypeAliasDecl records `type Name = Target`. Target is the named symbol of
// the aliased type, empty when the alias is not a plain type reference.
type TypeAliasDecl struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
}

// SkippedDeclInfo notes a declaration dropped because its syntax tree
// contained errors.
type SkippedDeclInfo struct {
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

// Constructor holds the parameters of one constructor implementation.
type Constructor struct {
	Params []Param `json:"params"`
}

// Param is a constructor parameter.
type Param struct {
	Name    string   `json:"name"`
	Type    TypeRef  `json:"type"`
	Markers []Marker `json:"markers,omitempty"`
}

// Property is a class field.
type Property struct {
	Name    string   `json:"name"`
	Type    TypeRef  `json:"type"`
	Markers []Marker `json:"markers,omitempty"`
}

// TypeRef is a declared type reduced to its named symbol. Name is empty for
// primitives and anonymous types. Kind is filled in by the provider after
// every unit of the project has been parsed.
type TypeRef struct {
	Name string   `json:"name,omitempty"`
	Kind DeclKind `json:"kind"`
}

// Marker is a decorator attached to a parameter or property.
type Marker struct {
	Name string     `json:"name"`
	Args []Argument `json:"args,omitempty"`
}

// Argument is one decorator argument.
type Argument struct {
	Text          string `json:"text"`
	StringLiteral bool   `json:"stringLiteral"`
}

// Value returns the argument text with surrounding quote characters removed.
func (a Argument) Value() string {
	t := a.Text
	if len(t) >= 2 {
		first, last := t[0], t[len(t)-1]
		if (first == '\'' || first == '"' || first == '`') && first == last {
			return t[1 : len(t)-1]
		}
	}
	return t
}

// FindMarker returns the first marker whose name is one of names, matched
// exactly.
func FindMarker(markers []Marker, names ...string) (Marker, bool) {
	for _, m := range markers {
		for _, n := range names {
			if m.Name == n {
				return m, true
			}
		}
	}
	return Marker{}, false
}

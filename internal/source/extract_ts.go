package source

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsExtractor fills a Unit from the top-level statements of a TypeScript
// program. Only top-level declarations (optionally wrapped in export or
// declare) are visited; classes nested in namespaces or functions are not
// part of the model.
type tsExtractor struct {
	source []byte
	unit   *Unit
}

func (e *tsExtractor) program(root *tree_sitter.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		e.statement(child)
	}
}

func (e *tsExtractor) statement(node *tree_sitter.Node) {
	switch node.Kind() {
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			e.statement(decl)
			return
		}
		// export default class { ... }
		if value := node.ChildByFieldName("value"); value != nil && value.Kind() == "class" {
			e.class(value)
		}

	case "import_statement":
		e.importAliases(node)

	case "ambient_declaration":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if child := node.NamedChild(i); child != nil {
				e.statement(child)
			}
		}

	case "class_declaration", "abstract_class_declaration":
		e.class(node)

	case "interface_declaration":
		if node.HasError() {
			e.skip("interface", node)
			return
		}
		if name := e.fieldText(node, "name"); name != "" {
			e.unit.Interfaces = append(e.unit.Interfaces, InterfaceDecl{
				Name:      name,
				StartLine: startLine(node),
			})
		}

	case "type_alias_declaration":
		name := e.fieldText(node, "name")
		if name == "" || node.HasError() {
			return
		}
		e.unit.Aliases = append(e.unit.Aliases, TypeAliasDecl{
			Name:   name,
			Target: e.symbolName(node.ChildByFieldName("value")),
		})

	case "expression_statement":
		// A top-level `namespace X {}` can parse as an expression.
		if child := node.NamedChild(0); child != nil && child.Kind() == "internal_module" {
			e.statement(child)
		}

	case "enum_declaration", "internal_module", "module":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && nameNode.Kind() == "identifier" {
			e.unit.Others = append(e.unit.Others, nameNode.Utf8Text(e.source))
		}
	}
}

// importAliases records every `Name as Local` specifier below node.
func (e *tsExtractor) importAliases(node *tree_sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() != "import_specifier" {
			e.importAliases(child)
			continue
		}
		name, alias := child.ChildByFieldName("name"), child.ChildByFieldName("alias")
		if name == nil || alias == nil || name.Kind() != "identifier" {
			continue
		}
		if e.unit.ImportAliases == nil {
			e.unit.ImportAliases = make(map[string]string)
		}
		e.unit.ImportAliases[alias.Utf8Text(e.source)] = name.Utf8Text(e.source)
	}
}

func (e *tsExtractor) class(node *tree_sitter.Node) {
	if node.HasError() {
		e.skip("class", node)
		return
	}

	decl := ClassDecl{
		Name:      e.fieldText(node, "name"),
		Abstract:  node.Kind() == "abstract_class_declaration",
		StartLine: startLine(node),
		EndLine:   int(node.EndPosition().Row) + 1,
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == "class_heritage" {
			decl.Implements = e.implements(child)
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		e.classBody(body, &decl)
	}

	e.unit.Classes = append(e.unit.Classes, decl)
}

// implements returns the interface names of the implements clause in clause
// order, reduced to their rightmost identifier with type arguments dropped.
func (e *tsExtractor) implements(heritage *tree_sitter.Node) []string {
	var names []string
	for i := uint(0); i < heritage.NamedChildCount(); i++ {
		clause := heritage.NamedChild(i)
		if clause == nil || clause.Kind() != "implements_clause" {
			continue
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			if name := e.symbolName(clause.NamedChild(j)); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func (e *tsExtractor) classBody(body *tree_sitter.Node, decl *ClassDecl) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "method_definition":
			if e.fieldText(member, "name") != "constructor" {
				continue
			}
			// Only the implementation carries a body; overload signatures
			// parse as method_signature and are ignored.
			params := member.ChildByFieldName("parameters")
			if params == nil {
				continue
			}
			decl.Constructors = append(decl.Constructors, Constructor{Params: e.params(params)})

		case "public_field_definition":
			decl.Properties = append(decl.Properties, Property{
				Name:    e.fieldText(member, "name"),
				Type:    e.annotation(member.ChildByFieldName("type")),
				Markers: e.markers(member),
			})
		}
	}
}

func (e *tsExtractor) params(list *tree_sitter.Node) []Param {
	var params []Param
	for i := uint(0); i < list.NamedChildCount(); i++ {
		p := list.NamedChild(i)
		if p == nil {
			continue
		}
		if p.Kind() != "required_parameter" && p.Kind() != "optional_parameter" {
			continue
		}
		var name string
		if pattern := p.ChildByFieldName("pattern"); pattern != nil {
			name = pattern.Utf8Text(e.source)
		}
		params = append(params, Param{
			Name:    name,
			Type:    e.annotation(p.ChildByFieldName("type")),
			Markers: e.markers(p),
		})
	}
	return params
}

// annotation reduces a type_annotation node (": T") to a TypeRef whose kind
// is resolved later against the whole project.
func (e *tsExtractor) annotation(node *tree_sitter.Node) TypeRef {
	ref := TypeRef{Kind: DeclUnknown}
	if node == nil {
		return ref
	}
	if node.Kind() == "type_annotation" {
		node = node.NamedChild(0)
	}
	ref.Name = e.symbolName(node)
	return ref
}

// symbolName returns the named symbol a type node refers to, or "" for
// primitives, literals, unions, arrays and other anonymous types.
func (e *tsExtractor) symbolName(node *tree_sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "type_identifier", "identifier":
		return node.Utf8Text(e.source)
	case "nested_type_identifier", "member_expression":
		for _, field := range []string{"name", "property"} {
			if n := node.ChildByFieldName(field); n != nil {
				return n.Utf8Text(e.source)
			}
		}
	case "generic_type":
		return e.symbolName(node.ChildByFieldName("name"))
	case "parenthesized_type":
		return e.symbolName(node.NamedChild(0))
	case "expression_with_type_arguments":
		return e.symbolName(node.NamedChild(0))
	}
	return ""
}

// markers collects the decorators attached directly to node.
func (e *tsExtractor) markers(node *tree_sitter.Node) []Marker {
	var markers []Marker
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		if m, ok := e.marker(child); ok {
			markers = append(markers, m)
		}
	}
	return markers
}

func (e *tsExtractor) marker(decorator *tree_sitter.Node) (Marker, bool) {
	expr := decorator.NamedChild(0)
	if expr == nil {
		return Marker{}, false
	}

	var args *tree_sitter.Node
	if expr.Kind() == "call_expression" {
		args = expr.ChildByFieldName("arguments")
		expr = expr.ChildByFieldName("function")
		if expr == nil {
			return Marker{}, false
		}
	}

	name := e.symbolName(expr)
	if name == "" {
		return Marker{}, false
	}

	m := Marker{Name: name}
	if args != nil {
		for i := uint(0); i < args.NamedChildCount(); i++ {
			arg := args.NamedChild(i)
			if arg == nil || arg.Kind() == "comment" {
				continue
			}
			m.Args = append(m.Args, Argument{
				Text:          arg.Utf8Text(e.source),
				StringLiteral: arg.Kind() == "string",
			})
		}
	}
	return m, true
}

func (e *tsExtractor) skip(kind string, node *tree_sitter.Node) {
	e.unit.Skipped = append(e.unit.Skipped, SkippedDeclInfo{Kind: kind, Line: startLine(node)})
}

func (e *tsExtractor) fieldText(node *tree_sitter.Node, field string) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return n.Utf8Text(e.source)
}

func startLine(node *tree_sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

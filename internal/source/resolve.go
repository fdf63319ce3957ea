package source

// maxAliasHops bounds alias chains such as `type A = B; type B = A`.
const maxAliasHops = 16

// declTable is the project-wide view of declared names used to resolve type
// references. Names are global: two declarations sharing a name in different
// files are treated as one.
type declTable struct {
	classes    map[string]bool
	interfaces map[string]bool
	others     map[string]bool
	aliases    map[string]string
}

func newDeclTable(project *Project) *declTable {
	t := &declTable{
		classes:    make(map[string]bool),
		interfaces: make(map[string]bool),
		others:     make(map[string]bool),
		aliases:    make(map[string]string),
	}
	for _, u := range project.Units {
		for _, c := range u.Classes {
			if c.Name != "" {
				t.classes[c.Name] = true
			}
		}
		for _, i := range u.Interfaces {
			t.interfaces[i.Name] = true
		}
		for _, a := range u.Aliases {
			t.aliases[a.Name] = a.Target
		}
		for _, o := range u.Others {
			t.others[o] = true
		}
	}
	return t
}

// resolve follows type aliases to the named symbol they stand for and
// classifies it. An alias to an anonymous type yields an empty name.
func (t *declTable) resolve(name string) TypeRef {
	for hops := 0; name != "" && hops < maxAliasHops; hops++ {
		switch {
		case t.interfaces[name]:
			return TypeRef{Name: name, Kind: DeclInterface}
		case t.classes[name]:
			return TypeRef{Name: name, Kind: DeclClass}
		}
		target, ok := t.aliases[name]
		if !ok {
			break
		}
		if target == "" {
			return TypeRef{Kind: DeclOther}
		}
		name = target
	}
	if name != "" && (t.others[name] || t.aliases[name] != "") {
		return TypeRef{Name: name, Kind: DeclOther}
	}
	return TypeRef{Name: name, Kind: DeclUnknown}
}

// ResolveTypes fills in the Kind of every parameter and property type in
// project, and canonicalizes renamed imports and alias names to the symbol
// they refer to. It must run after every unit has been parsed.
func ResolveTypes(project *Project) {
	table := newDeclTable(project)
	for ui := range project.Units {
		imports := project.Units[ui].ImportAliases
		resolve := func(name string) TypeRef {
			if imported, ok := imports[name]; ok {
				name = imported
			}
			return table.resolve(name)
		}
		classes := project.Units[ui].Classes
		for ci := range classes {
			cls := &classes[ci]
			for k := range cls.Constructors {
				params := cls.Constructors[k].Params
				for pi := range params {
					params[pi].Type = resolve(params[pi].Type.Name)
				}
			}
			for pi := range cls.Properties {
				cls.Properties[pi].Type = resolve(cls.Properties[pi].Type.Name)
			}
		}
	}
}

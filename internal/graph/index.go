package graph

import "github.com/dusk-indust/injectgraph/internal/source"

// Index is the result of the declaration pass: every named class in the
// project and, per interface, the classes that implement it in discovery
// order. It is read-only once built.
type Index struct {
	classes         map[string]bool
	implementations map[string][]string
}

// BuildIndex scans every unit of project, in unit order then declaration
// order. It must complete before Resolve runs, since an implementer may be
// declared in a later unit than the class injecting its interface.
func BuildIndex(project *source.Project) *Index {
	idx := &Index{
		classes:         make(map[string]bool),
		implementations: make(map[string][]string),
	}
	for _, unit := range project.Units {
		for _, cls := range unit.Classes {
			if cls.Name == "" {
				continue
			}
			idx.classes[cls.Name] = true
			for _, iface := range cls.Implements {
				idx.implementations[iface] = append(idx.implementations[iface], cls.Name)
			}
		}
	}
	return idx
}

// IsClass reports whether name is a known concrete class.
func (i *Index) IsClass(name string) bool {
	return i.classes[name]
}

// Implementations returns the implementers of iface, duplicates included.
func (i *Index) Implementations(iface string) []string {
	return i.implementations[iface]
}

// ClassCount returns the number of distinct class names.
func (i *Index) ClassCount() int {
	return len(i.classes)
}

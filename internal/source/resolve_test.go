package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTypes(t *testing.T) {
	project := &Project{Units: []Unit{
		{
			Path:       "a.ts",
			Interfaces: []InterfaceDecl{{Name: "Channel"}, {Name: "Merged"}},
			Aliases: []TypeAliasDecl{
				{Name: "Transport", Target: "Channel"},
				{Name: "Outer", Target: "Transport"},
				{Name: "Callback"},
				{Name: "Loop", Target: "Loop2"},
				{Name: "Loop2", Target: "Loop"},
			},
			Others: []string{"Color"},
			Classes: []ClassDecl{
				{Name: "Merged"},
				{Name: "Db"},
				{
					Name: "Svc",
					Constructors: []Constructor{{Params: []Param{
						{Name: "a", Type: TypeRef{Name: "Db"}},
						{Name: "b", Type: TypeRef{Name: "Channel"}},
						{Name: "c", Type: TypeRef{Name: "Outer"}},
						{Name: "d", Type: TypeRef{Name: "Merged"}},
						{Name: "e", Type: TypeRef{Name: "Color"}},
						{Name: "f", Type: TypeRef{Name: "Callback"}},
						{Name: "g", Type: TypeRef{Name: "External"}},
						{Name: "h", Type: TypeRef{}},
						{Name: "i", Type: TypeRef{Name: "Loop"}},
					}}},
					Properties: []Property{{Name: "p", Type: TypeRef{Name: "Transport"}}},
				},
			},
		},
	}}

	ResolveTypes(project)

	svc := project.Units[0].Classes[2]
	got := make([]TypeRef, 0, len(svc.Constructors[0].Params))
	for _, p := range svc.Constructors[0].Params {
		got = append(got, p.Type)
	}
	assert.Equal(t, []TypeRef{
		{Name: "Db", Kind: DeclClass},
		{Name: "Channel", Kind: DeclInterface},
		{Name: "Channel", Kind: DeclInterface},
		{Name: "Merged", Kind: DeclInterface},
		{Name: "Color", Kind: DeclOther},
		{Kind: DeclOther},
		{Name: "External", Kind: DeclUnknown},
		{Kind: DeclUnknown},
		{Name: "Loop", Kind: DeclOther},
	}, got)
	assert.Equal(t, TypeRef{Name: "Channel", Kind: DeclInterface}, svc.Properties[0].Type)
}

func TestResolveTypes_RenamedImports(t *testing.T) {
	project := &Project{Units: []Unit{
		{
			Path:    "db.ts",
			Classes: []ClassDecl{{Name: "DatabaseService"}},
			Aliases: []TypeAliasDecl{{Name: "Conn", Target: "DatabaseService"}},
		},
		{
			Path:          "user.ts",
			ImportAliases: map[string]string{"Db": "DatabaseService", "C": "Conn"},
			Classes: []ClassDecl{{
				Name: "UserService",
				Constructors: []Constructor{{Params: []Param{
					{Name: "db", Type: TypeRef{Name: "Db"}},
					{Name: "c", Type: TypeRef{Name: "C"}},
				}}},
				Properties: []Property{{Name: "p", Type: TypeRef{Name: "Db"}}},
			}},
		},
		{
			// The rename is local to the unit that imports it.
			Path: "other.ts",
			Classes: []ClassDecl{{
				Name:         "Other",
				Constructors: []Constructor{{Params: []Param{{Name: "db", Type: TypeRef{Name: "Db"}}}}},
			}},
		},
	}}

	ResolveTypes(project)

	user := project.Units[1].Classes[0]
	want := TypeRef{Name: "DatabaseService", Kind: DeclClass}
	assert.Equal(t, want, user.Constructors[0].Params[0].Type)
	assert.Equal(t, want, user.Constructors[0].Params[1].Type)
	assert.Equal(t, want, user.Properties[0].Type)

	other := project.Units[2].Classes[0]
	assert.Equal(t, TypeRef{Name: "Db", Kind: DeclUnknown}, other.Constructors[0].Params[0].Type)
}

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// findClass returns the first ClassDecl whose Name matches, or nil.
func findClass(classes []ClassDecl, name string) *ClassDecl {
	for i := range classes {
		if classes[i].Name == name {
			return &classes[i]
		}
	}
	return nil
}

// parseTS parses src as a TypeScript file and fails the test on error.
func parseTS(t *testing.T, src string) *Unit {
	t.Helper()
	p := NewTreeSitterParser()
	t.Cleanup(func() { _ = p.Close() })

	unit, err := p.Parse(context.Background(), "src/test.ts", []byte(src), LangTypeScript)
	require.NoError(t, err)
	require.NotNil(t, unit)
	return unit
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestTreeSitterParser_ConstructorParams(t *testing.T) {
	unit := parseTS(t, `
import { Inject } from './di';

export class Notifier {
  constructor(
    private channel: Channel,
    @Inject('SmsChannel') readonly alt: Channel,
    public name?: string,
  ) {}
}
`)

	assert.Equal(t, "src/test.ts", unit.Path)
	assert.Equal(t, LangTypeScript, unit.Language)
	assert.False(t, unit.HasErrors)
	require.Len(t, unit.Classes, 1)

	cls := unit.Classes[0]
	assert.Equal(t, "Notifier", cls.Name)
	assert.False(t, cls.Abstract)
	assert.Greater(t, cls.StartLine, 0)
	assert.LessOrEqual(t, cls.StartLine, cls.EndLine)
	require.Len(t, cls.Constructors, 1)

	params := cls.Constructors[0].Params
	require.Len(t, params, 3)

	assert.Equal(t, TypeRef{Name: "Channel", Kind: DeclUnknown}, params[0].Type)
	assert.Empty(t, params[0].Markers)

	assert.Equal(t, "Channel", params[1].Type.Name)
	require.Len(t, params[1].Markers, 1)
	assert.Equal(t, "Inject", params[1].Markers[0].Name)
	require.Len(t, params[1].Markers[0].Args, 1)
	assert.True(t, params[1].Markers[0].Args[0].StringLiteral)
	assert.Equal(t, "SmsChannel", params[1].Markers[0].Args[0].Value())

	assert.Empty(t, params[2].Type.Name, "primitive types have no symbol")
}

func TestTreeSitterParser_TypeShapes(t *testing.T) {
	unit := parseTS(t, `
class Holder {
  constructor(
    repo: Repository<User>,
    cfg: config.AppConfig,
    list: User[],
    either: User | Admin,
    fn: () => void,
    plain,
  ) {}
}
`)
	require.Len(t, unit.Classes, 1)
	require.Len(t, unit.Classes[0].Constructors, 1)
	params := unit.Classes[0].Constructors[0].Params
	require.Len(t, params, 6)

	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Type.Name)
	}
	assert.Equal(t, []string{"Repository", "AppConfig", "", "", "", ""}, names)
}

func TestTreeSitterParser_Properties(t *testing.T) {
	unit := parseTS(t, `
export class Worker {
  @Inject() private logger: Logger;
  @Injectable private cache: Cache;
  @Inject(TOKEN) sink: Sink;
  count: number = 0;
}
`)
	require.Len(t, unit.Classes, 1)
	props := unit.Classes[0].Properties
	require.Len(t, props, 4)

	assert.Equal(t, "logger", props[0].Name)
	assert.Equal(t, "Logger", props[0].Type.Name)
	require.Len(t, props[0].Markers, 1)
	assert.Equal(t, "Inject", props[0].Markers[0].Name)
	assert.Empty(t, props[0].Markers[0].Args)

	require.Len(t, props[1].Markers, 1)
	assert.Equal(t, "Injectable", props[1].Markers[0].Name)

	require.Len(t, props[2].Markers, 1)
	require.Len(t, props[2].Markers[0].Args, 1)
	assert.False(t, props[2].Markers[0].Args[0].StringLiteral, "identifier argument")
	assert.Equal(t, "TOKEN", props[2].Markers[0].Args[0].Text)

	assert.Empty(t, props[3].Markers)
	assert.Empty(t, props[3].Type.Name)
}

func TestTreeSitterParser_Declarations(t *testing.T) {
	unit := parseTS(t, `
export interface Channel { send(msg: string): void; }
interface Store<T> { get(): T; }

export abstract class Base implements Channel {}
class Multi extends Base implements Channel, Store<string>, ns.Remote {}
declare class External {}

type Alias = Channel;
type Fn = () => void;
enum Color { Red, Green }

function helper(): void {}
const VALUE = 1;
`)

	assert.False(t, unit.HasErrors)

	var ifaces []string
	for _, i := range unit.Interfaces {
		ifaces = append(ifaces, i.Name)
	}
	assert.Equal(t, []string{"Channel", "Store"}, ifaces)

	base := findClass(unit.Classes, "Base")
	require.NotNil(t, base)
	assert.True(t, base.Abstract)
	assert.Equal(t, []string{"Channel"}, base.Implements)

	multi := findClass(unit.Classes, "Multi")
	require.NotNil(t, multi)
	assert.Equal(t, []string{"Channel", "Store", "Remote"}, multi.Implements)

	assert.NotNil(t, findClass(unit.Classes, "External"), "ambient classes are declarations too")
	assert.Len(t, unit.Classes, 3)

	assert.Equal(t, []TypeAliasDecl{{Name: "Alias", Target: "Channel"}, {Name: "Fn"}}, unit.Aliases)
	assert.Contains(t, unit.Others, "Color")
}

func TestTreeSitterParser_NestedClassesIgnored(t *testing.T) {
	unit := parseTS(t, `
function factory() {
  class Inner { constructor(d: Dep) {} }
  return Inner;
}
`)
	assert.Empty(t, unit.Classes)
}

func TestTreeSitterParser_ImportAliases(t *testing.T) {
	unit := parseTS(t, `
import { DatabaseService as Db, Logger } from './services';
import type { Channel as Transport } from './channels';
import Default, { Audit as A } from './audit';
import * as di from './di';

export class UserService {
  constructor(private db: Db) {}
}
`)

	assert.Equal(t, map[string]string{
		"Db":        "DatabaseService",
		"Transport": "Channel",
		"A":         "Audit",
	}, unit.ImportAliases)
	cls := findClass(unit.Classes, "UserService")
	require.NotNil(t, cls)
	assert.Equal(t, "Db", cls.Constructors[0].Params[0].Type.Name, "renames are resolved after parsing")
}

func TestTreeSitterParser_SyntaxErrors(t *testing.T) {
	unit := parseTS(t, `
export class Good {
  constructor(private dep: Dep) {}
}

export class Broken {
  constructor(private db: DatabaseService {
}
`)

	assert.True(t, unit.HasErrors)
	good := findClass(unit.Classes, "Good")
	require.NotNil(t, good, "declarations before the error are kept")
	require.Len(t, good.Constructors, 1)
	assert.Equal(t, "Dep", good.Constructors[0].Params[0].Type.Name)
}

func TestTreeSitterParser_TSX(t *testing.T) {
	p := NewTreeSitterParser()
	defer p.Close()

	src := `
export class View {
  constructor(private store: Store) {}
  render() { return <div>{this.store}</div>; }
}
`
	unit, err := p.Parse(context.Background(), "src/view.tsx", []byte(src), LangTSX)
	require.NoError(t, err)
	assert.False(t, unit.HasErrors)
	view := findClass(unit.Classes, "View")
	require.NotNil(t, view)
	assert.Equal(t, "Store", view.Constructors[0].Params[0].Type.Name)
}

func TestTreeSitterParser_UnsupportedLanguage(t *testing.T) {
	p := NewTreeSitterParser()
	defer p.Close()

	_, err := p.Parse(context.Background(), "main.go", []byte("package main"), Language("go"))
	assert.Error(t, err)
}

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path string
		lang Language
		ok   bool
	}{
		{"src/app.ts", LangTypeScript, true},
		{"src/app.mts", LangTypeScript, true},
		{"src/app.cts", LangTypeScript, true},
		{"src/types.d.ts", LangTypeScript, true},
		{"src/View.TSX", LangTSX, true},
		{"src/app.js", "", false},
		{"README.md", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, ok := LanguageForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestCountLOC(t *testing.T) {
	assert.Equal(t, 0, countLOC(nil))
	assert.Equal(t, 1, countLOC([]byte("class A {}")))
	assert.Equal(t, 3, countLOC([]byte("a\nb\nc")))
}

func TestFindMarker(t *testing.T) {
	markers := []Marker{{Name: "Optional"}, {Name: "inject", Args: []Argument{{Text: `"X"`, StringLiteral: true}}}}

	m, ok := FindMarker(markers, "Inject", "inject")
	require.True(t, ok)
	assert.Equal(t, "X", m.Args[0].Value())

	_, ok = FindMarker(markers, "INJECT")
	assert.False(t, ok, "names match case-sensitively")
}

func TestArgumentValue(t *testing.T) {
	assert.Equal(t, "A", Argument{Text: "'A'"}.Value())
	assert.Equal(t, "A", Argument{Text: `"A"`}.Value())
	assert.Equal(t, "A", Argument{Text: "`A`"}.Value())
	assert.Equal(t, "'A\"", Argument{Text: "'A\""}.Value())
	assert.Equal(t, "A", Argument{Text: "A"}.Value())
	assert.Equal(t, "'", Argument{Text: "'"}.Value())
}

package lowering_test

import (
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/funvibe/aivi-core/internal/compiler"
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/lambdareg"
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/value"
)

// fixturePrograms maps a fixture case name to the typed-IR Def it exercises.
// A full surface-syntax fixture format is out of scope here (no parser in
// this core, §1 Non-goals); the txtar archive instead carries each case's
// expected-Value assertion as text, the same "multi-file archive with
// expected output" shape golang-tools' own txtar tests use for testscript
// fixtures.
var fixturePrograms = map[string]func() (*ir.Def, []*value.Value){
	"add_two_ints": func() (*ir.Def, []*value.Value) {
		def := &ir.Def{
			Name:        "fixture_add",
			Params:      []string{"a", "b"},
			ParamRefIDs: []int{1, 2},
			Body:        ir.NewBinOp("+", ir.NewLocalRef("a", 1), ir.NewLocalRef("b", 2)),
		}
		return def, []*value.Value{value.NewInt(7), value.NewInt(35)}
	},
	"if_then_else": func() (*ir.Def, []*value.Value) {
		def := &ir.Def{
			Name:        "fixture_if",
			Params:      []string{"x"},
			ParamRefIDs: []int{1},
			Body: ir.NewIf(
				ir.NewBinOp(">", ir.NewLocalRef("x", 1), ir.NewLitInt(0)),
				ir.NewLitString("positive"),
				ir.NewLitString("non-positive"),
			),
		}
		return def, []*value.Value{value.NewInt(-3)}
	},
}

// parseExpect reads the fixture's "expect" file, formatted as
// "<tag> <literal>" (e.g. "Int 42", "Text positive"), into a comparable
// Value.
func parseExpect(body string) *value.Value {
	fields := strings.SplitN(strings.TrimSpace(body), " ", 2)
	tag, rest := fields[0], ""
	if len(fields) > 1 {
		rest = fields[1]
	}
	switch tag {
	case "Int":
		n, _ := strconv.ParseInt(rest, 10, 64)
		return value.NewInt(n)
	case "Text":
		return value.NewText(rest)
	case "Bool":
		return value.NewBool(rest == "true")
	default:
		return value.NewError(value.TypeMismatch, "fixtures_test: unknown expect tag "+tag)
	}
}

func TestLoweringFixtures(t *testing.T) {
	archive := txtar.Parse([]byte(`
-- add_two_ints/expect --
Int 42
-- if_then_else/expect --
Text non-positive
`))

	files := map[string]string{}
	for _, f := range archive.Files {
		files[f.Name] = string(f.Data)
	}

	for name, build := range fixturePrograms {
		name, build := name, build
		t.Run(name, func(t *testing.T) {
			expectBody, ok := files[name+"/expect"]
			if !ok {
				t.Fatalf("fixture %s has no expect file in the archive", name)
			}
			want := parseExpect(expectBody)

			def, args := build()
			rt := runtime.New()
			symbol, err := compiler.Compile(def, rt, lambdareg.New())
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got := rt.CallDirect(symbol, args)
			if !rt.ValueEquals(got, want) {
				t.Fatalf("%s: got %+v, want %+v", name, got, want)
			}
		})
	}
}

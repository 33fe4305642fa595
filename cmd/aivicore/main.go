// Command aivicore is a small demonstration driver for the core: it
// compiles a fixed handful of typed-IR function bodies through
// internal/compiler, runs each against expected Values loaded from a txtar
// fixture archive (golang.org/x/tools/txtar — the same multi-file-archive
// format the rest of the module uses for test fixtures), and reports a
// pass/fail summary. With -aot it instead prints the AOT registration
// manifest (internal/aotmanifest) for the same programs as JSON.
//
// Grounded in the teacher's cmd/funxy: a thin main() selecting between a
// handful of CLI modes before handing off to the real pipeline machinery.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/tools/txtar"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/funvibe/aivi-core/internal/aotmanifest"
	"github.com/funvibe/aivi-core/internal/compiler"
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/lambdareg"
	"github.com/funvibe/aivi-core/internal/rtconfig"
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/value"
)

// demoProgram is one of the fixed typed-IR defs this binary can compile and
// run. There is no surface-syntax parser in this core (§1 Non-goals), so
// the programs themselves are built directly in Go; the txtar archive
// supplies each one's arguments and expected result as portable text.
type demoProgram struct {
	def  *ir.Def
	args func(raw string) []*value.Value
}

var demoPrograms = map[string]demoProgram{
	"add": {
		def: &ir.Def{
			Name:        "demo_add",
			Params:      []string{"a", "b"},
			ParamRefIDs: []int{1, 2},
			Body:        ir.NewBinOp("+", ir.NewLocalRef("a", 1), ir.NewLocalRef("b", 2)),
		},
		args: func(raw string) []*value.Value {
			parts := strings.Fields(raw)
			a, _ := strconv.ParseInt(parts[0], 10, 64)
			b, _ := strconv.ParseInt(parts[1], 10, 64)
			return []*value.Value{value.NewInt(a), value.NewInt(b)}
		},
	},
	"abs": {
		def: &ir.Def{
			Name:        "demo_abs",
			Params:      []string{"x"},
			ParamRefIDs: []int{1},
			Body: ir.NewIf(
				ir.NewBinOp("<", ir.NewLocalRef("x", 1), ir.NewLitInt(0)),
				ir.NewBinOp("-", ir.NewLitInt(0), ir.NewLocalRef("x", 1)),
				ir.NewLocalRef("x", 1),
			),
		},
		args: func(raw string) []*value.Value {
			n, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			return []*value.Value{value.NewInt(n)}
		},
	},
}

const defaultFixture = `
-- add --
args: 2 40
expect: Int 42
-- abs --
args: -7
expect: Int 7
`

func main() {
	fixturePath := flag.String("fixture", "", "path to a txtar fixture archive (default: built-in demo archive)")
	aotMode := flag.Bool("aot", false, "print the AOT registration manifest instead of running fixtures")
	maxDepth := flag.Int("max-call-depth", rtconfig.DefaultMaxCallDepth, "call-depth ceiling")
	flag.Parse()

	rtconfig.MaxCallDepth = *maxDepth

	archiveBytes := []byte(defaultFixture)
	if *fixturePath != "" {
		data, err := os.ReadFile(*fixturePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "aivicore: %v\n", err)
			os.Exit(1)
		}
		archiveBytes = data
	}
	archive := txtar.Parse(archiveBytes)

	rt := runtime.New()
	defs := make([]*ir.Def, 0, len(archive.Files))
	for _, f := range archive.Files {
		prog, ok := demoPrograms[f.Name]
		if !ok {
			fmt.Fprintf(os.Stderr, "aivicore: no demo program named %q\n", f.Name)
			os.Exit(1)
		}
		defs = append(defs, prog.def)
	}
	lambdas := lambdareg.New()
	if err := compiler.CompileAll(defs, rt, lambdas); err != nil {
		fmt.Fprintf(os.Stderr, "aivicore: compile error: %v\n", err)
		os.Exit(1)
	}

	if *aotMode {
		printManifest(rt, defs)
		return
	}

	failed := runFixtures(rt, archive)
	if failed > 0 {
		os.Exit(1)
	}
}

func runFixtures(rt *runtime.Context, archive *txtar.Archive) int {
	failed := 0
	for _, f := range archive.Files {
		prog := demoPrograms[f.Name]
		argsLine, expectLine := parseCase(string(f.Data))
		args := prog.args(argsLine)
		got := rt.CallDirect(prog.def.Name, args)
		want := parseExpect(expectLine)
		if rt.ValueEquals(got, want) {
			fmt.Printf("PASS %s\n", f.Name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s: got %s, want %s\n", f.Name, renderValue(got), renderValue(want))
	}
	return failed
}

func parseCase(body string) (args, expect string) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "args:"):
			args = strings.TrimSpace(strings.TrimPrefix(line, "args:"))
		case strings.HasPrefix(line, "expect:"):
			expect = strings.TrimSpace(strings.TrimPrefix(line, "expect:"))
		}
	}
	return args, expect
}

func parseExpect(s string) *value.Value {
	fields := strings.SplitN(s, " ", 2)
	tag := fields[0]
	rest := ""
	if len(fields) > 1 {
		rest = fields[1]
	}
	switch tag {
	case "Int":
		n, _ := strconv.ParseInt(rest, 10, 64)
		return value.NewInt(n)
	case "Bool":
		return value.NewBool(rest == "true")
	case "Text":
		return value.NewText(rest)
	default:
		return value.NewError(value.TypeMismatch, "aivicore: unknown expect tag "+tag)
	}
}

func renderValue(v *value.Value) string {
	switch v.Tag {
	case value.Int:
		return fmt.Sprintf("Int %d", v.I)
	case value.Bool:
		return fmt.Sprintf("Bool %t", v.B)
	case value.Text:
		return fmt.Sprintf("Text %s", v.S)
	case value.Error:
		return fmt.Sprintf("Error %s: %s", v.Err.Kind, v.Err.Message)
	default:
		return fmt.Sprintf("<tag %v>", v.Tag)
	}
}

func printManifest(rt *runtime.Context, defs []*ir.Def) {
	m := aotmanifest.Manifest{}
	for _, def := range defs {
		entry, ok := rt.LookupJITFn(def.Name)
		if !ok {
			continue
		}
		m.Entries = append(m.Entries, aotmanifest.FromFuncEntry(def.Name, entry))
	}
	s, err := m.ToStruct()
	if err != nil {
		fmt.Fprintf(os.Stderr, "aivicore: encoding manifest: %v\n", err)
		os.Exit(1)
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aivicore: marshaling manifest: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

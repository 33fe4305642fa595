// Package pipeline runs a compiled function's body through the Function
// Compiler's fixed stage sequence (§4.5): use-analysis, prologue, lowering,
// epilogue, finalize, install. Adapted from the teacher's own
// Pipeline/Processor pair, which drove the language's
// lex-parse-analyze-evaluate stages the same way: a short ordered list of
// independent Processors threaded through one shared context value.
package pipeline

import (
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/lambdareg"
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/ssa"
	"github.com/funvibe/aivi-core/internal/useanalysis"
)

// CompileContext is the value every Processor reads from and writes back
// into; it carries one function definition through the whole pipeline.
type CompileContext struct {
	Def *ir.Def

	RT      *runtime.Context
	Lambdas *lambdareg.Registry

	UseResult *useanalysis.Result

	Builder *ssa.Builder

	// Locals maps a RefID (an ir.Def parameter's entry in ParamRefIDs, or a
	// LocalRef/PVar RefID) to the ssa register currently holding its value.
	Locals map[int]ssa.Reg

	// LocalNames maps a currently-in-scope binding name to its RefID, so a
	// Lambda node's free-variable names (recorded by name in the
	// compiled-lambda registry) can be resolved back to the register
	// holding each one at the lambda's capture site.
	LocalNames map[string]int

	Errors []error
}

// Processor is one pipeline stage. It must not assume anything about the
// stages run before or after it beyond what CompileContext documents.
type Processor interface {
	Process(ctx *CompileContext) *CompileContext
}

// Pipeline is an ordered sequence of Processors.
type Pipeline struct {
	stages []Processor
}

// New builds a Pipeline that runs stages in order.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run drives ctx through every stage, continuing even after a stage
// appends to ctx.Errors — later stages (e.g. finalize) still need to run
// so the compiler can report every diagnostic from one pass rather than
// stopping at the first.
func (p *Pipeline) Run(ctx *CompileContext) *CompileContext {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}

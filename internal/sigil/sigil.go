// Package sigil implements eval_sigil (§4.1), the runtime helper that
// resolves domain-specific literal tags embedded in the typed IR (§3.3
// "sigil literals"). Each tag routes to a handler; unknown tags surface an
// Error Value rather than panicking, consistent with §7's error model.
package sigil

import (
	"fmt"

	"github.com/funvibe/aivi-core/internal/value"
	"gopkg.in/yaml.v3"
)

// Handler decodes a sigil body (plus its flags string, §A.3) into a Value.
type Handler func(body string, flags string) *value.Value

// Registry maps sigil tags to handlers. The zero value accepts Register
// calls but has no handlers; NewRegistry returns one with the built-in
// "yaml" tag installed.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a Registry with the built-in handlers installed.
func NewRegistry() *Registry {
	r := &Registry{handlers: map[string]Handler{}}
	r.Register("yaml", evalYAML)
	return r
}

// Register installs or overrides the handler for tag.
func (r *Registry) Register(tag string, h Handler) {
	if r.handlers == nil {
		r.handlers = map[string]Handler{}
	}
	r.handlers[tag] = h
}

// Eval is the eval_sigil C-ABI entry point (§4.1).
func (r *Registry) Eval(tag, body, flags string) *value.Value {
	h, ok := r.handlers[tag]
	if !ok {
		return value.NewError(value.TypeMismatch, fmt.Sprintf("no sigil handler registered for tag %q", tag))
	}
	return h(body, flags)
}

// evalYAML decodes a `yaml"..."` sigil body into nested Record/List/scalar
// Values, mirroring the teacher's lib/yaml decode path in
// internal/evaluator/builtins_yaml.go (which targets the teacher's own
// Object tree rather than this core's Value tree).
func evalYAML(body string, _ string) *value.Value {
	var data any
	if err := yaml.Unmarshal([]byte(body), &data); err != nil {
		return value.NewError(value.TypeMismatch, fmt.Sprintf("yaml sigil: %v", err))
	}
	v, err := fromYAML(data)
	if err != nil {
		return value.NewError(value.TypeMismatch, fmt.Sprintf("yaml sigil: %v", err))
	}
	return v
}

func fromYAML(data any) (*value.Value, error) {
	switch v := data.(type) {
	case nil:
		return value.NewUnit(), nil
	case bool:
		return value.NewBool(v), nil
	case int:
		return value.NewInt(int64(v)), nil
	case int64:
		return value.NewInt(v), nil
	case float64:
		if v == float64(int64(v)) {
			return value.NewInt(int64(v)), nil
		}
		return value.NewFloat(v), nil
	case string:
		return value.NewText(v), nil
	case []any:
		items := make([]*value.Value, len(v))
		for i, item := range v {
			elem, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			items[i] = elem
		}
		return value.NewList(items), nil
	case map[string]any:
		fields := make([]value.RecordField, 0, len(v))
		for k, val := range v {
			elem, err := fromYAML(val)
			if err != nil {
				return nil, err
			}
			fields = append(fields, value.RecordField{Name: k, Value: elem})
		}
		return value.NewRecord(fields), nil
	case map[any]any:
		fields := make([]value.RecordField, 0, len(v))
		for k, val := range v {
			elem, err := fromYAML(val)
			if err != nil {
				return nil, err
			}
			fields = append(fields, value.RecordField{Name: fmt.Sprintf("%v", k), Value: elem})
		}
		return value.NewRecord(fields), nil
	default:
		return nil, fmt.Errorf("unsupported yaml value type: %T", data)
	}
}

package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// HandlerFunc executes one command against its raw JSON payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (interface{}, error)

// Registry maps command names to handlers.
type Registry struct {
	handlers map[string]HandlerFunc
}

func newRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

func (r *Registry) register(name string, fn HandlerFunc) {
	r.handlers[name] = fn
}

// Invoke runs the named command. An unknown name is an error the caller
// can report back over the wire.
func (r *Registry) Invoke(ctx context.Context, name string, payload json.RawMessage) (interface{}, error) {
	fn, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	return fn(ctx, payload)
}

// Commands lists every registered command name, sorted.
func (r *Registry) Commands() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// decodeInto parses the payload into dst. A missing payload is treated as
// an empty object so commands without arguments stay callable.
func decodeInto(payload json.RawMessage, dst interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

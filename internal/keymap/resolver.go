package keymap

// Binding contexts.
const (
	ContextGlobal   = "global"
	ContextPlayback = "playback"
	ContextPrompt   = "prompt"
)

// Resolver maps key strings to actions, scoped by binding context.
type Resolver struct {
	scopes map[string]map[string]Action // context -> key -> action
	order  []string
}

// NewResolver creates a resolver from bindings. A key bound twice in the
// same context keeps its first action.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{scopes: make(map[string]map[string]Action)}
	for _, b := range bindings {
		scope, ok := r.scopes[b.Context]
		if !ok {
			scope = make(map[string]Action)
			r.scopes[b.Context] = scope
			r.order = append(r.order, b.Context)
		}
		for _, k := range b.Keys {
			if _, taken := scope[k]; !taken {
				scope[k] = b.Action
			}
		}
	}
	return r
}

// Resolve returns the action bound to key in the first of contexts that
// binds it, or "" if none does. Without contexts every context is searched
// in binding order.
func (r *Resolver) Resolve(key string, contexts ...string) Action {
	if len(contexts) == 0 {
		contexts = r.order
	}
	for _, c := range contexts {
		if a, ok := r.scopes[c][key]; ok {
			return a
		}
	}
	return ""
}

// Active returns the contexts whose keys work in the given prompt state:
// rating keys while a rating is pending, playback keys otherwise.
func Active(awaitingRating bool) []string {
	if awaitingRating {
		return []string{ContextGlobal, ContextPrompt}
	}
	return []string{ContextGlobal, ContextPlayback}
}

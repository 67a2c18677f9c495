package container

// resolution is the call-local context of one top-level resolve: the ordered
// stack of contracts currently mid-construction. It exists only for the
// duration of one resolve call and is never shared between calls, so cycle
// detection cannot produce false positives across concurrent resolutions.
type resolution struct {
	stack  []string
	active map[string]bool
}

func newResolution() *resolution {
	return &resolution{
		active: make(map[string]bool),
	}
}

func (r *resolution) inProgress(key string) bool {
	return r.active[key]
}

func (r *resolution) push(key string) {
	r.stack = append(r.stack, key)
	r.active[key] = true
}

func (r *resolution) pop() {
	n := len(r.stack) - 1
	delete(r.active, r.stack[n])
	r.stack = r.stack[:n]
}

// cycle returns the ordered cycle walk for key: the stack from its first
// occurrence, closed by the repeated key itself.
func (r *resolution) cycle(key string) []string {
	start := 0
	for i, k := range r.stack {
		if k == key {
			start = i
			break
		}
	}

	chain := make([]string, 0, len(r.stack)-start+1)
	chain = append(chain, r.stack[start:]...)
	return append(chain, key)
}

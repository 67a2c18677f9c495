package lifetime

// Lifetime governs how instances of a contract are reused between resolves.
type Lifetime int

const (
	// Singleton yields one instance per root container.
	Singleton Lifetime = iota
	// Scoped yields one instance per scope.
	Scoped
	// Transient yields a new instance on every resolve.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

package ir

// Namespace enumerates the member namespaces a method can live in. Every
// class or interface gets one static-like container per namespace value
// (see hierarchy.StaticLikeNamespace); the ordinal doubles as the array
// index into that container.
type Namespace int

const (
	PublicStatic Namespace = iota
	PrivateStatic
	Constructor
	StaticConstructor
	PublicInstance
	PrivateInstance // interfaces only
	namespaceCount
)

// Count is the number of namespace slots every class/interface allocates,
// whether or not it uses all of them (e.g. non-interfaces never populate
// PrivateInstance, and the public-instance slot of a non-interface's
// static-like namespace is always empty — the owning Class holds those
// methods instead).
const Count = int(namespaceCount)

func (n Namespace) String() string {
	switch n {
	case PublicStatic:
		return "public-static"
	case PrivateStatic:
		return "private-static"
	case Constructor:
		return "constructor"
	case StaticConstructor:
		return "static-constructor"
	case PublicInstance:
		return "public-instance"
	case PrivateInstance:
		return "private-instance"
	default:
		return "namespace(?)"
	}
}

// Valid reports whether n is one of the representable namespace ordinals.
func (n Namespace) Valid() bool {
	return n >= PublicStatic && n < namespaceCount
}

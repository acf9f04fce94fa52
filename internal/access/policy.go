// Package access decides who may run an operation. It has two independent
// layers: Gate rejects protected operations when nobody is logged in, and
// RequireOwner rejects mutations of a dog by anyone but its owner.
package access

// Operation names a single API operation.
type Operation string

const (
	OpSignup          Operation = "signup"
	OpLogin           Operation = "login"
	OpLogout          Operation = "logout"
	OpCheckSession    Operation = "check_session"
	OpDeleteAccount   Operation = "delete_account"
	OpListBreeds      Operation = "list_breeds"
	OpListDogs        Operation = "list_dogs"
	OpListDogsByBreed Operation = "list_dogs_by_breed"
	OpCreateDog       Operation = "create_dog"
	OpGetDog          Operation = "get_dog"
	OpUpdateDog       Operation = "update_dog"
	OpDeleteDog       Operation = "delete_dog"
	OpDogFeed         Operation = "dog_feed"
	OpHealth          Operation = "health"
	OpMetrics         Operation = "metrics"
)

// Policy is the table of operations that may run without a session.
// Anything not listed requires one.
type Policy struct {
	public map[Operation]bool
}

func NewPolicy(public ...Operation) Policy {
	p := Policy{public: make(map[Operation]bool, len(public))}
	for _, op := range public {
		p.public[op] = true
	}
	return p
}

// DefaultPolicy keeps account entry points and read-only browsing open.
func DefaultPolicy() Policy {
	return NewPolicy(
		OpSignup,
		OpLogin,
		// Logout reports "already logged out" itself.
		OpLogout,
		OpCheckSession,
		OpListBreeds,
		OpListDogs,
		OpListDogsByBreed,
		OpDogFeed,
		OpHealth,
		OpMetrics,
	)
}

func (p Policy) IsPublic(op Operation) bool {
	return p.public[op]
}

package ring

import "errors"

var (
	// ErrInvalidReplicaCount is returned by NewRouter when the base replica
	// count is outside [MinReplicas, MaxReplicas].
	ErrInvalidReplicaCount = errors.New("base replica count out of range")
	// ErrInvalidWeight is returned when a host weight is outside [MinWeight, MaxWeight].
	ErrInvalidWeight = errors.New("host weight out of range")
	// ErrHostExists is returned when adding a name that is already registered.
	ErrHostExists = errors.New("host already registered")
	// ErrHostNotFound is returned when removing a name that is not registered.
	ErrHostNotFound = errors.New("host not registered")
	// ErrPlacementExhausted is returned when a host's replicas could not all be
	// placed on free positions within the attempt budget.
	ErrPlacementExhausted = errors.New("replica placement exhausted")
)

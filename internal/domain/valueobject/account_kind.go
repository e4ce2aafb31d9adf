package valueobject

import "fmt"

// AccountKind distinguishes the two remote account variants: employers get a
// provider customer (they pay), freelancers get a connected account (they are
// paid out to).
type AccountKind struct {
	value string
}

var (
	AccountKindEmployer   = AccountKind{"EMPLOYER"}
	AccountKindFreelancer = AccountKind{"FREELANCER"}
)

// ParseAccountKind converts a stored string into an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	switch s {
	case "EMPLOYER":
		return AccountKindEmployer, nil
	case "FREELANCER":
		return AccountKindFreelancer, nil
	default:
		return AccountKind{}, fmt.Errorf("unknown account kind: %q", s)
	}
}

// String returns the kind name.
func (k AccountKind) String() string {
	return k.value
}

// IsZero reports whether the kind is unset.
func (k AccountKind) IsZero() bool {
	return k.value == ""
}

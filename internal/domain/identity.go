package domain

// IdentityKind tags the result of resolving a request's credentials.
type IdentityKind int

const (
	IdentityAnonymous IdentityKind = iota
	IdentityOwner
	IdentityCustomer
)

// Identity is the single shape every downstream consumer sees, no matter
// which of the three onboarding schemes produced it. Name and Phone are
// set only for customers.
type Identity struct {
	Kind  IdentityKind
	Name  string
	Phone string
}

func Anonymous() Identity { return Identity{Kind: IdentityAnonymous} }
func Owner() Identity     { return Identity{Kind: IdentityOwner} }

func Customer(name, phone string) Identity {
	return Identity{Kind: IdentityCustomer, Name: name, Phone: phone}
}

func (i Identity) IsOwner() bool    { return i.Kind == IdentityOwner }
func (i Identity) IsCustomer() bool { return i.Kind == IdentityCustomer }

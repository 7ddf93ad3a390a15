package entity

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// User is the identity of whoever is viewing the marketplace.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role"`
}

func (u User) IsSeller() bool {
	return u.Role == RoleSeller
}

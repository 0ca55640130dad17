package types

import (
	"fmt"
	"strings"
)

// Role is the kind of payload a subject carries. The set is closed: every
// role has an entry in the role capability table.
type Role int

const (
	UndefinedRole = Role(iota)
	RoleBasic
	RoleTransform
	RoleAnimation
	EndOfRole
)

func Roles() []Role {
	return []Role{
		RoleBasic,
		RoleTransform,
		RoleAnimation,
	}
}

func (r Role) IsValid() bool {
	return r > UndefinedRole && r < EndOfRole
}

func (r Role) String() string {
	switch r {
	case UndefinedRole:
		return "<undefined>"
	case RoleBasic:
		return "basic"
	case RoleTransform:
		return "transform"
	case RoleAnimation:
		return "animation"
	default:
		return fmt.Sprintf("<unknown:%d>", int(r))
	}
}

func RoleFromString(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	return UndefinedRole, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := RoleFromString(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

package model

import (
	"fmt"
	"io"
	"strconv"
)

// Permission is a closed enumeration of access labels. Free-form strings
// invite silent typos between mutations, so anything outside this set is
// rejected at the boundary.
type Permission string

const (
	PermissionUser             Permission = "USER"
	PermissionAdmin            Permission = "ADMIN"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions lists every valid permission label.
var AllPermissions = []Permission{
	PermissionUser,
	PermissionAdmin,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

// IsValid reports whether p is one of the known labels.
func (p Permission) IsValid() bool {
	switch p {
	case PermissionUser, PermissionAdmin, PermissionItemCreate,
		PermissionItemUpdate, PermissionItemDelete, PermissionPermissionUpdate:
		return true
	}
	return false
}

func (p Permission) String() string {
	return string(p)
}

// UnmarshalGQL implements graphql.Unmarshaler.
func (p *Permission) UnmarshalGQL(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("permission must be a string")
	}
	*p = Permission(s)
	if !p.IsValid() {
		return fmt.Errorf("%s is not a valid Permission", s)
	}
	return nil
}

// MarshalGQL implements graphql.Marshaler.
func (p Permission) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(string(p)))
}

// PermissionList is a set of permission labels, serialized as JSON in
// the database.
type PermissionList []Permission

// Has reports whether the list contains the given label.
func (l PermissionList) Has(p Permission) bool {
	for _, have := range l {
		if have == p {
			return true
		}
	}
	return false
}

// Validate returns an error naming the first unknown label, if any.
func (l PermissionList) Validate() error {
	for _, p := range l {
		if !p.IsValid() {
			return fmt.Errorf("unknown permission %q", p)
		}
	}
	return nil
}

// DefaultPermissions is the permission set granted at signup.
func DefaultPermissions() PermissionList {
	return PermissionList{PermissionUser}
}

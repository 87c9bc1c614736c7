// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can moderate community content in every player-facing category
	RoleMod UserRole = "mod"

	// Dungeon master: runs campaigns and has access to the dm board
	RoleDM UserRole = "dm"

	// Default role for standard registered users
	RolePlayer UserRole = "player"
)

// AllRoles is the closed set of roles accepted at registration.
var AllRoles = []UserRole{RoleAdmin, RoleMod, RoleDM, RolePlayer}

// IsValid reports whether the role is a member of the closed enum.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMod, RoleDM, RolePlayer:
		return true
	}
	return false
}

// # Topic Categories

// Category is a post's topic partition, gating read/write access by role.
type Category string

const (
	// Readable by everyone, including anonymous visitors
	CategoryGeneral Category = "general"

	// Dungeon-master board: campaign prep, spoilers
	CategoryDM Category = "dm"

	// Player board
	CategoryPlayer Category = "player"

	// Moderation board
	CategoryMod Category = "mod"
)

// IsValid reports whether the category is a member of the closed enum.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryDM, CategoryPlayer, CategoryMod:
		return true
	}
	return false
}

// # Access Policy

// roleCategoryMap is the fixed role→allowed-categories table.
//
// An unknown role resolves to the empty set, so the policy denies by default.
var roleCategoryMap = map[UserRole][]Category{
	RoleAdmin:  {CategoryGeneral, CategoryDM, CategoryPlayer, CategoryMod},
	RoleMod:    {CategoryGeneral, CategoryDM, CategoryPlayer},
	RoleDM:     {CategoryGeneral, CategoryDM},
	RolePlayer: {CategoryGeneral, CategoryPlayer},
}

// CanAccess reports whether the role may read/write posts in the category.
func (r UserRole) CanAccess(category Category) bool {
	for _, allowed := range roleCategoryMap[r] {
		if allowed == category {
			return true
		}
	}
	return false
}

// IsElevated reports whether the role carries moderation privileges
// (admin or mod).
func (r UserRole) IsElevated() bool {
	return r == RoleAdmin || r == RoleMod
}

// # Deletion Policy

// CanDelete reports whether the authenticated claims may delete a resource
// authored by authorID.
//
// The rule is author-or-elevated: the author may always delete their own
// posts and comments, and admin/mod may delete anything. It is deliberately
// orthogonal to the category map.
func CanDelete(claims *AuthClaims, authorID string) bool {
	if claims == nil {
		return false
	}
	if claims.UserID == authorID {
		return true
	}
	return UserRole(claims.Role).IsElevated()
}

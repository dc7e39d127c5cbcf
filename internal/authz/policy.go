package authz

// Pure authorization decisions. Callers perform the role lookups; nothing
// here touches storage.

// CanManagePermissions decides whether actingRole may set targetRole's
// assignment to newRole. Only admins and owners manage permissions, and an
// owner's assignment can only be touched by another owner. The new role is
// otherwise unconstrained: an admin may grant owner.
func CanManagePermissions(actingRole, targetExistingRole, newRole Role) bool {
	if actingRole != RoleAdmin && actingRole != RoleOwner {
		return false
	}
	if targetExistingRole == RoleOwner && actingRole != RoleOwner {
		return false
	}
	_ = newRole
	return true
}

// CanCreateNote requires at least editor, and forbids tagging a note above
// the creator's own level.
func CanCreateNote(actingRole, accessLevel Role) bool {
	if Level(actingRole) < Level(RoleEditor) {
		return false
	}
	return Level(accessLevel) <= Level(actingRole)
}

// CanReadNote: owners of a note always see it; everyone else needs a ladder
// role at or above the note's access level.
func CanReadNote(actorID string, actingRole Role, noteOwnerID string, accessLevel Role) bool {
	if noteOwnerID == actorID {
		return true
	}
	return Level(actingRole) >= Level(accessLevel)
}

// CanDeleteNote: the note's owner, or anyone admin and above.
func CanDeleteNote(actorID string, actingRole Role, noteOwnerID string) bool {
	if noteOwnerID == actorID {
		return true
	}
	return Level(actingRole) >= Level(RoleAdmin)
}

// CanReadLocationHistory is evaluated against the stored role of the user
// whose records are being fetched, not the caller's.
func CanReadLocationHistory(ownerRole Role) bool {
	return ownerRole == RoleRelatives || ownerRole == RoleOwner
}

// Page identifies a dashboard page with a minimum-role gate.
type Page string

const (
	PageStats    Page = "stats"
	PageNotes    Page = "notes"
	PageSettings Page = "settings"
	PageSystem   Page = "system"
)

var pageGates = map[Page]Role{
	PageStats:    RoleViewer,
	PageNotes:    RoleEditor,
	PageSettings: RoleAdmin,
	PageSystem:   RoleOwner,
}

// CanAccessPage applies the minimum-role page gates. The system page is
// exact-match on owner; the rest accept any ladder role at or above the
// required level.
func CanAccessPage(role Role, page Page) bool {
	required, ok := pageGates[page]
	if !ok {
		return false
	}
	if required == RoleOwner {
		return role == RoleOwner
	}
	return Level(role) >= Level(required)
}

// KnownPage reports whether page has a gate defined.
func KnownPage(page Page) bool {
	_, ok := pageGates[page]
	return ok
}

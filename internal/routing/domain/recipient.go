package routing

// RoleSuperAdmin is the user role type that implies full host-group rights.
const RoleSuperAdmin = "3"

// permissionFloor is the host-group access level a right must exceed to count
// toward notification visibility.
const permissionFloor = 1

// User is a monitoring platform user as the routing pass needs it.
type User struct {
	ID       string
	Username string
	FullName string
	RoleType string
	GroupIDs []string
	// ActiveMedia maps media type id to send-to address for the user's
	// enabled notification media.
	ActiveMedia map[string]string
}

// UserGroup carries membership and host-group access rights.
type UserGroup struct {
	ID      string
	UserIDs []string
	// HostGroupRights maps host group id to permission level.
	HostGroupRights map[string]int
}

// Recipient is a user resolved as a notification target, annotated with
// rights and reachability. Instances attached to messages are copies so
// message-scoped flags never leak between messages.
type Recipient struct {
	UserID   string
	Username string
	FullName string
	RoleType string

	// Permissions holds the host group ids the user can see with rights
	// above the floor. Built once per user; shared read-only by copies.
	Permissions map[string]struct{}

	HasRight          bool
	Show              bool
	ReachableViaMedia bool

	activeMedia map[string]string
}

// SuperAdmin reports whether the recipient's role implies full rights.
func (r Recipient) SuperAdmin() bool {
	return r.RoleType == RoleSuperAdmin
}

// ApplyRights sets the has-right and show flags for one trigger: super admins
// always have the right, everyone else needs a permission on at least one of
// the trigger's host groups. showUnavailable forces recipients without the
// right to stay visible.
func (r *Recipient) ApplyRights(hostGroupIDs []string, showUnavailable bool) {
	r.HasRight = r.SuperAdmin()
	if !r.HasRight {
		for _, gid := range hostGroupIDs {
			if _, ok := r.Permissions[gid]; ok {
				r.HasRight = true
				break
			}
		}
	}
	r.Show = r.HasRight || showUnavailable
}

// RecipientIndex aggregates per-user permissions and expands message targets
// into recipient lists. It is request-scoped: built once per resolution pass
// from the pass's own snapshot.
type RecipientIndex struct {
	byUser       map[string]*Recipient
	groupMembers map[string][]string
	groupsByID   map[string]UserGroup
}

// NewRecipientIndex builds recipients for every known user with the
// permissions granted by their direct group memberships.
func NewRecipientIndex(users []User, groups []UserGroup) *RecipientIndex {
	idx := &RecipientIndex{
		byUser:       make(map[string]*Recipient, len(users)),
		groupMembers: make(map[string][]string, len(groups)),
		groupsByID:   make(map[string]UserGroup, len(groups)),
	}
	for _, group := range groups {
		idx.groupsByID[group.ID] = group
		idx.groupMembers[group.ID] = group.UserIDs
	}
	for _, user := range users {
		rec := &Recipient{
			UserID:      user.ID,
			Username:    user.Username,
			FullName:    user.FullName,
			RoleType:    user.RoleType,
			Permissions: make(map[string]struct{}),
			activeMedia: user.ActiveMedia,
		}
		for _, gid := range user.GroupIDs {
			idx.grantRights(rec, gid)
		}
		idx.byUser[user.ID] = rec
	}
	return idx
}

// GrantReachRights extends member permissions with the rights of the groups
// a message targets, so users reached through a group inherit that group's
// host-group access. Call once per pass with every targeted group id.
func (idx *RecipientIndex) GrantReachRights(groupIDs []string) {
	for _, gid := range groupIDs {
		group, ok := idx.groupsByID[gid]
		if !ok {
			continue
		}
		for _, uid := range group.UserIDs {
			if rec, ok := idx.byUser[uid]; ok {
				idx.grantRights(rec, gid)
			}
		}
	}
}

func (idx *RecipientIndex) grantRights(rec *Recipient, groupID string) {
	group, ok := idx.groupsByID[groupID]
	if !ok {
		return
	}
	for hostGroupID, permission := range group.HostGroupRights {
		if permission > permissionFloor {
			rec.Permissions[hostGroupID] = struct{}{}
		}
	}
}

// Resolve expands a message's user and group targets into recipient copies,
// deduplicated by user id with explicit user targets taking precedence, and
// flags each copy when the user has the message's media type enabled.
func (idx *RecipientIndex) Resolve(msg *Message) {
	userIDs := make([]string, 0, len(msg.UserIDs))
	userIDs = append(userIDs, msg.UserIDs...)
	for _, gid := range msg.GroupIDs {
		userIDs = append(userIDs, idx.groupMembers[gid]...)
	}

	seen := make(map[string]struct{}, len(userIDs))
	for _, uid := range userIDs {
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		rec, ok := idx.byUser[uid]
		if !ok {
			continue
		}
		copied := *rec
		if _, ok := rec.activeMedia[msg.MediaTypeID]; ok {
			copied.ReachableViaMedia = true
		}
		msg.Recipients = append(msg.Recipients, copied)
	}
}

// Package rbac implements the permission catalog and the authorization
// evaluator gating every protected route.
package rbac

// Permission names follow the resource:action convention. The set is closed
// in the current design; the schema allows administrative extension.
const (
	PermPostsRead    = "posts:read"
	PermPostsCreate  = "posts:create"
	PermPostsUpdate  = "posts:update"
	PermPostsDelete  = "posts:delete"
	PermPostsPublish = "posts:publish"

	PermCategoriesRead   = "categories:read"
	PermCategoriesCreate = "categories:create"
	PermCategoriesUpdate = "categories:update"
	PermCategoriesDelete = "categories:delete"

	PermTagsRead   = "tags:read"
	PermTagsCreate = "tags:create"
	PermTagsUpdate = "tags:update"
	PermTagsDelete = "tags:delete"

	PermUsersRead   = "users:read"
	PermUsersCreate = "users:create"
	PermUsersUpdate = "users:update"
	PermUsersDelete = "users:delete"
)

// Role slugs seeded by the migrations.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleWriter = "writer"
	RoleViewer = "viewer"
)

// AllPermissions lists every seeded permission.
var AllPermissions = []string{
	PermPostsRead, PermPostsCreate, PermPostsUpdate, PermPostsDelete, PermPostsPublish,
	PermCategoriesRead, PermCategoriesCreate, PermCategoriesUpdate, PermCategoriesDelete,
	PermTagsRead, PermTagsCreate, PermTagsUpdate, PermTagsDelete,
	PermUsersRead, PermUsersCreate, PermUsersUpdate, PermUsersDelete,
}

// SeedMatrix is the role→permission assignment created by the migrations:
// admin holds everything, editor the content set, writer creates and edits
// posts, viewer only reads.
var SeedMatrix = map[string][]string{
	RoleAdmin: AllPermissions,
	RoleEditor: {
		PermPostsRead, PermPostsCreate, PermPostsUpdate, PermPostsDelete, PermPostsPublish,
		PermCategoriesRead, PermCategoriesCreate, PermCategoriesUpdate, PermCategoriesDelete,
		PermTagsRead, PermTagsCreate, PermTagsUpdate, PermTagsDelete,
	},
	RoleWriter: {
		PermPostsRead, PermPostsCreate, PermPostsUpdate,
		PermCategoriesRead, PermTagsRead,
	},
	RoleViewer: {
		PermPostsRead, PermCategoriesRead, PermTagsRead,
	},
}

// DenyReason explains why authorization failed.
type DenyReason string

const (
	// ReasonPrincipalMissing: the request carried no resolved principal.
	ReasonPrincipalMissing DenyReason = "principal_missing"
	// ReasonNoSuchRole: the principal's role no longer exists.
	ReasonNoSuchRole DenyReason = "no_such_role"
	// ReasonPermissionNotGranted: the role does not hold the permission.
	ReasonPermissionNotGranted DenyReason = "permission_not_granted"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

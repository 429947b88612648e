package auth

// Permission constants define the actions a role can grant.
// A route is gated on exactly one of them.
const (
	// PermCreate allows creating records.
	PermCreate = "Create"
	// PermRead allows viewing a single record.
	PermRead = "Read"
	// PermUpdate allows editing records.
	PermUpdate = "Update"
	// PermDelete allows deleting records.
	PermDelete = "Delete"
	// PermList allows listing and exporting records.
	PermList = "List"
)

// AllPermissions returns the permission catalog in seed order.
func AllPermissions() []string {
	return []string{PermCreate, PermRead, PermUpdate, PermDelete, PermList}
}

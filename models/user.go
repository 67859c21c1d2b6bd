package models

// User roles.
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
)

// User is the minimal read-side view of a platform account the booking
// workflow needs: display identity for session titles and a delivery
// address for cancellation emails. Account management lives elsewhere.
type User struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Role  string `bson:"role" json:"role"`
}

package schema

// UserCollection represents the 'users' collection
type UserCollection struct {
	Collection string
	ID         string
	GivenName  string
	Email      string
	Avatar     string
	Bookmarked string
	History    string
	CreateAt   string
	UpdateAt   string
}

// User is the schema definition for users
var User = UserCollection{
	Collection: "users",
	ID:         FieldID,
	GivenName:  "given_name",
	Email:      "email",
	Avatar:     "avatar",
	Bookmarked: "bookmarked",
	History:    "history",
	CreateAt:   FieldCreateAt,
	UpdateAt:   FieldUpdateAt,
}

// Unique returns the fields that carry a unique index.
func (c UserCollection) Unique() []string {
	return []string{c.Email}
}

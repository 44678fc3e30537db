package schema

// CategoryCollection represents the 'categorys' collection
type CategoryCollection struct {
	Collection string
	ID         string
	Title      string
	Slug       string
	Tags       string
	Destroy    string
	CreateAt   string
	UpdateAt   string
}

// Category is the schema definition for categorys
var Category = CategoryCollection{
	Collection: "categorys",
	ID:         FieldID,
	Title:      "title",
	Slug:       "slug",
	Tags:       "tags",
	Destroy:    FieldDestroy,
	CreateAt:   FieldCreateAt,
	UpdateAt:   FieldUpdateAt,
}

// Indexed returns the fields that carry a non-unique index.
func (c CategoryCollection) Indexed() []string {
	return []string{c.Slug}
}

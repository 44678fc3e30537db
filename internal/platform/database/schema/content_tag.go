package schema

// TagCollection represents the 'tags' collection
type TagCollection struct {
	Collection      string
	ID              string
	Title           string
	Slug            string
	VietnameseTitle string
	Destroy         string
	CreateAt        string
	UpdateAt        string
}

// Tag is the schema definition for tags
var Tag = TagCollection{
	Collection:      "tags",
	ID:              FieldID,
	Title:           "title",
	Slug:            "slug",
	VietnameseTitle: "vietnameseTitle",
	Destroy:         FieldDestroy,
	CreateAt:        FieldCreateAt,
	UpdateAt:        FieldUpdateAt,
}

// Indexed returns the fields that carry a non-unique index.
func (c TagCollection) Indexed() []string {
	return []string{c.Slug}
}

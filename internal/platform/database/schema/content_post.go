package schema

// PostCollection represents the 'posts' collection
type PostCollection struct {
	Collection      string
	ID              string
	Title           string
	Description     string
	CategoryID      string
	TagID           string
	Thumbnail       string
	Detail          string
	Slug            string
	VietnameseTitle string
	Views           string
	Popular         string
	Destroy         string
	CreateAt        string
	UpdateAt        string

	// Join aliases produced by $lookup
	AsCategory string
	AsTags     string
}

// Post is the schema definition for posts
var Post = PostCollection{
	Collection:      "posts",
	ID:              FieldID,
	Title:           "title",
	Description:     "description",
	CategoryID:      "categoryId",
	TagID:           "tagId",
	Thumbnail:       "thumbnail",
	Detail:          "detail",
	Slug:            "slug",
	VietnameseTitle: "vietnameseTitle",
	Views:           "views",
	Popular:         "popular",
	Destroy:         FieldDestroy,
	CreateAt:        FieldCreateAt,
	UpdateAt:        FieldUpdateAt,

	AsCategory: "category",
	AsTags:     "tags",
}

// Indexed returns the fields that carry a non-unique index.
func (c PostCollection) Indexed() []string {
	return []string{c.Slug, c.CategoryID, c.TagID}
}

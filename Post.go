package poststore

import (
	"maps"
	"strconv"
	"strings"

	"github.com/gouniverse/dataobject"
	"github.com/gouniverse/utils"
)

func NewPost() *Post {
	o := &Post{}
	o.SetID(0).
		SetTitle("").
		SetDescription("").
		SetFullContent("").
		SetImageUrl(PLACEHOLDER_IMAGE_URL)

	return o
}

func NewPostFromExistingData(data map[string]string) *Post {
	o := &Post{}
	o.Hydrate(maps.Clone(data))
	return o
}

type Post struct {
	dataobject.DataObject
}

// ================================== METHODS ==================================

func (o *Post) Slug() string {
	return utils.StrSlugify(o.Title(), '-')
}

// HasTransientImage reports whether the image is a locally generated blob reference
// rather than a remote URL.
func (o *Post) HasTransientImage() bool {
	return strings.HasPrefix(o.ImageUrl(), TRANSIENT_IMAGE_PREFIX)
}

func (o *Post) clone() *Post {
	return NewPostFromExistingData(o.Data())
}

// ============================ SETTERS AND GETTERS ============================

func (o *Post) Description() string {
	return o.Get(COLUMN_DESCRIPTION)
}

func (o *Post) SetDescription(description string) *Post {
	o.Set(COLUMN_DESCRIPTION, description)
	return o
}

func (o *Post) FullContent() string {
	return o.Get(COLUMN_FULL_CONTENT)
}

func (o *Post) SetFullContent(fullContent string) *Post {
	o.Set(COLUMN_FULL_CONTENT, fullContent)
	return o
}

func (o *Post) ID() int {
	id, err := strconv.Atoi(o.Get(COLUMN_ID))
	if err != nil {
		return 0
	}
	return id
}

func (o *Post) SetID(id int) *Post {
	o.Set(COLUMN_ID, strconv.Itoa(id))
	return o
}

func (o *Post) ImageUrl() string {
	return o.Get(COLUMN_IMAGE_URL)
}

func (o *Post) SetImageUrl(imageURL string) *Post {
	o.Set(COLUMN_IMAGE_URL, imageURL)
	return o
}

func (o *Post) Title() string {
	return o.Get(COLUMN_TITLE)
}

func (o *Post) SetTitle(title string) *Post {
	o.Set(COLUMN_TITLE, title)
	return o
}

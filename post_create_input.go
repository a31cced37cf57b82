package poststore

import "strings"

// PostCreateInput carries the fields submitted for a new post.
// ImageData is optional; when empty the post gets the placeholder image.
type PostCreateInput struct {
	Title            string
	Description      string
	FullContent      string
	ImageData        []byte
	ImageContentType string
}

// Validate checks the required text fields. Whitespace-only values count as empty.
func (in PostCreateInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}

	if strings.TrimSpace(in.Description) == "" {
		return ErrDescriptionRequired
	}

	if strings.TrimSpace(in.FullContent) == "" {
		return ErrFullContentRequired
	}

	return nil
}

func (in PostCreateInput) HasImage() bool {
	return len(in.ImageData) > 0
}

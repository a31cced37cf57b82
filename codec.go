package poststore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gouniverse/utils"
	"github.com/samber/lo"
)

var errMalformedCollection = errors.New("malformed post collection")

// postRecord is the persisted shape of one post.
type postRecord struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl"`
	FullContent string `json:"fullContent"`
}

func encodePosts(posts []Post) (string, error) {
	records := lo.Map(posts, func(post Post, _ int) postRecord {
		return postRecord{
			ID:          post.ID(),
			Title:       post.Title(),
			Description: post.Description(),
			ImageUrl:    post.ImageUrl(),
			FullContent: post.FullContent(),
		}
	})

	return utils.ToJSON(records)
}

func decodePosts(value string) ([]Post, error) {
	var records []*postRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedCollection, err)
	}

	if records == nil {
		return nil, fmt.Errorf("%w: not an array", errMalformedCollection)
	}

	if lo.Contains(records, nil) {
		return nil, fmt.Errorf("%w: null entry", errMalformedCollection)
	}

	ids := lo.Map(records, func(r *postRecord, _ int) int { return r.ID })
	if len(lo.Uniq(ids)) != len(ids) {
		return nil, fmt.Errorf("%w: duplicate ids", errMalformedCollection)
	}

	// stored posts must satisfy the same rules as newly created ones
	for _, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("%w: invalid id %d", errMalformedCollection, r.ID)
		}

		input := PostCreateInput{Title: r.Title, Description: r.Description, FullContent: r.FullContent}
		if err := input.Validate(); err != nil {
			return nil, fmt.Errorf("%w: post %d: %w", errMalformedCollection, r.ID, err)
		}
	}

	posts := make([]Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, *NewPost().
			SetID(r.ID).
			SetTitle(r.Title).
			SetDescription(r.Description).
			SetImageUrl(r.ImageUrl).
			SetFullContent(r.FullContent))
	}

	return posts, nil
}

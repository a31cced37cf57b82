package poststore

import "context"

type StoreInterface interface {
	EnableDebug(debug bool) StoreInterface
	Initialize(ctx context.Context) []Post
	Persist(ctx context.Context) error

	PostCount() int
	PostCreate(ctx context.Context, input PostCreateInput) (*Post, error)
	PostDeleteByID(ctx context.Context, postID int) error
	PostFindByID(postID int) *Post
	PostList() []Post

	ExpandedState() ExpandedState
	ToggleExpanded(postID int) ExpandedState

	ReleaseAllTransientImages() int
	Teardown()

	ThemeGet(ctx context.Context) Theme
	ThemeSet(ctx context.Context, theme Theme) error
}

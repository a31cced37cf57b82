package poststore

// DefaultPosts returns the sample collection used when nothing usable is persisted.
// A fresh slice is built on every call so callers may mutate it.
func DefaultPosts() []Post {
	return []Post{
		*NewPost().
			SetID(1).
			SetTitle("Blog Post 1").
			SetDescription("This is the first blog post.").
			SetImageUrl("https://via.placeholder.com/400x200?text=Blog+Post+1").
			SetFullContent("This is the complete content for the first blog post"),
		*NewPost().
			SetID(2).
			SetTitle("Blog Post 2").
			SetDescription("This is the second blog post.").
			SetImageUrl("https://via.placeholder.com/400x200?text=Blog+Post+2").
			SetFullContent("This is the complete content for the second blog post"),
	}
}

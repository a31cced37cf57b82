package poststore

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

var _ StoreInterface = (*store)(nil) // verify it extends the interface

type store struct {
	storage      StorageInterface
	storageKey   string
	themeKey     string
	images       ImageRegistryInterface
	logger       *zap.Logger
	debugEnabled bool

	mu       sync.Mutex
	posts    []Post
	expanded ExpandedState
}

// EnableDebug - enables the debug option
func (st *store) EnableDebug(debug bool) StoreInterface {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.debugEnabled = debug
	return st
}

// Initialize loads the persisted collection, falling back to DefaultPosts when the
// slot is empty, unreadable or malformed. Transient images held by a previously
// loaded collection are released first.
func (st *store) Initialize(ctx context.Context) []Post {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.releaseTransientImages()
	st.expanded = ExpandedState{}
	st.posts = st.load(ctx)

	return st.list()
}

func (st *store) load(ctx context.Context) []Post {
	value, found, err := st.storage.Get(ctx, st.storageKey)
	if err != nil {
		st.logger.Warn("post store: reading persisted posts failed, using defaults",
			zap.String("key", st.storageKey), zap.Error(err))
		return DefaultPosts()
	}

	if !found {
		if st.debugEnabled {
			st.logger.Debug("post store: nothing persisted, using defaults", zap.String("key", st.storageKey))
		}
		return DefaultPosts()
	}

	posts, err := decodePosts(value)
	if err != nil {
		st.logger.Warn("post store: persisted posts are malformed, using defaults",
			zap.String("key", st.storageKey), zap.Error(err))
		return DefaultPosts()
	}

	return posts
}

func (st *store) Persist(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.persist(ctx)
}

func (st *store) persist(ctx context.Context) error {
	value, err := encodePosts(st.posts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if st.debugEnabled {
		st.logger.Debug("post store: persisting posts",
			zap.String("key", st.storageKey), zap.Int("count", len(st.posts)))
	}

	if err := st.storage.Set(ctx, st.storageKey, value); err != nil {
		st.logger.Error("post store: persisting posts failed", zap.String("key", st.storageKey), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}

func (st *store) PostCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.posts)
}

// PostCreate validates input, appends the new post and persists the collection.
// A persist failure is returned together with the created post; the post stays in
// the collection.
func (st *store) PostCreate(ctx context.Context, input PostCreateInput) (*Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	imageUrl := PLACEHOLDER_IMAGE_URL
	if input.HasImage() {
		ref, err := st.images.Create(input.ImageData, input.ImageContentType)
		if err != nil {
			return nil, err
		}
		imageUrl = ref
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	post := NewPost().
		SetID(st.nextID()).
		SetTitle(input.Title).
		SetDescription(input.Description).
		SetFullContent(input.FullContent).
		SetImageUrl(imageUrl)

	st.posts = append(st.posts, *post)

	if st.debugEnabled {
		st.logger.Debug("post store: post created", zap.Int("id", post.ID()), zap.Bool("transient_image", post.HasTransientImage()))
	}

	return post.clone(), st.persist(ctx)
}

// nextID is one above the highest id held, so ids never repeat among current posts.
func (st *store) nextID() int {
	ids := lo.Map(st.posts, func(post Post, _ int) int { return post.ID() })
	return lo.Max(ids) + 1
}

// PostDeleteByID removes the matching post and releases its transient image.
// Unknown ids are not an error. The collection is persisted either way.
func (st *store) PostDeleteByID(ctx context.Context, postID int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	post, index, found := lo.FindIndexOf(st.posts, func(post Post) bool {
		return post.ID() == postID
	})

	if found {
		st.posts = append(st.posts[:index:index], st.posts[index+1:]...)
		st.releaseImage(&post)

		if st.expanded.IsExpanded(postID) {
			st.expanded = ExpandedState{}
		}
	}

	if st.debugEnabled {
		st.logger.Debug("post store: post delete", zap.Int("id", postID), zap.Bool("found", found))
	}

	return st.persist(ctx)
}

func (st *store) PostFindByID(postID int) *Post {
	st.mu.Lock()
	defer st.mu.Unlock()

	post, found := lo.Find(st.posts, func(post Post) bool {
		return post.ID() == postID
	})

	if !found {
		return nil
	}

	return post.clone()
}

// PostList returns copies of the posts in insertion order.
func (st *store) PostList() []Post {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.list()
}

func (st *store) list() []Post {
	return lo.Map(st.posts, func(post Post, _ int) Post {
		return *post.clone()
	})
}

func (st *store) ExpandedState() ExpandedState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.expanded
}

// ToggleExpanded collapses postID if it is the expanded post, otherwise expands it
// in place of whatever was expanded before.
func (st *store) ToggleExpanded(postID int) ExpandedState {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.expanded = st.expanded.toggle(postID)
	return st.expanded
}

// ReleaseAllTransientImages revokes every transient image still held by a post and
// returns how many were released by this call.
func (st *store) ReleaseAllTransientImages() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.releaseTransientImages()
}

func (st *store) releaseTransientImages() int {
	released := 0
	for i := range st.posts {
		if st.releaseImage(&st.posts[i]) {
			released++
		}
	}
	return released
}

func (st *store) releaseImage(post *Post) bool {
	if !st.images.IsTransient(post.ImageUrl()) {
		return false
	}
	return st.images.Revoke(post.ImageUrl())
}

// Teardown releases outstanding transient images and clears the expanded state.
// Safe to call more than once.
func (st *store) Teardown() {
	st.mu.Lock()
	defer st.mu.Unlock()

	released := st.releaseTransientImages()
	st.expanded = ExpandedState{}

	if st.debugEnabled {
		st.logger.Debug("post store: teardown", zap.Int("released_images", released))
	}
}

// ThemeGet returns the persisted theme, THEME_SYSTEM when none or an unknown one is stored.
func (st *store) ThemeGet(ctx context.Context) Theme {
	st.mu.Lock()
	defer st.mu.Unlock()

	value, found, err := st.storage.Get(ctx, st.themeKey)
	if err != nil {
		st.logger.Warn("post store: reading theme failed", zap.String("key", st.themeKey), zap.Error(err))
		return THEME_SYSTEM
	}

	if !found {
		return THEME_SYSTEM
	}

	theme, err := ParseTheme(value)
	if err != nil {
		return THEME_SYSTEM
	}

	return theme
}

func (st *store) ThemeSet(ctx context.Context, theme Theme) error {
	if !theme.IsValid() {
		return ErrInvalidTheme
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.storage.Set(ctx, st.themeKey, theme.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}

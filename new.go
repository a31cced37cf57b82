package poststore

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// NewStoreOptions define the options for creating a new post store
type NewStoreOptions struct {
	Storage    StorageInterface
	StorageKey string
	ThemeKey   string
	Images     ImageRegistryInterface
	Logger     *zap.Logger

	// AutoInitialize loads the persisted collection inside NewStore.
	AutoInitialize bool
	DebugEnabled   bool
}

// NewStore creates a new post store
func NewStore(opts NewStoreOptions) (StoreInterface, error) {
	if opts.Storage == nil {
		return nil, errors.New("post store: Storage is required")
	}

	if opts.StorageKey == "" {
		opts.StorageKey = DEFAULT_STORAGE_KEY
	}

	if opts.ThemeKey == "" {
		opts.ThemeKey = DEFAULT_THEME_KEY
	}

	// case-insensitive filesystems would put both keys in one file
	if strings.EqualFold(opts.StorageKey, opts.ThemeKey) {
		return nil, errors.New("post store: StorageKey and ThemeKey must differ")
	}

	if opts.Images == nil {
		opts.Images = NewImageRegistry()
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	store := &store{
		storage:      opts.Storage,
		storageKey:   opts.StorageKey,
		themeKey:     opts.ThemeKey,
		images:       opts.Images,
		logger:       opts.Logger,
		debugEnabled: opts.DebugEnabled,
		posts:        []Post{},
	}

	if opts.AutoInitialize {
		store.Initialize(context.Background())
	}

	return store, nil
}

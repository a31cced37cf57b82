package poststore

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gouniverse/uid"
)

// ImageRegistryInterface hands out revocable references to image bytes held in memory.
type ImageRegistryInterface interface {
	Create(data []byte, contentType string) (string, error)
	IsTransient(ref string) bool
	Len() int
	Resolve(ref string) (data []byte, contentType string, ok bool)
	Revoke(ref string) bool
}

var _ ImageRegistryInterface = (*ImageRegistry)(nil)

type transientImage struct {
	data        []byte
	contentType string
}

type ImageRegistry struct {
	mu     sync.RWMutex
	images map[string]transientImage
}

func NewImageRegistry() *ImageRegistry {
	return &ImageRegistry{images: map[string]transientImage{}}
}

// Create stores a copy of data and returns a blob: reference to it.
// An empty contentType is sniffed from the data.
func (r *ImageRegistry) Create(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrImageDataEmpty
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := newTransientRef()
	for _, taken := r.images[ref]; taken; _, taken = r.images[ref] {
		ref = newTransientRef()
	}

	r.images[ref] = transientImage{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}

	return ref, nil
}

func newTransientRef() string {
	return TRANSIENT_IMAGE_PREFIX + "poststore/" + uid.HumanUid()
}

func (r *ImageRegistry) IsTransient(ref string) bool {
	return strings.HasPrefix(ref, TRANSIENT_IMAGE_PREFIX)
}

func (r *ImageRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.images)
}

func (r *ImageRegistry) Resolve(ref string) ([]byte, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[ref]
	if !ok {
		return nil, "", false
	}

	return img.data, img.contentType, true
}

// Revoke releases ref. It returns true only for the call that actually released it;
// unknown and already revoked refs return false.
func (r *ImageRegistry) Revoke(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[ref]; !ok {
		return false
	}

	delete(r.images, ref)
	return true
}

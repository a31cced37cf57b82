package poststore

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEncodePostsWireFormat(t *testing.T) {
	value, err := encodePosts(DefaultPosts()[:1])
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		t.Fatal("unexpected error:", err)
	}

	if len(raw) != 1 {
		t.Fatalf("encoded array MUST hold 1 post, found: %d", len(raw))
	}

	for _, key := range []string{"id", "title", "description", "imageUrl", "fullContent"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("encoded post MUST have key %q: %s", key, value)
		}
	}

	if id, ok := raw[0]["id"].(float64); !ok || id != 1 {
		t.Errorf("id MUST BE encoded as the number 1, found: %#v", raw[0]["id"])
	}
}

func TestEncodePostsEmpty(t *testing.T) {
	value, err := encodePosts([]Post{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	if value != "[]" {
		t.Errorf("empty collection MUST encode as [], found: %q", value)
	}
}

func TestDecodePostsKeepsOrder(t *testing.T) {
	posts, err := decodePosts(`[
		{"id":5,"title":"five","description":"d","imageUrl":"u","fullContent":"c"},
		{"id":2,"title":"two","description":"d","imageUrl":"u","fullContent":"c"}
	]`)

	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	if len(posts) != 2 || posts[0].ID() != 5 || posts[1].ID() != 2 {
		t.Errorf("decoded posts MUST keep stored order, found: %v", postData(posts))
	}
}

func TestDecodePostsMalformed(t *testing.T) {
	for _, value := range []string{
		"",
		"null",
		"{}",
		"[null]",
		`[{"id":1},{"id":1}]`,
		`[{"id":0},{"id":5,"title":""}]`,
		`[{"title":"t","description":"d","imageUrl":"u","fullContent":"c"}]`,
		`[{"id":-1,"title":"t","description":"d","imageUrl":"u","fullContent":"c"}]`,
		`[{"id":1,"title":"t","description":"  ","imageUrl":"u","fullContent":"c"}]`,
		`[{"id":1,"title":"t","description":"d","imageUrl":"u"}]`,
	} {
		if _, err := decodePosts(value); !errors.Is(err, errMalformedCollection) {
			t.Errorf("decodePosts(%q) error MUST wrap errMalformedCollection, found: %v", value, err)
		}
	}
}

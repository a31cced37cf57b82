package poststore

// ExpandedState tracks which single post, if any, shows its full content.
// The zero value means nothing is expanded.
type ExpandedState struct {
	PostID   int
	Expanded bool
}

func (s ExpandedState) IsExpanded(postID int) bool {
	return s.Expanded && s.PostID == postID
}

func (s ExpandedState) toggle(postID int) ExpandedState {
	if s.IsExpanded(postID) {
		return ExpandedState{}
	}
	return ExpandedState{PostID: postID, Expanded: true}
}

package schema

import "time"

// Commit is one commit along an ancestry path. Immutable once read;
// owned by the version-control backend and referenced by id.
type Commit struct {
	Hash    string    `json:"hash"`
	Parents []string  `json:"parents"`
	Time    time.Time `json:"time"`
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// FirstParent returns the first parent hash, or an empty string for a
// root commit.
func (c Commit) FirstParent() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// CommitPair is two chronologically adjacent commits along an ancestry
// path, ordered parent before child.
type CommitPair struct {
	Older Commit `json:"older"`
	Newer Commit `json:"newer"`
}

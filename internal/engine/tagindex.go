package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

// tagIndex tracks, per tag, which questions reference it. Tags are keyed by
// normalized name; equality is case-insensitive, display keeps the casing of
// first use. Guarded by the engine's state lock.
type tagIndex struct {
	tags map[string]*tagEntry
}

type tagEntry struct {
	display string
	members map[uint]struct{}
}

func newTagIndex() *tagIndex {
	return &tagIndex{tags: make(map[string]*tagEntry)}
}

func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// resolve turns raw tag names into Tag records ready for storage: trims,
// normalizes, drops same-call duplicates ("A" and "a" become one tag) and
// reuses known display names. It does not mutate the index.
func (ti *tagIndex) resolve(names []string, now time.Time) ([]models.Tag, error) {
	var (
		out  []models.Tag
		seen = make(map[string]struct{})
	)
	for _, name := range names {
		id := normalizeTag(name)
		if id == "" {
			return nil, &ValidationError{Message: "Tag cannot be empty."}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		display := strings.TrimSpace(name)
		if entry, ok := ti.tags[id]; ok {
			display = entry.display
		}
		out = append(out, models.Tag{ID: id, Name: display, CreatedAt: now})
	}
	if len(out) == 0 {
		return nil, &ValidationError{Message: "Tag cannot be empty."}
	}
	return out, nil
}

// ensure creates the tag's entry if unseen, with no members. Tags are never
// deleted, so hydration keeps zero-member tags visible.
func (ti *tagIndex) ensure(t models.Tag) {
	if _, ok := ti.tags[t.ID]; !ok {
		ti.tags[t.ID] = &tagEntry{display: t.Name, members: make(map[uint]struct{})}
	}
}

// attach records the question as a member of each tag, creating unseen tags.
// Membership is immutable afterwards; there is no detach.
func (ti *tagIndex) attach(questionID uint, tags []models.Tag) {
	for _, t := range tags {
		entry, ok := ti.tags[t.ID]
		if !ok {
			entry = &tagEntry{display: t.Name, members: make(map[uint]struct{})}
			ti.tags[t.ID] = entry
		}
		entry.members[questionID] = struct{}{}
	}
}

func (ti *tagIndex) has(id string, questionID uint) bool {
	entry, ok := ti.tags[id]
	if !ok {
		return false
	}
	_, member := entry.members[questionID]
	return member
}

func (ti *tagIndex) all() []TagView {
	out := make([]TagView, 0, len(ti.tags))
	for _, entry := range ti.tags {
		out = append(out, TagView{Name: entry.display, Count: len(entry.members)})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

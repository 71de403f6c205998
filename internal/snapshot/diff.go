package snapshot

import "github.com/lumipallolabs/reporter/internal/model"

// Diff classifies the differences between a previous and a current snapshot of the
// same root. A path present on both sides with any differing field is a single
// modification, never an addition plus a deletion. Nil snapshots are empty.
func Diff(previous, current *model.Snapshot) model.Changes {
	var additions, deletions, modifications []model.Change

	// Previous items attributed to an unchanged or modified file
	seen := make(map[string]bool, previous.Len())

	for _, item := range current.Items() {
		before, exists := previous.Lookup(item.Path)
		if !exists {
			additions = append(additions, model.NewAddition(item))
			continue
		}
		if before != item {
			modifications = append(modifications, model.NewModification(before, item))
		}
		seen[item.Path] = true
	}

	for _, item := range previous.Items() {
		if !seen[item.Path] {
			deletions = append(deletions, model.NewDeletion(item))
		}
	}

	changes := make([]model.Change, 0, len(additions)+len(deletions)+len(modifications))
	changes = append(changes, additions...)
	changes = append(changes, deletions...)
	changes = append(changes, modifications...)
	return model.NewChanges(changes)
}

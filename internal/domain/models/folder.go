package models

import (
	"time"
)

// Folder groups documents and other folders. The parent graph is a
// forest: moves that would introduce a cycle are rejected by the store.
type Folder struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ParentID     *string   `json:"parent_id"` // nil = root level
	DateCreated  time.Time `json:"date_created"`
	LastAccessed time.Time `json:"last_accessed"`
}

// FolderDeleteMode selects what happens to a deleted folder's contents.
type FolderDeleteMode string

const (
	// DeleteAllItems recursively deletes descendant folders and every
	// document inside the descendant closure.
	DeleteAllItems FolderDeleteMode = "delete_all_items"

	// MoveItemsToParent reparents the folder's direct children (documents
	// and folders) to the deleted folder's parent. Nested folders keep
	// their own contents.
	MoveItemsToParent FolderDeleteMode = "move_items_to_parent"
)

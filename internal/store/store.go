package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"papershelf/internal/config"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/domain/repositories"
)

// Store owns all documents and folders. Mutations are all-or-nothing:
// every operation validates fully before touching state, under a single
// writer lock so the folder cycle check never races with a concurrent
// ancestor move. Reads return copies, never internal pointers.
//
// Durability is delegated to an optional Persister invoked after each
// successful mutation, outside the lock. Persister failures are logged
// and never roll back in-memory state.
type Store struct {
	mu        sync.RWMutex
	documents map[string]*models.Document
	folders   map[string]*models.Folder

	persister repositories.Persister // nil = memory only
	logger    *slog.Logger
}

// New creates an empty store. persister may be nil.
func New(persister repositories.Persister, logger *slog.Logger) *Store {
	return &Store{
		documents: make(map[string]*models.Document),
		folders:   make(map[string]*models.Folder),
		persister: persister,
		logger:    logger,
	}
}

// Load replaces the in-memory state with the persisted snapshot.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	docs, folders, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = make(map[string]*models.Document, len(docs))
	for i := range docs {
		d := docs[i]
		s.documents[d.ID] = &d
	}
	s.folders = make(map[string]*models.Folder, len(folders))
	for i := range folders {
		f := folders[i]
		s.folders[f.ID] = &f
	}

	s.logger.Info("store loaded", "documents", len(docs), "folders", len(folders))
	return nil
}

// --- Documents ---

// CreateDocument inserts a new document. A missing id is assigned, the
// content is capped at the maximum length, and the document is appended
// at the end of its container's manual order.
func (s *Store) CreateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if strings.TrimSpace(doc.Title) == "" {
		return nil, domain.ErrEmptyInput
	}

	s.mu.Lock()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now()
	if doc.DateCreated.IsZero() {
		doc.DateCreated = now
	}
	doc.LastAccessed = now
	doc.Content = truncateContent(doc.Content)
	doc.SortOrder = s.nextSortOrderLocked(doc.FolderID)

	stored := cloneDocument(doc)
	s.documents[stored.ID] = stored
	saved := cloneDocument(stored)
	s.mu.Unlock()

	s.persistDocument(ctx, saved)
	return cloneDocument(saved), nil
}

// GetDocument returns a copy of the document, or ErrNotFound.
func (s *Store) GetDocument(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "document " + id + " not found"}
	}
	return cloneDocument(doc), nil
}

// TouchDocument records an open: lastAccessed moves, dateCreated does not.
func (s *Store) TouchDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "document " + id + " not found"}
	}
	doc.LastAccessed = time.Now()
	saved := cloneDocument(doc)
	s.mu.Unlock()

	s.persistDocument(ctx, saved)
	return nil
}

// UpdateDocumentContent replaces the plain-text content, capped on write.
func (s *Store) UpdateDocumentContent(ctx context.Context, id, content string) error {
	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "document " + id + " not found"}
	}
	doc.Content = truncateContent(content)
	saved := cloneDocument(doc)
	s.mu.Unlock()

	s.persistDocument(ctx, saved)
	return nil
}

// DocumentsIn returns the direct document children of a folder (nil =
// root), in manual sort order with creation-date-descending tiebreak.
func (s *Store) DocumentsIn(folderID *string) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []models.Document
	for _, doc := range s.documents {
		if sameContainer(doc.FolderID, folderID) {
			docs = append(docs, *cloneDocument(doc))
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].SortOrder != docs[j].SortOrder {
			return docs[i].SortOrder < docs[j].SortOrder
		}
		return docs[i].DateCreated.After(docs[j].DateCreated)
	})
	return docs
}

// MoveDocument reassigns a document's container. Documents cannot form
// cycles, so no hierarchy validation is needed beyond existence checks.
func (s *Store) MoveDocument(ctx context.Context, id string, toFolder *string) error {
	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "document " + id + " not found"}
	}
	if toFolder != nil {
		if _, ok := s.folders[*toFolder]; !ok {
			s.mu.Unlock()
			return &domain.NotFoundError{Message: "folder " + *toFolder + " not found"}
		}
	}
	doc.FolderID = toFolder
	doc.SortOrder = s.nextSortOrderLocked(toFolder)
	saved := cloneDocument(doc)
	s.mu.Unlock()

	s.persistDocument(ctx, saved)
	return nil
}

// RenameDocument replaces the base name while preserving the stored
// extension. Any extension in the supplied text is ignored: renaming
// "Report.pdf" to "Notes.docx" yields "Notes.pdf".
func (s *Store) RenameDocument(ctx context.Context, id, name string) (*models.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyInput
	}

	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return nil, &domain.NotFoundError{Message: "document " + id + " not found"}
	}

	newBase, _ := models.SplitTitle(name)
	newBase = strings.TrimSpace(newBase)
	if newBase == "" {
		s.mu.Unlock()
		return nil, domain.ErrEmptyInput
	}
	if ext := doc.Extension(); ext != "" {
		doc.Title = newBase + "." + ext
	} else {
		doc.Title = newBase
	}
	saved := cloneDocument(doc)
	s.mu.Unlock()

	s.persistDocument(ctx, saved)
	return cloneDocument(saved), nil
}

// ReorderDocuments moves draggedID immediately before targetID's prior
// position within the container, shifting the rest. Sort orders are
// rewritten densely, so repeating the same drag is a no-op.
func (s *Store) ReorderDocuments(ctx context.Context, folderID *string, draggedID, targetID string) error {
	s.mu.Lock()

	dragged, ok := s.documents[draggedID]
	if !ok || !sameContainer(dragged.FolderID, folderID) {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "document " + draggedID + " not found in folder"}
	}
	target, ok := s.documents[targetID]
	if !ok || !sameContainer(target.FolderID, folderID) {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "document " + targetID + " not found in folder"}
	}

	if draggedID == targetID {
		s.mu.Unlock()
		return nil
	}

	siblings := s.siblingsLocked(folderID)
	reordered := make([]*models.Document, 0, len(siblings))
	for _, doc := range siblings {
		if doc.ID != draggedID {
			reordered = append(reordered, doc)
		}
	}
	insertAt := len(reordered)
	for i, doc := range reordered {
		if doc.ID == targetID {
			insertAt = i
			break
		}
	}
	reordered = append(reordered, nil)
	copy(reordered[insertAt+1:], reordered[insertAt:])
	reordered[insertAt] = dragged

	var changed []*models.Document
	for i, doc := range reordered {
		if doc.SortOrder != i {
			doc.SortOrder = i
			changed = append(changed, cloneDocument(doc))
		}
	}
	s.mu.Unlock()

	for _, doc := range changed {
		s.persistDocument(ctx, doc)
	}
	return nil
}

// DeleteDocument removes a document. Conversion outputs that referenced
// it keep their stale sourceDocumentId (weak reference by design).
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.documents[id]; !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "document " + id + " not found"}
	}
	delete(s.documents, id)
	s.mu.Unlock()

	s.persistDocumentDeletes(ctx, []string{id})
	return nil
}

// ApplyEnrichment patches derived metadata by document id. A document
// deleted or moved in the interim makes the patch a no-op.
func (s *Store) ApplyEnrichment(ctx context.Context, id, category, keywordsResume string, tags []string) error {
	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	doc.Category = category
	doc.KeywordsResume = keywordsResume
	doc.Tags = append([]string(nil), tags...)
	saved := cloneDocument(doc)
	s.mu.Unlock()

	s.persistDocument(ctx, saved)
	return nil
}

// --- Folders ---

// CreateFolder inserts a new folder under parentID (nil = root).
func (s *Store) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyInput
	}

	s.mu.Lock()
	if parentID != nil {
		if _, ok := s.folders[*parentID]; !ok {
			s.mu.Unlock()
			return nil, &domain.NotFoundError{Message: "folder " + *parentID + " not found"}
		}
	}
	for _, sibling := range s.folders {
		if sameContainer(sibling.ParentID, parentID) && sibling.Name == name {
			s.mu.Unlock()
			return nil, domain.ErrConflict
		}
	}

	now := time.Now()
	folder := &models.Folder{
		ID:           uuid.New().String(),
		Name:         name,
		ParentID:     parentID,
		DateCreated:  now,
		LastAccessed: now,
	}
	s.folders[folder.ID] = folder
	saved := *folder
	s.mu.Unlock()

	s.persistFolder(ctx, &saved)
	result := saved
	return &result, nil
}

// GetFolder returns a copy of the folder, or ErrNotFound.
func (s *Store) GetFolder(id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folder, ok := s.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder " + id + " not found"}
	}
	f := *folder
	return &f, nil
}

// FolderByName finds a direct child folder by name, or nil.
func (s *Store) FolderByName(parentID *string, name string) *models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, folder := range s.folders {
		if sameContainer(folder.ParentID, parentID) && folder.Name == name {
			f := *folder
			return &f
		}
	}
	return nil
}

// FoldersIn returns the direct child folders of a parent (nil = root),
// newest first with name tiebreak.
func (s *Store) FoldersIn(parentID *string) []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var folders []models.Folder
	for _, folder := range s.folders {
		if sameContainer(folder.ParentID, parentID) {
			folders = append(folders, *folder)
		}
	}
	sort.SliceStable(folders, func(i, j int) bool {
		if !folders[i].DateCreated.Equal(folders[j].DateCreated) {
			return folders[i].DateCreated.After(folders[j].DateCreated)
		}
		return folders[i].Name < folders[j].Name
	})
	return folders
}

// RenameFolder replaces a folder's name, rejecting blank input.
func (s *Store) RenameFolder(ctx context.Context, id, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyInput
	}

	s.mu.Lock()
	folder, ok := s.folders[id]
	if !ok {
		s.mu.Unlock()
		return nil, &domain.NotFoundError{Message: "folder " + id + " not found"}
	}
	folder.Name = name
	saved := *folder
	s.mu.Unlock()

	s.persistFolder(ctx, &saved)
	result := saved
	return &result, nil
}

// MoveFolder reparents a folder. The full descendant closure is computed
// first; a target inside the closure (or the folder itself) fails with
// ErrInvalidMove and leaves the store unchanged.
func (s *Store) MoveFolder(ctx context.Context, id string, toParent *string) error {
	s.mu.Lock()
	folder, ok := s.folders[id]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "folder " + id + " not found"}
	}
	if toParent != nil {
		if _, ok := s.folders[*toParent]; !ok {
			s.mu.Unlock()
			return &domain.NotFoundError{Message: "folder " + *toParent + " not found"}
		}
		if *toParent == id {
			s.mu.Unlock()
			return &domain.InvalidMoveError{FolderID: id, TargetID: *toParent}
		}
		descendants := s.descendantsLocked(id)
		if _, inside := descendants[*toParent]; inside {
			s.mu.Unlock()
			return &domain.InvalidMoveError{FolderID: id, TargetID: *toParent}
		}
	}
	folder.ParentID = toParent
	saved := *folder
	s.mu.Unlock()

	s.persistFolder(ctx, &saved)
	return nil
}

// DeleteFolder removes a folder according to the chosen mode.
func (s *Store) DeleteFolder(ctx context.Context, id string, mode models.FolderDeleteMode) error {
	s.mu.Lock()
	folder, ok := s.folders[id]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "folder " + id + " not found"}
	}

	var deletedFolders, deletedDocs []string
	var reparented []*models.Document
	var reparentedFolders []*models.Folder

	switch mode {
	case models.DeleteAllItems:
		closure := s.descendantsLocked(id)
		closure[id] = struct{}{}
		for _, doc := range s.documents {
			if doc.FolderID != nil {
				if _, in := closure[*doc.FolderID]; in {
					deletedDocs = append(deletedDocs, doc.ID)
				}
			}
		}
		for _, docID := range deletedDocs {
			delete(s.documents, docID)
		}
		for folderID := range closure {
			delete(s.folders, folderID)
			deletedFolders = append(deletedFolders, folderID)
		}

	case models.MoveItemsToParent:
		// One level of reparenting only: nested folders keep their contents.
		newParent := folder.ParentID
		for _, doc := range s.documents {
			if sameContainer(doc.FolderID, &id) {
				doc.FolderID = newParent
				reparented = append(reparented, cloneDocument(doc))
			}
		}
		for _, child := range s.folders {
			if sameContainer(child.ParentID, &id) {
				child.ParentID = newParent
				f := *child
				reparentedFolders = append(reparentedFolders, &f)
			}
		}
		delete(s.folders, id)
		deletedFolders = append(deletedFolders, id)

	default:
		s.mu.Unlock()
		return &domain.ValidationError{Message: "unknown folder delete mode: " + string(mode)}
	}
	s.mu.Unlock()

	for _, doc := range reparented {
		s.persistDocument(ctx, doc)
	}
	for _, f := range reparentedFolders {
		s.persistFolder(ctx, f)
	}
	if len(deletedDocs) > 0 {
		s.persistDocumentDeletes(ctx, deletedDocs)
	}
	if len(deletedFolders) > 0 {
		s.persistFolderDeletes(ctx, deletedFolders)
	}
	return nil
}

// --- internals ---

// descendantsLocked computes the transitive closure of folders reachable
// from id. Recomputed per call: folder counts are small, and recomputing
// under the writer lock keeps the check correct against concurrent moves.
func (s *Store) descendantsLocked(id string) map[string]struct{} {
	descendants := make(map[string]struct{})
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, folder := range s.folders {
			if folder.ParentID != nil && *folder.ParentID == current {
				if _, seen := descendants[folder.ID]; !seen {
					descendants[folder.ID] = struct{}{}
					queue = append(queue, folder.ID)
				}
			}
		}
	}
	return descendants
}

func (s *Store) siblingsLocked(folderID *string) []*models.Document {
	var docs []*models.Document
	for _, doc := range s.documents {
		if sameContainer(doc.FolderID, folderID) {
			docs = append(docs, doc)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].SortOrder != docs[j].SortOrder {
			return docs[i].SortOrder < docs[j].SortOrder
		}
		return docs[i].DateCreated.After(docs[j].DateCreated)
	})
	return docs
}

func (s *Store) nextSortOrderLocked(folderID *string) int {
	next := 0
	for _, doc := range s.documents {
		if sameContainer(doc.FolderID, folderID) && doc.SortOrder >= next {
			next = doc.SortOrder + 1
		}
	}
	return next
}

func sameContainer(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// truncateContent caps content at the maximum length. A simple rune cut:
// mid-word truncation is accepted, rejection is not.
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= config.MaxDocumentContentLength {
		return content
	}
	return string(runes[:config.MaxDocumentContentLength])
}

func cloneDocument(doc *models.Document) *models.Document {
	clone := *doc
	if doc.Tags != nil {
		clone.Tags = append([]string(nil), doc.Tags...)
	}
	if doc.OCRPages != nil {
		clone.OCRPages = append([]models.OCRPage(nil), doc.OCRPages...)
	}
	if doc.SourceDocumentID != nil {
		id := *doc.SourceDocumentID
		clone.SourceDocumentID = &id
	}
	if doc.FolderID != nil {
		id := *doc.FolderID
		clone.FolderID = &id
	}
	return &clone
}

// --- persistence hooks ---

func (s *Store) persistDocument(ctx context.Context, doc *models.Document) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveDocument(ctx, doc); err != nil {
		s.logger.Error("persist document failed", "id", doc.ID, "error", err)
	}
}

func (s *Store) persistFolder(ctx context.Context, folder *models.Folder) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveFolder(ctx, folder); err != nil {
		s.logger.Error("persist folder failed", "id", folder.ID, "error", err)
	}
}

func (s *Store) persistDocumentDeletes(ctx context.Context, ids []string) {
	if s.persister == nil {
		return
	}
	if err := s.persister.DeleteDocuments(ctx, ids); err != nil {
		s.logger.Error("persist document deletes failed", "count", len(ids), "error", err)
	}
}

func (s *Store) persistFolderDeletes(ctx context.Context, ids []string) {
	if s.persister == nil {
		return
	}
	if err := s.persister.DeleteFolders(ctx, ids); err != nil {
		s.logger.Error("persist folder deletes failed", "count", len(ids), "error", err)
	}
}

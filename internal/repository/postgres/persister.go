package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"papershelf/internal/domain/models"
)

// Persister is the pgx-backed implementation of the store's persister.
type Persister struct {
	pool *pgxpool.Pool
}

// NewPersister creates a persister on an existing pool.
func NewPersister(pool *pgxpool.Pool) *Persister {
	return &Persister{pool: pool}
}

// SaveDocument upserts one document row.
func (p *Persister) SaveDocument(ctx context.Context, doc *models.Document) error {
	var ocrPages []byte
	if len(doc.OCRPages) > 0 {
		encoded, err := json.Marshal(doc.OCRPages)
		if err != nil {
			return fmt.Errorf("encode ocr pages: %w", err)
		}
		ocrPages = encoded
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO documents (
			id, title, content, doc_type, ocr_pages, category,
			keywords_resume, tags, source_document_id, folder_id,
			sort_order, date_created, last_accessed,
			pdf_data, image_data, original_file_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			doc_type = EXCLUDED.doc_type,
			ocr_pages = EXCLUDED.ocr_pages,
			category = EXCLUDED.category,
			keywords_resume = EXCLUDED.keywords_resume,
			tags = EXCLUDED.tags,
			source_document_id = EXCLUDED.source_document_id,
			folder_id = EXCLUDED.folder_id,
			sort_order = EXCLUDED.sort_order,
			last_accessed = EXCLUDED.last_accessed,
			pdf_data = EXCLUDED.pdf_data,
			image_data = EXCLUDED.image_data,
			original_file_data = EXCLUDED.original_file_data`,
		doc.ID, doc.Title, doc.Content, string(doc.Type), ocrPages, doc.Category,
		doc.KeywordsResume, doc.Tags, doc.SourceDocumentID, doc.FolderID,
		doc.SortOrder, doc.DateCreated, doc.LastAccessed,
		doc.PDFData, doc.ImageData, doc.OriginalFileData,
	)
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// SaveFolder upserts one folder row.
func (p *Persister) SaveFolder(ctx context.Context, folder *models.Folder) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO folders (id, name, parent_id, date_created, last_accessed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			parent_id = EXCLUDED.parent_id,
			last_accessed = EXCLUDED.last_accessed`,
		folder.ID, folder.Name, folder.ParentID, folder.DateCreated, folder.LastAccessed,
	)
	if err != nil {
		return fmt.Errorf("save folder %s: %w", folder.ID, err)
	}
	return nil
}

// DeleteDocuments removes document rows by id.
func (p *Persister) DeleteDocuments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

// DeleteFolders removes folder rows by id.
func (p *Persister) DeleteFolders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM folders WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}
	return nil
}

// Load reads the full snapshot at boot.
func (p *Persister) Load(ctx context.Context) ([]models.Document, []models.Folder, error) {
	docs, err := p.loadDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	folders, err := p.loadFolders(ctx)
	if err != nil {
		return nil, nil, err
	}
	return docs, folders, nil
}

func (p *Persister) loadDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, content, doc_type, ocr_pages, category,
		       keywords_resume, tags, source_document_id, folder_id,
		       sort_order, date_created, last_accessed,
		       pdf_data, image_data, original_file_data
		FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		var docType string
		var ocrPages []byte
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.Content, &docType, &ocrPages, &doc.Category,
			&doc.KeywordsResume, &doc.Tags, &doc.SourceDocumentID, &doc.FolderID,
			&doc.SortOrder, &doc.DateCreated, &doc.LastAccessed,
			&doc.PDFData, &doc.ImageData, &doc.OriginalFileData,
		); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		doc.Type = models.DocumentType(docType)
		if len(ocrPages) > 0 {
			if err := json.Unmarshal(ocrPages, &doc.OCRPages); err != nil {
				return nil, fmt.Errorf("decode ocr pages for %s: %w", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *Persister) loadFolders(ctx context.Context) ([]models.Folder, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, parent_id, date_created, last_accessed
		FROM folders`)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(
			&folder.ID, &folder.Name, &folder.ParentID,
			&folder.DateCreated, &folder.LastAccessed,
		); err != nil {
			return nil, fmt.Errorf("scan folder row: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

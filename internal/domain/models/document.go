package models

import (
	"strings"
	"time"
)

// DocumentType tags the format of a document. Exactly one tag is assigned
// at creation and never re-inferred at use time.
type DocumentType string

const (
	TypePDF     DocumentType = "pdf"
	TypeDocx    DocumentType = "docx"
	TypePpt     DocumentType = "ppt"
	TypePptx    DocumentType = "pptx"
	TypeXls     DocumentType = "xls"
	TypeXlsx    DocumentType = "xlsx"
	TypeText    DocumentType = "text"
	TypeScanned DocumentType = "scanned"
	TypeImage   DocumentType = "image"
	TypeZip     DocumentType = "zip"
)

// extensionTypes maps recognized title extensions to document types.
// The title extension is the only source of type inference, and only
// at creation time.
var extensionTypes = map[string]DocumentType{
	"pdf":  TypePDF,
	"docx": TypeDocx,
	"doc":  TypeDocx,
	"ppt":  TypePpt,
	"pptx": TypePptx,
	"xls":  TypeXls,
	"xlsx": TypeXlsx,
	"txt":  TypeText,
	"text": TypeText,
	"md":   TypeText,
	"html": TypeText,
	"htm":  TypeText,
	"png":  TypeImage,
	"jpg":  TypeImage,
	"jpeg": TypeImage,
	"heic": TypeImage,
	"webp": TypeImage,
	"tiff": TypeImage,
	"bmp":  TypeImage,
	"zip":  TypeZip,
}

// TypeForExtension returns the document type inferred from a title
// extension, or TypeText when the extension is unrecognized.
func TypeForExtension(ext string) DocumentType {
	if t, ok := extensionTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return t
	}
	return TypeText
}

// IsRecognizedExtension reports whether ext (without dot) maps to a known
// document type.
func IsRecognizedExtension(ext string) bool {
	_, ok := extensionTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// SplitTitle splits a display title into base name and recognized
// extension (without dot). Titles without a recognized extension return
// the whole title as base and "" as extension: "Report.v2" stays intact
// while "Report.pdf" splits into ("Report", "pdf").
func SplitTitle(title string) (base, ext string) {
	idx := strings.LastIndex(title, ".")
	if idx <= 0 || idx == len(title)-1 {
		return title, ""
	}
	candidate := title[idx+1:]
	if !IsRecognizedExtension(candidate) {
		return title, ""
	}
	return title[:idx], strings.ToLower(candidate)
}

// Document is the central entity: an imported, scanned or converted file
// together with its extracted text and derived metadata.
type Document struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Content string       `json:"content"` // plain-text extraction, capped on write
	Type    DocumentType `json:"type"`

	// OCRPages is present only for scanned/image-derived documents.
	OCRPages []OCRPage `json:"ocr_pages,omitempty"`

	// Derived metadata, patched in asynchronously after creation.
	Category       string   `json:"category,omitempty"`
	KeywordsResume string   `json:"keywords_resume,omitempty"`
	Tags           []string `json:"tags,omitempty"`

	// SourceDocumentID is a weak back-reference to the document a
	// conversion output was derived from. Never used for ownership or
	// cascading delete; lookups on a stale id just report not found.
	SourceDocumentID *string `json:"source_document_id,omitempty"`

	FolderID  *string `json:"folder_id"` // nil = root level
	SortOrder int     `json:"sort_order"`

	DateCreated  time.Time `json:"date_created"`
	LastAccessed time.Time `json:"last_accessed"`

	// Binary payloads. At most one is authoritative per type.
	PDFData          []byte   `json:"-"`
	ImageData        [][]byte `json:"-"` // one entry per page
	OriginalFileData []byte   `json:"-"`
}

// RawPayload returns the best-available binary payload, preferring the
// original file, then the rendered PDF, then the first page image.
func (d *Document) RawPayload() []byte {
	if len(d.OriginalFileData) > 0 {
		return d.OriginalFileData
	}
	if len(d.PDFData) > 0 {
		return d.PDFData
	}
	if len(d.ImageData) > 0 {
		return d.ImageData[0]
	}
	return nil
}

// BaseName returns the title without its recognized extension.
func (d *Document) BaseName() string {
	base, _ := SplitTitle(d.Title)
	return base
}

// Extension returns the recognized title extension without dot, or "".
func (d *Document) Extension() string {
	_, ext := SplitTitle(d.Title)
	return ext
}

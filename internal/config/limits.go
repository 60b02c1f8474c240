package config

const (
	// MaxDocumentContentLength is the maximum stored length of a document's
	// plain-text content. Oversized content is truncated on write, never
	// rejected, so imports of large scans always succeed.
	MaxDocumentContentLength = 50000

	// MaxDocumentTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxDocumentTitleLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document titles for consistency.
	MaxFolderNameLength = 255
)

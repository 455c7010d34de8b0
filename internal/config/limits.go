package config

const (
	// MaxTitleLength is the maximum length for article titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxSlugLength is the maximum length for article slugs.
	MaxSlugLength = 120

	// MaxSummaryLength bounds the teaser shown in article listings.
	MaxSummaryLength = 1000

	// MaxTags is the maximum number of tags per article, each at most
	// MaxTagLength characters.
	MaxTags      = 20
	MaxTagLength = 50

	// MaxSectionsPerDocument and MaxBlocksPerColumn bound a stored document.
	// Real articles stay far below these; larger payloads are almost
	// certainly a client bug replaying operations.
	MaxSectionsPerDocument = 200
	MaxBlocksPerColumn     = 500

	// MaxOperationsPerBatch bounds one POST of editor operations.
	MaxOperationsPerBatch = 500

	// MaxPromptLength is the maximum length of an AI generation prompt.
	MaxPromptLength = 8000

	// MaxImportFileSize is the maximum size of an uploaded import file (5MB).
	MaxImportFileSize = 5 << 20

	// DefaultPageSize and MaxPageSize bound article listings and search.
	DefaultPageSize = 20
	MaxPageSize     = 100
)

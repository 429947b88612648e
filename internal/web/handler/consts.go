package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// IDPath is the route suffix of a single record.
	IDPath = "/:id"

	// ExportPath is the route suffix of the xlsx export of a list.
	ExportPath = "/export"

	// DefaultPage is used when the page query parameter is missing or invalid.
	DefaultPage = 1

	// DefaultPageSize is used when the pageSize query parameter is missing or invalid.
	DefaultPageSize = 10

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)

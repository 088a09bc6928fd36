package interfaces

// PDFService handles PDF generation from various formats
type PDFService interface {
	// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}

// HTMLService renders markdown reports as standalone HTML pages
type HTMLService interface {
	// ConvertMarkdownToHTML converts markdown content to a sanitized HTML page
	ConvertMarkdownToHTML(markdown, title string) (string, error)
}

// PreviewService renders markdown for display in a terminal
type PreviewService interface {
	Render(markdown string) (string, error)
}

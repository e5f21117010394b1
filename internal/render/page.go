package render

//go:generate templ generate -f page.templ

// PageOptions configures Page.
type PageOptions struct {
	Title string
	// LiveURL is the websocket endpoint of a preview server. Empty means a
	// static export without the live script.
	LiveURL string
	// SelectedID is scrolled into view once the page loads.
	SelectedID string
}

func pageTitle(opts PageOptions) string {
	if opts.Title == "" {
		return "Product description"
	}
	return opts.Title
}

// Package catalog holds the site's content sources: static page descriptors,
// the project catalog and the file-backed blog.
package catalog

// Page describes one static page of the site.
type Page struct {
	ID          string
	Title       string
	Description string
	URL         string
	Tags        []string
	// Blog marks the page that exists only while the blog is enabled.
	Blog bool
}

// DefaultPages returns the site's pages in navigation order.
func DefaultPages() []Page {
	return []Page{
		{
			ID:          "home",
			Title:       "Home",
			Description: "Lysander Gutierrez - Full-Stack Software Engineer",
			URL:         "/",
			Tags:        []string{"home", "about", "intro", "lysander", "gutierrez"},
		},
		{
			ID:          "about",
			Title:       "About",
			Description: "Learn more about my background and experience",
			URL:         "/about",
			Tags:        []string{"about", "background", "experience", "bio"},
		},
		{
			ID:          "projects",
			Title:       "Projects",
			Description: "View my software engineering projects and work",
			URL:         "/projects",
			Tags:        []string{"projects", "work", "portfolio", "code", "development"},
		},
		{
			ID:          "blog",
			Title:       "Blog",
			Description: "Read my latest thoughts on software development",
			URL:         "/blog",
			Tags:        []string{"blog", "articles", "writing", "thoughts", "development"},
			Blog:        true,
		},
		{
			ID:          "contact",
			Title:       "Contact",
			Description: "Get in touch with me",
			URL:         "/contact",
			Tags:        []string{"contact", "email", "reach out", "hire", "collaborate"},
		},
	}
}

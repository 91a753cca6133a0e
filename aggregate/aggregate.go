// Package aggregate builds the flat list of searchable documents from the
// site's catalogs.
package aggregate

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/catalog"
	"github.com/letmevibethatforyou/sitesearch/flags"
)

// ProjectSource supplies the project catalog.
type ProjectSource interface {
	Projects(ctx context.Context) ([]catalog.Project, error)
}

// PostSource supplies blog post metadata.
type PostSource interface {
	Posts(ctx context.Context) ([]catalog.Post, error)
}

// Aggregator merges pages, projects, posts and skills into one document list.
// It holds no state between calls.
type Aggregator struct {
	pages    []catalog.Page
	projects ProjectSource
	posts    PostSource
	skills   []sitesearch.Document
	logger   *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPages replaces the default page descriptors.
func WithPages(pages []catalog.Page) Option {
	return func(a *Aggregator) {
		a.pages = slices.Clone(pages)
	}
}

// WithSkills replaces the default skill documents.
func WithSkills(skills []sitesearch.Document) Option {
	return func(a *Aggregator) {
		a.skills = slices.Clone(skills)
	}
}

// WithLogger sets the logger used to report failing sources.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New returns an Aggregator over the given sources. Either source may be nil.
func New(projects ProjectSource, posts PostSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		pages:    catalog.DefaultPages(),
		projects: projects,
		posts:    posts,
		skills:   DefaultSkills(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Documents returns pages, projects, posts and skills, in that order. Posts
// and the blog page are included only when f.BlogEnabled is set. A failing
// source contributes no documents.
func (a *Aggregator) Documents(ctx context.Context, f flags.Flags) []sitesearch.Document {
	docs := make([]sitesearch.Document, 0, len(a.pages)+len(a.skills))

	for _, page := range a.pages {
		if page.Blog && !f.BlogEnabled {
			continue
		}
		docs = a.appendValid(ctx, docs, pageDocument(page))
	}

	if a.projects != nil {
		projects, err := a.projects.Projects(ctx)
		if err != nil {
			a.logger.WarnContext(ctx, "project source failed; omitting projects", "error", err)
			projects = nil
		}
		for _, project := range projects {
			docs = a.appendValid(ctx, docs, ProjectDocument(project))
		}
	}

	if f.BlogEnabled && a.posts != nil {
		posts, err := a.posts.Posts(ctx)
		if err != nil {
			a.logger.WarnContext(ctx, "blog source failed; omitting posts", "error", err)
			posts = nil
		}
		for _, post := range posts {
			docs = a.appendValid(ctx, docs, PostDocument(post))
		}
	}

	for _, skill := range a.skills {
		docs = a.appendValid(ctx, docs, skill)
	}
	return docs
}

func (a *Aggregator) appendValid(ctx context.Context, docs []sitesearch.Document, doc sitesearch.Document) []sitesearch.Document {
	if strings.TrimSpace(doc.Title) == "" || strings.TrimSpace(doc.Description) == "" {
		a.logger.WarnContext(ctx, "skipping document without title or description", "id", doc.ID, "kind", doc.Kind)
		return docs
	}
	return append(docs, doc)
}

func pageDocument(p catalog.Page) sitesearch.Document {
	return sitesearch.Document{
		ID:          p.ID,
		Kind:        sitesearch.KindPage,
		Title:       p.Title,
		Description: p.Description,
		Tags:        lowerAll(p.Tags),
		URL:         p.URL,
	}
}

// ProjectDocument converts a project: its technologies, category and
// highlights become lowercase tags.
func ProjectDocument(p catalog.Project) sitesearch.Document {
	tags := lowerAll(p.Tech)
	if p.Category != "" {
		tags = append(tags, strings.ToLower(p.Category))
	}
	tags = append(tags, lowerAll(p.Highlights)...)

	return sitesearch.Document{
		ID:          "project-" + p.Slug,
		Kind:        sitesearch.KindProject,
		Title:       p.Name,
		Description: p.Description,
		Tags:        tags,
		URL:         "/projects#" + p.Slug,
	}
}

// PostDocument converts a blog post. Every post is also tagged "blog" and
// "article".
func PostDocument(p catalog.Post) sitesearch.Document {
	tags := append(lowerAll(p.Tags), "blog", "article")
	return sitesearch.Document{
		ID:          "blog-" + p.Slug,
		Kind:        sitesearch.KindPost,
		Title:       p.Title,
		Description: p.Description,
		Tags:        tags,
		URL:         "/blog/" + p.Slug,
	}
}

// DefaultSkills returns the fixed skill documents.
func DefaultSkills() []sitesearch.Document {
	return []sitesearch.Document{
		{
			ID:          "skill-react",
			Kind:        sitesearch.KindSkill,
			Title:       "React & Next.js",
			Description: "Frontend framework expertise",
			Tags:        []string{"react", "nextjs", "frontend", "javascript", "typescript"},
			URL:         "/projects",
		},
		{
			ID:          "skill-backend",
			Kind:        sitesearch.KindSkill,
			Title:       "Backend Development",
			Description: "Node.js, Python, Go, APIs",
			Tags:        []string{"backend", "nodejs", "python", "go", "api", "server"},
			URL:         "/projects",
		},
		{
			ID:          "skill-cloud",
			Kind:        sitesearch.KindSkill,
			Title:       "Cloud & DevOps",
			Description: "AWS, Docker, Kubernetes",
			Tags:        []string{"cloud", "aws", "docker", "kubernetes", "devops", "deployment"},
			URL:         "/projects",
		},
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

package catalog

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	postExtension  = ".mdx"
	wordsPerMinute = 200
)

// ErrPostNotFound is returned when no post exists for a slug.
var ErrPostNotFound = errors.New("catalog: post not found")

// Post is one blog post.
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author,omitempty"`
	Image       string   `json:"image,omitempty"`
	Content     string   `json:"content,omitempty"`
	// ReadingTime is in minutes.
	ReadingTime int `json:"reading_time"`
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Author      string   `yaml:"author"`
	Image       string   `yaml:"image"`
}

// BlogDir reads posts from .mdx files with YAML front matter.
type BlogDir struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewBlogDir reads posts from the directory at path.
func NewBlogDir(path string, logger *slog.Logger) *BlogDir {
	return NewBlogFS(os.DirFS(path), logger)
}

// NewBlogFS reads posts from the root of fsys.
func NewBlogFS(fsys fs.FS, logger *slog.Logger) *BlogDir {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogDir{fsys: fsys, logger: logger}
}

// Posts returns every readable post, newest first. Files whose front matter
// cannot be parsed are skipped.
func (b *BlogDir) Posts(ctx context.Context) ([]Post, error) {
	slugs, err := b.Slugs(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(slugs))
	for _, slug := range slugs {
		post, err := b.read(slug)
		if err != nil {
			b.logger.WarnContext(ctx, "skipping unreadable post", "slug", slug, "error", err)
			continue
		}
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(a, b Post) int {
		return strings.Compare(b.Date, a.Date)
	})
	return posts, nil
}

// Post returns the post for slug.
func (b *BlogDir) Post(_ context.Context, slug string) (Post, error) {
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return Post{}, errors.Wrapf(ErrPostNotFound, "invalid slug %q", slug)
	}
	post, err := b.read(slug)
	if errors.Is(err, fs.ErrNotExist) {
		return Post{}, errors.Wrapf(ErrPostNotFound, "slug %q", slug)
	}
	return post, err
}

// Slugs lists post slugs in directory order.
func (b *BlogDir) Slugs(_ context.Context) ([]string, error) {
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read blog directory")
	}

	var slugs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, postExtension) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, postExtension))
	}
	return slugs, nil
}

func (b *BlogDir) read(slug string) (Post, error) {
	data, err := fs.ReadFile(b.fsys, slug+postExtension)
	if err != nil {
		return Post{}, err
	}
	return ParsePost(slug, data)
}

// ParsePost parses an .mdx document: a YAML front matter block delimited by
// "---" lines, followed by the post body.
func ParsePost(slug string, data []byte) (Post, error) {
	meta, body, err := splitFrontMatter(data)
	if err != nil {
		return Post{}, errors.Wrapf(err, "post %q", slug)
	}

	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return Post{}, errors.Wrapf(err, "failed to parse front matter of %q", slug)
	}

	content := string(body)
	return Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Tags:        fm.Tags,
		Author:      fm.Author,
		Image:       fm.Image,
		Content:     content,
		ReadingTime: ReadingTime(content),
	}, nil
}

// ReadingTime estimates minutes to read content at 200 words per minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func splitFrontMatter(data []byte) (meta, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(data, []byte("---\n")) {
		// No front matter: the whole file is content.
		return nil, data, nil
	}
	rest := data[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---")) {
		return nil, bytes.TrimPrefix(rest[len("---"):], []byte("\n")), nil
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, errors.New("unterminated front matter")
	}
	meta = rest[:end]
	body = rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, body, nil
}

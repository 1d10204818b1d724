package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"housekeeper/internal/confluence"
	"housekeeper/internal/layout"
)

// Fetcher reads the current body and version of a page.
type Fetcher interface {
	GetPage(ctx context.Context, id string) (*confluence.Page, error)
}

// Publisher writes a page body as version+1.
type Publisher interface {
	UpdatePage(ctx context.Context, id, title string, version int, body string) (*confluence.Page, error)
}

// PageStore is everything PageSync needs from Confluence; *confluence.Client implements it.
type PageStore interface {
	Fetcher
	Publisher
	FindPage(ctx context.Context, spaceKey, title string) (*confluence.Page, error)
	CreatePage(ctx context.Context, p confluence.NewPage) (*confluence.Page, error)
}

// PageSync runs fetch-edit-publish cycles against one space. Every edit starts
// from a fresh fetch; nothing is cached between calls.
type PageSync struct {
	pages    PageStore
	SpaceKey string
	ParentID string
}

// DiagramSource locates diagram files in a GitLab repository, served raw to
// the html-bobswift macro.
type DiagramSource struct {
	BaseURL string // .../repository/files/<url-escaped directory>
	Ref     string
	Token   string
}

func NewPageSync(pages PageStore, spaceKey, parentID string) *PageSync {
	return &PageSync{
		pages:    pages,
		SpaceKey: spaceKey,
		ParentID: parentID,
	}
}

// EditSection inserts fragment into the page layout relative to the anchor
// headings and publishes the result.
func (s *PageSync) EditSection(ctx context.Context, pageID, fragment string, before, after []string) (*confluence.Page, error) {
	return s.edit(ctx, pageID, func(doc *layout.Document) error {
		return doc.InsertSection(fragment, before, after)
	})
}

// AppendSection adds fragment as the last section of the page.
func (s *PageSync) AppendSection(ctx context.Context, pageID, fragment string) (*confluence.Page, error) {
	return s.edit(ctx, pageID, func(doc *layout.Document) error {
		return doc.AppendSection(fragment)
	})
}

// AddDiagrams appends one html-bobswift section per diagram file, in a single publish.
func (s *PageSync) AddDiagrams(ctx context.Context, pageID string, files []string, src DiagramSource) (*confluence.Page, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no diagram files given")
	}
	return s.edit(ctx, pageID, func(doc *layout.Document) error {
		for _, f := range files {
			name := filepath.Base(f)
			fragment := layout.BuildMacroSection("Diagram: "+name, "html-bobswift", []layout.MacroParam{
				{Name: "script", Value: src.scriptURL(name)},
				{Name: "atlassian-macro-output-type", Value: "INLINE"},
			})
			if err := doc.AppendSection(fragment); err != nil {
				return err
			}
		}
		return nil
	})
}

// scriptURL is the raw-file URL of a diagram, prefixed with the '#' that
// html-bobswift expects for remote scripts.
func (d DiagramSource) scriptURL(file string) string {
	ref := d.Ref
	if ref == "" {
		ref = "main"
	}
	q := "ref=" + url.QueryEscape(ref)
	if d.Token != "" {
		q += "&private_token=" + url.QueryEscape(d.Token)
	}
	return "#" + strings.TrimRight(d.BaseURL, "/") + "%2F" + escapeSegment(file) + "/raw?" + q
}

// escapeSegment percent-encodes everything but unreserved characters, so the
// file name stays a single segment of the GitLab files API path.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ListSections fetches a page and returns its parsed layout.
func (s *PageSync) ListSections(ctx context.Context, pageID string) (*confluence.Page, *layout.Document, error) {
	page, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch page %s: %w", pageID, err)
	}
	doc, err := layout.Parse(page.Body)
	if err != nil {
		return nil, nil, err
	}
	return page, doc, nil
}

func (s *PageSync) edit(ctx context.Context, pageID string, mutate func(*layout.Document) error) (*confluence.Page, error) {
	page, doc, err := s.ListSections(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if err := mutate(doc); err != nil {
		return nil, err
	}

	updated, err := s.pages.UpdatePage(ctx, page.ID, page.Title, page.Version, doc.Render())
	if err != nil {
		return nil, fmt.Errorf("failed to publish page %s: %w", pageID, err)
	}
	return updated, nil
}

// CreatePage creates a page in the configured space under the configured parent.
func (s *PageSync) CreatePage(ctx context.Context, title, body string) (*confluence.Page, error) {
	if s.SpaceKey == "" {
		return nil, fmt.Errorf("space key not configured")
	}
	page, err := s.pages.CreatePage(ctx, confluence.NewPage{
		SpaceKey: s.SpaceKey,
		ParentID: s.ParentID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page %q: %w", title, err)
	}
	return page, nil
}

// PushFile uploads a Markdown or HTML file as the page titled title, updating
// it in place when it already exists in the space and creating it otherwise.
func (s *PageSync) PushFile(ctx context.Context, path, title string) (page *confluence.Page, created bool, err error) {
	body, err := ReadContent(path)
	if err != nil {
		return nil, false, err
	}
	if s.SpaceKey == "" {
		return nil, false, fmt.Errorf("space key not configured")
	}

	existing, err := s.pages.FindPage(ctx, s.SpaceKey, title)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up page %q: %w", title, err)
	}
	if existing == nil {
		page, err = s.CreatePage(ctx, title, body)
		return page, err == nil, err
	}

	page, err = s.pages.UpdatePage(ctx, existing.ID, title, existing.Version, body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update page %q: %w", title, err)
	}
	return page, false, nil
}

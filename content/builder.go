// ABOUTME: Content builder that flattens per-party, per-category Markdown statements into JSON documents.
// ABOUTME: Reads for one category or party fan out concurrently and are joined before that entity's file is written.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kjosturett/kjosturett/site"
)

// Statement is the outcome of one (party, category) lookup. Found is false
// when the source was missing or unreadable, in which case HTML is empty.
type Statement struct {
	HTML  string
	Found bool
}

// PartyStatement is one entry of a per-category document: the party's
// fields followed by its statement.
type PartyStatement struct {
	site.Party
	Statement string `json:"statement"`
}

// CategoryStatement is one entry of a per-party document.
type CategoryStatement struct {
	Category  string `json:"category"`
	Statement string `json:"statement"`
}

// Index receives every (party, category) statement produced by a build.
type Index interface {
	UpsertStatement(ctx context.Context, party, category, html string, found bool) error
}

// Builder reads Markdown sources laid out as <party>/<category>.md and
// writes the aggregate JSON documents into OutDir.
type Builder struct {
	Source    fs.FS
	OutDir    string
	Lists     site.Lists
	Converter Converter
	// Index is optional.
	Index Index
}

// NewBuilder returns a Builder reading from sourceDir with a cached goldmark converter.
func NewBuilder(sourceDir, outDir string, lists site.Lists) *Builder {
	return &Builder{
		Source:    os.DirFS(sourceDir),
		OutDir:    outDir,
		Lists:     lists,
		Converter: NewCachedConverter(NewMarkdownConverter()),
	}
}

// SourceKey is the path of a statement source relative to the source root.
func SourceKey(party site.Party, category site.Category) string {
	return path.Join(party.URL, category.URL+".md")
}

// Build writes categories.json, parties.json, one document per category,
// and one document per party. Missing sources never fail the build; output
// write failures do.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(b.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	report := newReport()

	if err := b.writeJSON("categories.json", b.Lists.Categories, report); err != nil {
		return report, err
	}
	if err := b.writeJSON("parties.json", b.Lists.Parties, report); err != nil {
		return report, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range b.Lists.Categories {
		g.Go(func() error {
			return b.buildCategory(gctx, category, report)
		})
	}
	for _, party := range b.Lists.Parties {
		g.Go(func() error {
			return b.buildParty(gctx, party, report)
		})
	}
	err := g.Wait()
	if cc, ok := b.Converter.(*CachedConverter); ok {
		report.noteConversions(cc.Stats())
	}
	return report, err
}

func (b *Builder) buildCategory(ctx context.Context, category site.Category, report *Report) error {
	statements := b.loadAll(ctx, b.Lists.Parties, []site.Category{category}, report)

	out := make([]PartyStatement, len(b.Lists.Parties))
	for i, party := range b.Lists.Parties {
		out[i] = PartyStatement{Party: party, Statement: statements[i].HTML}
		if b.Index != nil {
			if err := b.Index.UpsertStatement(ctx, party.URL, category.URL, statements[i].HTML, statements[i].Found); err != nil {
				return fmt.Errorf("index %s: %w", SourceKey(party, category), err)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.writeJSON(category.URL+".json", out, report)
}

func (b *Builder) buildParty(ctx context.Context, party site.Party, report *Report) error {
	statements := b.loadAll(ctx, []site.Party{party}, b.Lists.Categories, report)

	out := make([]CategoryStatement, len(b.Lists.Categories))
	for i, category := range b.Lists.Categories {
		out[i] = CategoryStatement{Category: category.URL, Statement: statements[i].HTML}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.writeJSON(party.URL+".json", out, report)
}

// loadAll looks up every (party, category) pair concurrently and returns
// the statements in pair order (parties outer, categories inner). Each task
// fills its own slot and cannot fail.
func (b *Builder) loadAll(ctx context.Context, parties []site.Party, categories []site.Category, report *Report) []Statement {
	statements := make([]Statement, len(parties)*len(categories))

	var wg sync.WaitGroup
	for pi, party := range parties {
		for ci, category := range categories {
			slot := pi*len(categories) + ci
			wg.Add(1)
			go func() {
				defer wg.Done()
				statements[slot] = b.load(ctx, party, category, report)
			}()
		}
	}
	wg.Wait()
	return statements
}

// load reads and converts one statement source. Any failure degrades to an
// empty statement.
func (b *Builder) load(ctx context.Context, party site.Party, category site.Category, report *Report) Statement {
	key := SourceKey(party, category)
	if ctx.Err() != nil {
		return Statement{}
	}

	data, err := fs.ReadFile(b.Source, key)
	if err != nil {
		if report.noteMissing(key) {
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("content: missing statement party=%s category=%s path=%s", party.URL, category.URL, key)
			} else {
				log.Printf("content: unreadable statement party=%s category=%s path=%s err=%v", party.URL, category.URL, key, err)
			}
		}
		return Statement{}
	}

	html, err := b.Converter.Convert(data)
	if err != nil {
		if report.noteMissing(key) {
			log.Printf("content: convert failed party=%s category=%s path=%s err=%v", party.URL, category.URL, key, err)
		}
		return Statement{}
	}
	report.noteFound(key)
	return Statement{HTML: html, Found: true}
}

// writeJSON writes v as compact JSON without HTML escaping, matching the
// documents the front end consumes.
func (b *Builder) writeJSON(name string, v any, report *Report) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	dest := filepath.Join(b.OutDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	report.noteFile(name, len(data))
	return nil
}

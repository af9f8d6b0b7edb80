package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/locale"
	"github.com/hayatfoundation/site/internal/scrape"
	"github.com/hayatfoundation/site/internal/validation"
)

const fetchTimeout = 30 * time.Second

// ImportHTMLCommand imports a legacy HTML article as an unpublished news draft.
type ImportHTMLCommand struct {
	File         string
	URL          string
	DatabasePath string
	DryRun       bool
}

func NewImportHTMLCommand() *ImportHTMLCommand {
	return &ImportHTMLCommand{}
}

func (cmd *ImportHTMLCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-html", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", "", "Path to a saved HTML page")
	fs.StringVar(&cmd.URL, "url", "", "URL of the page to fetch")
	fs.StringVar(&cmd.DatabasePath, "db", "", "SQLite database path (defaults to DATABASE_PATH)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Print the extracted article without saving it")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-html (-file <page.html> | -url <url>) [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract the article of a legacy page and save it as an unpublished news draft.\n")
		fmt.Fprintf(os.Stderr, "The detected language fills the matching fields; the other title is copied\n")
		fmt.Fprintf(os.Stderr, "so the draft validates and can be translated in the CMS.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if (cmd.File == "") == (cmd.URL == "") {
		return fmt.Errorf("exactly one of -file or -url is required")
	}
	return nil
}

func (cmd *ImportHTMLCommand) Run() error {
	article, err := cmd.extract()
	if err != nil {
		return err
	}

	fmt.Printf("Title:    %s\n", article.Title)
	fmt.Printf("Language: %s\n", article.Lang)
	if article.PublishedAt != nil {
		fmt.Printf("Date:     %s\n", article.PublishedAt.Format("2006-01-02"))
	}
	if cmd.DryRun {
		fmt.Printf("\n%s\n", article.Content)
		return nil
	}

	db, _, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	news, err := saveDraft(context.Background(), db.DB, validation.New(), article)
	if err != nil {
		return err
	}
	fmt.Printf("Saved draft news #%d (%s)\n", news.ID, news.SlugEn)
	return nil
}

func (cmd *ImportHTMLCommand) extract() (*scrape.Article, error) {
	if cmd.File != "" {
		f, err := os.Open(cmd.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		abs, _ := filepath.Abs(cmd.File)
		return scrape.Extract(f, &url.URL{Scheme: "file", Path: abs})
	}

	base, err := url.Parse(cmd.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cmd.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch page: status %d", resp.StatusCode)
	}
	return scrape.Extract(io.LimitReader(resp.Body, 10<<20), base)
}

// saveDraft stores article as an unpublished news item.
func saveDraft(ctx context.Context, db *gorm.DB, v *validation.Validator, article *scrape.Article) (*entities.News, error) {
	if article.Title == "" {
		return nil, errors.New("article has no title")
	}

	title := truncateRunes(article.Title, 255)
	excerpt := truncateRunes(article.Excerpt, 1000)
	news := &entities.News{
		TitleEn:       title,
		TitleAr:       title,
		CoverImageURL: article.CoverImageURL,
	}
	if article.Lang == locale.Arabic {
		news.ExcerptAr = excerpt
		news.ContentAr = article.Content
	} else {
		news.ExcerptEn = excerpt
		news.ContentEn = article.Content
	}
	if u, err := url.Parse(news.CoverImageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		news.CoverImageURL = ""
	}

	if err := v.Struct(news); err != nil {
		return nil, err
	}

	repo := content.NewRepository[entities.News](db, content.Options{})
	if err := repo.EnsureSlugs(ctx, news, 0); err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return news, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

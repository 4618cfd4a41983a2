package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"toyblog/app/services"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// legacyExport is the shape of the old blogs.json file.
type legacyExport struct {
	Blogs  []legacyBlog `json:"blogs"`
	NextID int          `json:"nextId"`
}

type legacyBlog struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	Snippet   string      `json:"snippet"`
	Body      string      `json:"body"`
	Author    string      `json:"author"`
	Image     string      `json:"image"`
	CreatedAt string      `json:"createdAt"`
}

// ImportSummary counts the outcome of one import run.
type ImportSummary struct {
	Created int
	Skipped int
	Invalid int
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <blogs.json>",
		Short: "Import posts from a legacy blogs.json export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			app, err := NewApp(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			summary, err := importBlogs(cmd.Context(), app.Blogs, f, c.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d posts, %d already present, %d invalid\n",
				summary.Created, summary.Skipped, summary.Invalid)
			return nil
		},
	}
}

// importBlogs inserts every legacy post whose title is not stored yet.
// Posts that fail validation are logged and counted, not fatal.
func importBlogs(ctx context.Context, blogs *services.BlogService, r io.Reader, log logrus.FieldLogger) (ImportSummary, error) {
	var summary ImportSummary
	var export legacyExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return summary, fmt.Errorf("failed to decode legacy export: %w", err)
	}

	for _, b := range export.Blogs {
		in := services.BlogInput{
			Title:   b.Title,
			Snippet: b.Snippet,
			Body:    b.Body,
			Author:  b.Author,
			Image:   b.Image,
		}
		_, created, err := blogs.ImportBlog(ctx, in, parseLegacyTime(b.CreatedAt))
		switch {
		case services.KindOf(err) == services.KindValidation:
			summary.Invalid++
			log.WithFields(logrus.Fields{"legacy_id": b.ID.String(), "title": b.Title}).
				WithError(err).Warn("skipping invalid legacy post")
		case err != nil:
			return summary, err
		case created:
			summary.Created++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}

// parseLegacyTime accepts the timestamp layouts the old export wrote.
// A zero time lets the store assign the creation time.
func parseLegacyTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/roster/internal/formatter"
	"github.com/desertthunder/roster/internal/models"
	"github.com/desertthunder/roster/internal/shared"
	"github.com/desertthunder/roster/internal/tasks"
	"github.com/urfave/cli/v3"
)

// UsersList loads the directory once, applies --query and prints the filtered view.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	thumbnails := cmd.Bool("thumbnails")
	if thumbnails && format != formatter.FormatMarkdown {
		return fmt.Errorf("%w: --thumbnails requires --format markdown", shared.ErrInvalidFlag)
	}

	st, err := r.loadStore(ctx)
	if err != nil {
		return err
	}

	query := cmd.String("query")
	st.SetQuery(query)
	records := st.FilteredView()
	title := r.config.UI.Title

	r.logger.Info("users filtered", "query", query, "matches", len(records), "total", st.Len())

	switch {
	case thumbnails:
		return r.exportWithThumbnails(ctx, title, records, output, int(cmd.Int("workers")))

	case output != "":
		if err := formatter.WriteFile(format, title, records, output); err != nil {
			return err
		}
		r.logger.Info("users written", "path", output, "format", format)
		return r.writePlain("✓ Wrote %d users to %s\n", len(records), output)
	}

	data, err := formatter.Render(format, title, records)
	if err != nil {
		return err
	}
	if err := r.writeBytes(data); err != nil {
		return err
	}

	if len(records) == 0 && format == formatter.FormatText {
		if suggestions := models.Suggest(st.Dataset(), query, 3); len(suggestions) > 0 {
			return r.writePlain("\nDid you mean: %s?\n", joinNames(suggestions))
		}
	}
	return nil
}

func joinNames(records []models.Record) string {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.FullName()
	}
	return strings.Join(names, ", ")
}

// exportWithThumbnails downloads thumbnails concurrently, then writes a README linking the local copies.
func (r *Runner) exportWithThumbnails(ctx context.Context, title string, records []models.Record, dir string, workers int) error {
	if dir == "" {
		dir = "users"
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase)
			if update.Phase == tasks.SaveThumbnails {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	downloads, err := tasks.DownloadThumbnails(ctx, progressCh, records, tasks.ThumbnailOpts{
		OutputDir:  dir,
		NumWorkers: workers,
		RateLimit:  r.config.Source.RateLimit,
		HTTPClient: r.httpClient,
	})
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	for _, f := range downloads.Failed {
		r.logger.Warn("thumbnail not saved", "id", f.RecordID, "error", f.Error)
	}

	result, err := formatter.WriteMarkdownExport(title, records, dir, downloads.Thumbnails)
	if err != nil {
		return fmt.Errorf("failed to export markdown: %w", err)
	}

	return r.writePlain("✓ Exported %d users to %s (%d/%d thumbnails)\n",
		len(records), result.Directory, downloads.Saved, downloads.Total)
}

type findResult struct {
	Index int           `json:"index"`
	User  models.Record `json:"user"`
}

// UsersFind selects the user with the given ID and prints where it sits once the query is cleared.
func (r *Runner) UsersFind(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user ID is required", shared.ErrMissingArgument)
	}

	st, err := r.loadStore(ctx)
	if err != nil {
		return err
	}

	if q := cmd.String("query"); q != "" {
		st.SetQuery(q)
	}

	var target *models.Record
	for _, rec := range st.Dataset() {
		if rec.ID == id {
			target = &rec
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}

	st.Select(*target)
	idx, ok := st.ConsumeSelection()
	if !ok {
		return fmt.Errorf("%w: selection for %s could not be restored", shared.ErrRecordNotFound, id)
	}

	r.logger.Debug("selection restored", "id", id, "index", idx)

	if cmd.Bool("json") {
		return r.writeJSON(findResult{Index: idx, User: *target}, true)
	}
	return r.writePlain("%d\t%s <%s>\n", idx, target.FullName(), target.Email)
}

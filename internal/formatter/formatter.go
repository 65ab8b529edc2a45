// package formatter renders user records to various formats (JSON, CSV, Markdown, plain text) and writes them to disk
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/roster/internal/models"
	"github.com/desertthunder/roster/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat resolves a format name, accepting "md" and "txt" as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
	}
}

// Render dispatches to the exporter for f.
func Render(f Format, title string, records []models.Record) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(records, true)
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown:
		return ExportToMarkdown(title, records, nil)
	case FormatText, "":
		return ExportToText(title, records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts records to CSV format with columns: ID, First Name, Last Name, Email, Thumbnail
func ExportToCSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "First Name", "Last Name", "Email", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		row := []string{r.ID, r.FirstName, r.LastName, r.Email, r.ThumbnailURL}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes records as a JSON array; an empty list encodes as [].
func ExportToJSON(records []models.Record, pretty bool) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	return shared.MarshalJSON(records, pretty)
}

// ExportToMarkdown renders records as a Markdown list with avatar images.
//
// thumbnails maps record IDs to local image paths; records without an entry link their remote thumbnail URL.
func ExportToMarkdown(title string, records []models.Record, thumbnails map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Users**: %d\n\n", len(records)))

	for i, r := range records {
		image := r.ThumbnailURL
		if local, ok := thumbnails[r.ID]; ok {
			image = local
		}

		buf.WriteString(fmt.Sprintf("%d. ", i+1))
		if image != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s) ", r.FullName(), image))
		}
		buf.WriteString(fmt.Sprintf("**%s**", r.FullName()))
		if r.Email != "" {
			buf.WriteString(fmt.Sprintf(" <%s>", r.Email))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders records as a numbered plain text list.
func ExportToText(title string, records []models.Record) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("%s\n", title))
	}
	buf.WriteString(fmt.Sprintf("Users: %d\n\n", len(records)))

	for i, r := range records {
		buf.WriteString(fmt.Sprintf("%d. %s <%s>\n", i+1, r.FullName(), r.Email))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes.
//
// A nil client uses a default client with a 30 second timeout.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteFile renders records in format f and writes them to path.
func WriteFile(f Format, title string, records []models.Record, path string) error {
	data, err := Render(f, title, records)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	Thumbnails int
}

// ThumbnailPath returns the location of a record's thumbnail relative to an export directory.
func ThumbnailPath(id string) string {
	return filepath.ToSlash(filepath.Join("thumbnails", id+".jpg"))
}

// SaveThumbnail writes image data to {dir}/thumbnails/{id}.jpg and returns the path relative to dir.
//
// IDs that are not a single path element are refused, so the file always lands inside dir.
func SaveThumbnail(outputDir, id string, data []byte) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("unsafe thumbnail name %q", id)
	}

	rel := ThumbnailPath(id)
	path := filepath.Join(outputDir, filepath.FromSlash(rel))
	if inside, err := filepath.Rel(outputDir, path); err != nil || strings.HasPrefix(inside, "..") {
		return "", fmt.Errorf("thumbnail path %q escapes %s", rel, outputDir)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return rel, nil
}

// WriteMarkdownExport writes records to {dir}/README.md.
//
// thumbnails maps record IDs to local image paths (see [SaveThumbnail]); records without an entry keep their
// remote thumbnail link.
func WriteMarkdownExport(title string, records []models.Record, outputDir string, thumbnails map[string]string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "users"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(title, records, thumbnails)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{
		Directory:  outputDir,
		Files:      []string{mdFile},
		Thumbnails: len(thumbnails),
	}, nil
}

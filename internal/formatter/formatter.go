// package formatter provides functions to export scan results to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/store"
)

// PlaylistURL builds the public web URL for a playlist recorded on a scan.
func PlaylistURL(playlistID string) string {
	if playlistID == "" {
		return ""
	}
	return "https://open.spotify.com/playlist/" + playlistID
}

// ExportToMarkdown converts a scan to a shareable Markdown card.
func ExportToMarkdown(scan *store.Scan) ([]byte, error) {
	if scan == nil {
		return nil, fmt.Errorf("no scan to export")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Vibe: %s\n\n", strings.ToUpper(scan.Mood)))
	buf.WriteString(fmt.Sprintf("**Genre**: %s\n", scan.Genre))
	buf.WriteString(fmt.Sprintf("**Confidence**: %.0f%%\n", scan.Confidence*100))
	buf.WriteString(fmt.Sprintf("**Scanned**: %s\n\n", scan.CreatedAt.Format(time.RFC1123)))

	if scan.Trace != "" {
		buf.WriteString(fmt.Sprintf("> %s\n\n", scan.Trace))
	}

	if scan.PlaylistID != "" {
		buf.WriteString("## Playlist\n\n")
		buf.WriteString(fmt.Sprintf("[%s](%s)\n", scan.PlaylistName, PlaylistURL(scan.PlaylistID)))
	} else {
		buf.WriteString("No playlist matched this vibe.\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a scan to plain text format
func ExportToText(scan *store.Scan) ([]byte, error) {
	if scan == nil {
		return nil, fmt.Errorf("no scan to export")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Mood: %s\n", scan.Mood))
	buf.WriteString(fmt.Sprintf("Genre: %s\n", scan.Genre))
	buf.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", scan.Confidence*100))
	if scan.Trace != "" {
		buf.WriteString(fmt.Sprintf("Logic: %s\n", scan.Trace))
	}
	if scan.PlaylistID != "" {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", scan.PlaylistName))
		buf.WriteString(fmt.Sprintf("Link: %s\n", PlaylistURL(scan.PlaylistID)))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of a scan.
func ToJSON(scan *store.Scan) ([]byte, error) {
	return shared.MarshalJSON(scan, true)
}

// ExportHistoryCSV converts scan history to CSV format with columns:
// ID, Created, Mood, Age, Confidence, Genre, Playlist, PlaylistID
func ExportHistoryCSV(scans []*store.Scan) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Created", "Mood", "Age", "Confidence", "Genre", "Playlist", "PlaylistID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, scan := range scans {
		record := []string{
			scan.ID,
			scan.CreatedAt.Format(time.RFC3339),
			scan.Mood,
			strconv.Itoa(scan.Age),
			strconv.FormatFloat(scan.Confidence, 'f', 2, 64),
			scan.Genre,
			scan.PlaylistName,
			scan.PlaylistID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteShareCard exports a scan to the given path, choosing the format from
// the extension: .md, .txt, or .json.
//
// Defaults to the scan ID with a .md extension when path is empty.
func WriteShareCard(scan *store.Scan, path string) (string, error) {
	if scan == nil {
		return "", fmt.Errorf("no scan to export")
	}

	if path == "" {
		path = scan.ID + ".md"
	}

	var data []byte
	var err error

	switch {
	case strings.HasSuffix(path, ".txt"):
		data, err = ExportToText(scan)
	case strings.HasSuffix(path, ".json"):
		data, err = ToJSON(scan)
	default:
		data, err = ExportToMarkdown(scan)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write share card: %w", err)
	}

	return path, nil
}

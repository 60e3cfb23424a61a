package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vibescan/internal/shared"
)

// Scan is one persisted scan: the locked observation plus the playlist it resolved to.
//
// PlaylistID and PlaylistName are empty when resolution yielded no result.
type Scan struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	Mood         string    `json:"mood"`
	Age          int       `json:"age"`
	Confidence   float64   `json:"confidence"`
	Genre        string    `json:"genre"`
	Trace        string    `json:"trace"`
	PrimaryQuery string    `json:"primary_query"`
	PlaylistID   string    `json:"playlist_id,omitempty"`
	PlaylistName string    `json:"playlist_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScanRepository persists [Scan] records.
type ScanRepository struct {
	db *sql.DB
}

// NewScanRepository creates a new [ScanRepository] with the given database connection.
func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// nextSequence atomically increments and returns the next scan sequence number.
//
// Sequence numbers provide human-readable ordering; they are not exposed as identifiers.
func (r *ScanRepository) nextSequence() (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE scans_sequence SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow("SELECT value FROM scans_sequence WHERE id = 1").Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Create inserts a new scan with a generated ID and sequence, filling both into the record.
func (r *ScanRepository) Create(scan *Scan) error {
	sequence, err := r.nextSequence()
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	scan.ID = shared.GenerateID()
	scan.Sequence = sequence
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO scans (id, sequence, mood, age, confidence, genre, trace, primary_query, playlist_id, playlist_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		scan.ID, scan.Sequence, scan.Mood, scan.Age, scan.Confidence,
		scan.Genre, scan.Trace, scan.PrimaryQuery, scan.PlaylistID, scan.PlaylistName, scan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}

	return nil
}

// Get retrieves a scan by ID.
func (r *ScanRepository) Get(id string) (*Scan, error) {
	row := r.db.QueryRow(scanSelect+" WHERE id = ?", id)
	scan, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scan not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scan: %w", err)
	}
	return scan, nil
}

// Latest retrieves the most recent scan, or an error if none exist.
func (r *ScanRepository) Latest() (*Scan, error) {
	row := r.db.QueryRow(scanSelect + " ORDER BY sequence DESC LIMIT 1")
	scan, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no scans recorded")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest scan: %w", err)
	}
	return scan, nil
}

// List retrieves scans in reverse chronological order, up to limit (0 for all).
func (r *ScanRepository) List(limit int) ([]*Scan, error) {
	query := scanSelect + " ORDER BY sequence DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return scans, nil
}

const scanSelect = `
	SELECT id, sequence, mood, age, confidence, genre, trace, primary_query, playlist_id, playlist_name, created_at
	FROM scans
`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*Scan, error) {
	var (
		scan         Scan
		playlistID   sql.NullString
		playlistName sql.NullString
	)

	err := row.Scan(
		&scan.ID, &scan.Sequence, &scan.Mood, &scan.Age, &scan.Confidence,
		&scan.Genre, &scan.Trace, &scan.PrimaryQuery, &playlistID, &playlistName, &scan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	scan.PlaylistID = playlistID.String
	scan.PlaylistName = playlistName.String
	return &scan, nil
}

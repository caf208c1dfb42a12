package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
)

// DatasetExists returns true if a dataset with the given hash is already stored.
func (db *DB) DatasetExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM datasets WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDataset stores ds and all its rows in one transaction.
// Re-importing the same hash replaces the previous rows.
func (db *DB) InsertDataset(ds *model.Dataset, importedAt time.Time) error {
	if ds == nil || ds.Table == nil {
		return errors.New("insert dataset: nil dataset")
	}
	cols, err := json.Marshal(ds.Table.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM participants WHERE dataset_hash = ?", ds.Hash); err != nil {
		return fmt.Errorf("clear participants: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO datasets(hash, source, rows, matches, champions, columns, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ds.Hash, ds.Source, ds.Table.Len(), ds.Table.MatchCount(), len(ds.Table.Champions()),
		string(cols), importedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO participants(
			dataset_hash, row_idx, match_id, summoner, team_id, champion, win,
			items, spell1, spell2, rune_core, rune_sub, kills, deaths, assists
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range ds.Table.Rows {
		items, err := json.Marshal(p.Items)
		if err != nil {
			return fmt.Errorf("encode items for row %d: %w", i, err)
		}
		_, err = stmt.Exec(
			ds.Hash, i, p.MatchID, p.Summoner, p.TeamID, p.Champion, boolInt(p.Win),
			string(items), p.Spell1, p.Spell2, p.RuneCore, p.RuneSub,
			p.Kills, p.Deaths, p.Assists,
		)
		if err != nil {
			return fmt.Errorf("insert participant row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

const datasetCols = "hash, source, rows, matches, champions, imported_at"

func scanInfo(sc interface{ Scan(...any) error }) (model.DatasetInfo, error) {
	var info model.DatasetInfo
	var at string
	if err := sc.Scan(&info.Hash, &info.Source, &info.Rows, &info.Matches, &info.Champions, &at); err != nil {
		return info, err
	}
	info.ImportedAt, _ = time.Parse(time.RFC3339, at)
	return info, nil
}

// ListDatasets returns all stored datasets, most recently imported first.
func (db *DB) ListDatasets() ([]model.DatasetInfo, error) {
	rows, err := db.conn.Query("SELECT " + datasetCols + " FROM datasets ORDER BY imported_at DESC, hash")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DatasetInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// GetDatasetByPrefix finds the first dataset whose hash starts with prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetDatasetByPrefix(prefix string) (*model.DatasetInfo, error) {
	info, err := scanInfo(db.conn.QueryRow(
		"SELECT "+datasetCols+" FROM datasets WHERE hash LIKE ? ORDER BY hash LIMIT 1", prefix+"%"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LatestDataset returns the most recently imported dataset, or nil, nil when empty.
func (db *DB) LatestDataset() (*model.DatasetInfo, error) {
	info, err := scanInfo(db.conn.QueryRow(
		"SELECT " + datasetCols + " FROM datasets ORDER BY imported_at DESC, hash LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LoadDataset rebuilds the normalized table of the dataset with the given hash.
func (db *DB) LoadDataset(hash string) (*model.Dataset, error) {
	var source, cols string
	err := db.conn.QueryRow("SELECT source, columns FROM datasets WHERE hash = ?", hash).Scan(&source, &cols)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %s not found", hash)
	}
	if err != nil {
		return nil, err
	}

	t := &model.Table{}
	if err := json.Unmarshal([]byte(cols), &t.Columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT match_id, summoner, team_id, champion, win, items,
		       spell1, spell2, rune_core, rune_sub, kills, deaths, assists
		FROM participants WHERE dataset_hash = ? ORDER BY row_idx`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Participant
		var win int
		var items string
		if err := rows.Scan(&p.MatchID, &p.Summoner, &p.TeamID, &p.Champion, &win, &items,
			&p.Spell1, &p.Spell2, &p.RuneCore, &p.RuneSub, &p.Kills, &p.Deaths, &p.Assists); err != nil {
			return nil, err
		}
		p.Win = win != 0
		if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		t.Rows = append(t.Rows, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &model.Dataset{Hash: hash, Source: source, Table: t}, nil
}

// DeleteDataset removes a dataset and its rows. It reports whether anything was deleted.
func (db *DB) DeleteDataset(hash string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM participants WHERE dataset_hash = ?", hash); err != nil {
		return false, err
	}
	res, err := tx.Exec("DELETE FROM datasets WHERE hash = ?", hash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// SaveIconIndex replaces the stored icon dictionary with ix.
func (db *DB) SaveIconIndex(ix *icons.Index) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM icon_entries"); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO icon_meta(id, version, locale, fetched_at) VALUES (1, ?, ?, ?)`,
		ix.Version, ix.Locale, ix.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert icon meta: %w", err)
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO icon_entries(kind, id, name, image, url) VALUES (?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range ix.Entries() {
		if _, err := stmt.Exec(string(e.Kind), e.ID, e.Name, e.Image, e.URL); err != nil {
			return fmt.Errorf("insert icon %s/%s: %w", e.Kind, e.ID, err)
		}
	}
	return tx.Commit()
}

// LoadIconIndex returns the stored icon dictionary, or nil, nil if none was saved.
func (db *DB) LoadIconIndex() (*icons.Index, error) {
	var version, locale, at string
	err := db.conn.QueryRow("SELECT version, locale, fetched_at FROM icon_meta WHERE id = 1").
		Scan(&version, &locale, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	fetched, _ := time.Parse(time.RFC3339, at)
	ix := icons.NewIndex(version, locale, fetched)

	rows, err := db.conn.Query("SELECT kind, id, name, image, url FROM icon_entries")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []icons.Entry
	for rows.Next() {
		var e icons.Entry
		var kind string
		if err := rows.Scan(&kind, &e.ID, &e.Name, &e.Image, &e.URL); err != nil {
			return nil, err
		}
		e.Kind = icons.Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// same insertion order as the fetch, so name collisions resolve identically
	ix.AddAll(entries)
	return ix, nil
}

// RecordIconRefreshFailure stores the time of the latest failed dictionary fetch.
func (db *DB) RecordIconRefreshFailure(at time.Time) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO icon_refresh(id, last_failure) VALUES (1, ?)`,
		at.UTC().Format(time.RFC3339))
	return err
}

// LastIconRefreshFailure returns the time of the latest failed fetch, or the
// zero time if none was recorded.
func (db *DB) LastIconRefreshFailure() (time.Time, error) {
	var at string
	err := db.conn.QueryRow("SELECT last_failure FROM icon_refresh WHERE id = 1").Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, at)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

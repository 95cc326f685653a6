package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/hbomb79/Trove/internal/database"
)

type PlaylistStore struct{}

// InsertPlaylistIfAbsent creates the playlist if no playlist with the same external
// ID exists. An existing playlist is left untouched (it's name and description are
// NOT updated).
func (store *PlaylistStore) InsertPlaylistIfAbsent(db database.Queryable, playlistID string, name string, description string) error {
	_, err := db.Exec(db.Rebind(`
		INSERT INTO playlists(playlist_id, name, description, created_date)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(playlist_id) DO NOTHING
	`), playlistID, name, description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert playlist %s: %w", playlistID, err)
	}

	return nil
}

// GetPlaylistRowID returns the catalog row ID for the playlist with the given external ID.
func (store *PlaylistStore) GetPlaylistRowID(db database.Queryable, playlistID string) (int64, error) {
	var id int64
	if err := db.Get(&id, db.Rebind(`SELECT id FROM playlists WHERE playlist_id=?`), playlistID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("failed to select playlist %s: %w", playlistID, err)
	}

	return id, nil
}

// InsertPlaylistItem links the video to the playlist at the given position. If
// the video is already linked to this playlist, the position is updated instead.
func (store *PlaylistStore) InsertPlaylistItem(db database.Queryable, playlistRowID int64, videoRowID int64, position int) error {
	_, err := db.Exec(db.Rebind(`
		INSERT INTO playlist_items(playlist_id, video_id, position)
		VALUES(?, ?, ?)
		ON CONFLICT(playlist_id, video_id) DO UPDATE SET position=EXCLUDED.position
	`), playlistRowID, videoRowID, position)
	if err != nil {
		return fmt.Errorf("failed to link video %d to playlist %d: %w", videoRowID, playlistRowID, err)
	}

	return nil
}

func (store *PlaylistStore) GetPlaylist(db database.Queryable, id int64) (*Playlist, error) {
	var playlist Playlist
	if err := db.Get(&playlist, db.Rebind(`SELECT * FROM playlists WHERE id=?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to select playlist %d: %w", id, err)
	}

	return &playlist, nil
}

func (store *PlaylistStore) ListPlaylists(db database.Queryable) ([]*Playlist, error) {
	playlists := make([]*Playlist, 0)
	if err := db.Select(&playlists, `SELECT * FROM playlists ORDER BY created_date DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to select playlists: %w", err)
	}

	return playlists, nil
}

// ListPlaylistVideos returns the completed videos linked to the playlist,
// ordered by their position in the playlist.
func (store *PlaylistStore) ListPlaylistVideos(db database.Queryable, playlistRowID int64) ([]*PlaylistVideo, error) {
	query, args, err := squirrel.Select("videos.*", "playlist_items.position").
		From("playlist_items").
		Join("videos ON videos.id = playlist_items.video_id").
		Where(squirrel.Eq{"playlist_items.playlist_id": playlistRowID, "videos.status": VideoCompleted}).
		OrderBy("playlist_items.position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct select playlist videos query: %w", err)
	}

	videos := make([]*PlaylistVideo, 0)
	if err := db.Select(&videos, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to select videos for playlist %d: %w", playlistRowID, err)
	}

	return videos, nil
}

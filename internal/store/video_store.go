package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/models"
	"github.com/google/uuid"
)

// UserFeed is one home-feed entry: a user summary plus their latest videos.
type UserFeed struct {
	ID                 uuid.UUID      `json:"id"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	ProfilePicture     []byte         `json:"profile_picture,omitempty"`
	ProfilePictureType string         `json:"profile_picture_type,omitempty"`
	Videos             []models.Video `json:"videos"`
}

type PostgresVideoStore struct {
	db *sql.DB
}

func NewPostgresVideoStore(db *sql.DB) *PostgresVideoStore {
	if db == nil {
		panic("db cannot be nil for PostgresVideoStore")
	}
	return &PostgresVideoStore{db: db}
}

type VideoStore interface {
	CreateVideo(video *models.Video) error
	GetVideoByID(videoID uuid.UUID) (*models.Video, error)
	UpdateVideo(video *models.Video) error
	DeleteVideo(videoID uuid.UUID, userID uuid.UUID) error
	GetUserVideos(userID uuid.UUID, page int, limit int) ([]models.Video, int, error)
	GetHomeFeed(videosPerUser int) ([]UserFeed, error)
}

// CreateVideo inserts the video record and appends its id to the owner's
// reference list in a single transaction.
func (pg *PostgresVideoStore) CreateVideo(video *models.Video) error {

	tx, err := pg.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO videos (title, description, url, media_id, user_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at;
	`

	err = tx.QueryRow(query,
		video.Title,
		video.Description,
		video.Url,
		video.Media_ID,
		video.User_ID,
	).Scan(&video.Id, &video.Created_At, &video.Updated_At)
	if err != nil {
		return fmt.Errorf("error running create video query: %w", err)
	}

	query = `
	INSERT INTO user_videos (user_id, video_id)
	VALUES ($1, $2);
	`

	_, err = tx.Exec(query, video.User_ID, video.Id)
	if err != nil {
		return fmt.Errorf("error appending video to user list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (pg *PostgresVideoStore) GetVideoByID(videoID uuid.UUID) (*models.Video, error) {
	video := &models.Video{}

	query := `
	SELECT id, title, description, url, media_id, user_id, created_at, updated_at
	FROM videos
	WHERE id = $1;
	`

	err := pg.db.QueryRow(query, videoID).Scan(
		&video.Id,
		&video.Title,
		&video.Description,
		&video.Url,
		&video.Media_ID,
		&video.User_ID,
		&video.Created_At,
		&video.Updated_At,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error running get video by id query: %w", err)
	}

	return video, nil
}

func (pg *PostgresVideoStore) UpdateVideo(video *models.Video) error {

	query := `
	UPDATE videos
	SET title = $1, description = $2, url = $3, media_id = $4, updated_at = NOW()
	WHERE id = $5
	RETURNING updated_at;
	`

	err := pg.db.QueryRow(query,
		video.Title,
		video.Description,
		video.Url,
		video.Media_ID,
		video.Id,
	).Scan(&video.Updated_At)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrVideoNotFound
	}
	if err != nil {
		return fmt.Errorf("error running update video query: %w", err)
	}

	return nil
}

// DeleteVideo removes the owner's reference and the video record in a single
// transaction. Removal of the media object at the host happens before this
// call and is not compensated if the transaction fails.
func (pg *PostgresVideoStore) DeleteVideo(videoID uuid.UUID, userID uuid.UUID) error {

	tx, err := pg.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	DELETE FROM user_videos
	WHERE user_id = $1 AND video_id = $2;
	`

	_, err = tx.Exec(query, userID, videoID)
	if err != nil {
		return fmt.Errorf("error removing video from user list: %w", err)
	}

	query = `
	DELETE FROM videos
	WHERE id = $1;
	`

	res, err := tx.Exec(query, videoID)
	if err != nil {
		return fmt.Errorf("error running delete video query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete video result: %w", err)
	}
	if n == 0 {
		return ErrVideoNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetUserVideos pages through the user's reference list, newest first.
// Returns the page of videos and the user's total video count.
func (pg *PostgresVideoStore) GetUserVideos(userID uuid.UUID, page int, limit int) ([]models.Video, int, error) {
	offset := (page - 1) * limit

	countQuery := `
	SELECT COUNT(*)
	FROM user_videos
	WHERE user_id = $1;
	`

	var total int
	if err := pg.db.QueryRow(countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total video count: %w", err)
	}

	query := `
	SELECT v.id, v.title, v.description, v.url, v.media_id, v.user_id, v.created_at, v.updated_at
	FROM videos v
	INNER JOIN user_videos uv ON v.id = uv.video_id
	WHERE uv.user_id = $1
	ORDER BY v.created_at DESC
	LIMIT $2 OFFSET $3;
	`

	rows, err := pg.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get user videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var video models.Video

		err := rows.Scan(
			&video.Id,
			&video.Title,
			&video.Description,
			&video.Url,
			&video.Media_ID,
			&video.User_ID,
			&video.Created_At,
			&video.Updated_At,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating over video rows: %w", err)
	}

	return videos, total, nil
}

// GetHomeFeed returns every user that owns at least one video, in creation
// order, each capped at videosPerUser most-recent videos.
func (pg *PostgresVideoStore) GetHomeFeed(videosPerUser int) ([]UserFeed, error) {

	query := `
	SELECT u.id, u.first_name, u.last_name, u.profile_picture, u.profile_picture_type,
	       v.id, v.title, v.description, v.url, v.media_id, v.user_id, v.created_at, v.updated_at
	FROM users u
	INNER JOIN LATERAL (
		SELECT vi.id, vi.title, vi.description, vi.url, vi.media_id, vi.user_id, vi.created_at, vi.updated_at
		FROM videos vi
		INNER JOIN user_videos uv ON vi.id = uv.video_id
		WHERE uv.user_id = u.id
		ORDER BY vi.created_at DESC
		LIMIT $1
	) v ON true
	ORDER BY u.created_at ASC, v.created_at DESC;
	`

	rows, err := pg.db.Query(query, videosPerUser)
	if err != nil {
		return nil, fmt.Errorf("failed to get home feed: %w", err)
	}
	defer rows.Close()

	var feed []UserFeed
	for rows.Next() {
		var entry UserFeed
		var video models.Video

		err := rows.Scan(
			&entry.ID,
			&entry.FirstName,
			&entry.LastName,
			&entry.ProfilePicture,
			&entry.ProfilePictureType,
			&video.Id,
			&video.Title,
			&video.Description,
			&video.Url,
			&video.Media_ID,
			&video.User_ID,
			&video.Created_At,
			&video.Updated_At,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}

		if len(feed) > 0 && feed[len(feed)-1].ID == entry.ID {
			last := &feed[len(feed)-1]
			last.Videos = append(last.Videos, video)
			continue
		}

		entry.Videos = []models.Video{video}
		feed = append(feed, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over feed rows: %w", err)
	}

	return feed, nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/models"
	"github.com/google/uuid"
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// ProfileUpdate carries the full mutable field set of a profile edit. Fields
// left empty by the caller overwrite the stored values with empty strings.
// The picture is replaced only when Picture is non-nil.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Bio         string
	Phone       string
	Picture     []byte
	PictureType string
}

type UserStore interface {
	CreateUser(*models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	UpdateProfile(id uuid.UUID, update ProfileUpdate) (*models.User, error)
}

func (pg *PostgresUserStore) CreateUser(user *models.User) error {

	query := `
	INSERT INTO users (first_name, last_name, email, phone, bio, password_hash, is_admin)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at;
	`
	err := pg.db.QueryRow(query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Bio,
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.ID, &user.Created_At, &user.Updated_At)

	if err != nil {
		return fmt.Errorf("error running create user query: %w", err)
	}

	return nil
}

func (pg *PostgresUserStore) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}

	query := `
	SELECT id, first_name, last_name, email, phone, bio, password_hash, is_admin,
	       profile_picture, profile_picture_type, created_at, updated_at
	FROM users
	WHERE email = $1
	LIMIT 1;
	`

	err := pg.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.Bio,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.ProfilePicture,
		&user.ProfilePictureType,
		&user.Created_At,
		&user.Updated_At,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error running get user by email query: %w", err)
	}

	if err := pg.loadVideoRefs(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (pg *PostgresUserStore) GetUserByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}

	query := `
	SELECT id, first_name, last_name, email, phone, bio, password_hash, is_admin,
	       profile_picture, profile_picture_type, created_at, updated_at
	FROM users
	WHERE id = $1;
	`

	err := pg.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.Bio,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.ProfilePicture,
		&user.ProfilePictureType,
		&user.Created_At,
		&user.Updated_At,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error running get user by id query: %w", err)
	}

	if err := pg.loadVideoRefs(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (pg *PostgresUserStore) UpdateProfile(id uuid.UUID, update ProfileUpdate) (*models.User, error) {

	// Whole-field-set overwrite: every mutable field is written, picture only
	// when new bytes were uploaded.
	var err error
	if update.Picture != nil {
		query := `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, phone = $4,
		    profile_picture = $5, profile_picture_type = $6, updated_at = NOW()
		WHERE id = $7;
		`
		_, err = execAffectingOne(pg.db, query,
			update.FirstName, update.LastName, update.Bio, update.Phone,
			update.Picture, update.PictureType, id)
	} else {
		query := `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, phone = $4, updated_at = NOW()
		WHERE id = $5;
		`
		_, err = execAffectingOne(pg.db, query,
			update.FirstName, update.LastName, update.Bio, update.Phone, id)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error running update profile query: %w", err)
	}

	return pg.GetUserByID(id)
}

func (pg *PostgresUserStore) loadVideoRefs(user *models.User) error {
	query := `
	SELECT video_id
	FROM user_videos
	WHERE user_id = $1
	ORDER BY position;
	`

	rows, err := pg.db.Query(query, user.ID)
	if err != nil {
		return fmt.Errorf("failed to get video refs: %w", err)
	}
	defer rows.Close()

	user.Videos = []uuid.UUID{}
	for rows.Next() {
		var videoID uuid.UUID
		if err := rows.Scan(&videoID); err != nil {
			return fmt.Errorf("failed to scan video ref: %w", err)
		}
		user.Videos = append(user.Videos, videoID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over video ref rows: %w", err)
	}

	return nil
}

func execAffectingOne(db *sql.DB, query string, args ...interface{}) (int64, error) {
	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	return n, nil
}

package repos

import (
	"errors"
	"strings"
	"time"

	"dcpstore/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrDuplicate is reported by Create when the username or email is taken.
var ErrDuplicate = errors.New("username or email already exists")

// Create inserts a new credential and returns it with its assigned id.
// The unique indexes on username/email are the authority on duplicates.
func (r *UserRepo) Create(username, email, hash string) (*domain.User, error) {
	res, err := r.DB.Exec(
		`INSERT INTO users(username,email,password_hash) VALUES(?,?,?)`,
		username, email, hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "constraint failed") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: id, Username: username, Email: email, Hash: hash}, nil
}

// ByUsernameOrEmail matches the login identifier against either column.
func (r *UserRepo) ByUsernameOrEmail(ident string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT id,username,email,password_hash,created_at
	  FROM users
	  WHERE LOWER(username)=LOWER(?) OR LOWER(email)=LOWER(?)`, ident, ident)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,username,email,password_hash,created_at FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BindSession binds sid to a user with the given time-to-live. Rebinding an
// existing sid replaces its identity; a session holds exactly one.
func (r *UserRepo) BindSession(sid string, userID int64, ttl time.Duration) error {
	expires := time.Now().UTC().Add(ttl).Format(time.RFC3339)
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,expires_at)
	                     VALUES(?,?,?)
	                     ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, expires_at=excluded.expires_at`,
		sid, userID, expires)
	return err
}

// SessionUser resolves a live session to its user. Expired rows behave as
// absent (sql.ErrNoRows).
func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id,u.username,u.email,u.password_hash,u.created_at
	  FROM sessions s
	  JOIN users u ON u.id=s.user_id
	  WHERE s.id=? AND s.expires_at > ?`, sid, now)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UnbindSession destroys a session. Unbinding an unknown sid is a no-op.
func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE id=?`, sid)
	return err
}

// PurgeExpired removes sessions past their expiry.
func (r *UserRepo) PurgeExpired() error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now)
	return err
}

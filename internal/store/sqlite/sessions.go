package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, user_id, refresh_token_hash, expires_at, created_at, last_seen_at,
	ip_address, device_type, platform, client_name, client_version, device_name`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.Session.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		refreshTokenHash sql.NullString
		expiresAt        string
		createdAt        string
		lastSeenAt       string
		ipAddress        sql.NullString
		deviceType       sql.NullString
		platform         sql.NullString
		clientName       sql.NullString
		clientVersion    sql.NullString
		deviceName       sql.NullString
	)

	err := scanner.Scan(
		&sess.ID,
		&sess.UserID,
		&refreshTokenHash,
		&expiresAt,
		&createdAt,
		&lastSeenAt,
		&ipAddress,
		&deviceType,
		&platform,
		&clientName,
		&clientVersion,
		&deviceName,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	sess.ExpiresAt, err = parseTime(expiresAt)
	if err != nil {
		return nil, err
	}
	sess.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sess.LastSeenAt, err = parseTime(lastSeenAt)
	if err != nil {
		return nil, err
	}

	// Optional string fields.
	if refreshTokenHash.Valid {
		sess.RefreshTokenHash = refreshTokenHash.String
	}
	if ipAddress.Valid {
		sess.IPAddress = ipAddress.String
	}
	if deviceType.Valid {
		sess.DeviceType = deviceType.String
	}
	if platform.Valid {
		sess.Platform = platform.String
	}
	if clientName.Valid {
		sess.ClientName = clientName.String
	}
	if clientVersion.Valid {
		sess.ClientVersion = clientVersion.String
	}
	if deviceName.Valid {
		sess.DeviceName = deviceName.String
	}

	return &sess, nil
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, user_id, refresh_token_hash, expires_at, created_at, last_seen_at,
			ip_address, device_type, platform, client_name, client_version, device_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		nullString(session.RefreshTokenHash),
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.LastSeenAt),
		nullString(session.IPAddress),
		nullString(session.DeviceType),
		nullString(session.Platform),
		nullString(session.ClientName),
		nullString(session.ClientVersion),
		nullString(session.DeviceName),
	)
	return err
}

// GetSessionByRefreshToken retrieves a session by the hash of its refresh token.
// Returns store.ErrNotFound when no session matches.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateSession writes the rotating session fields.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			refresh_token_hash = ?, expires_at = ?, last_seen_at = ?, ip_address = ?
		WHERE id = ?`,
		nullString(session.RefreshTokenHash),
		formatTime(session.ExpiresAt),
		formatTime(session.LastSeenAt),
		nullString(session.IPAddress),
		session.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSession removes a session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAllUserSessions removes every session belonging to a user.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes all sessions past their expiry.
// Returns the number of sessions deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(time.Now()))
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

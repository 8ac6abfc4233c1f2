package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/murmurchat/murmur/internal/domain"
)

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const roomColumns = `id, name, description, created_by, created_at, is_private`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(&rm.ID, &rm.Name, &rm.Description, &rm.CreatedBy,
		&rm.CreatedAt, &rm.IsPrivate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (name, description, created_by, is_private)
		VALUES ($1, $2, $3, $4)
		RETURNING `+roomColumns,
		room.Name, room.Description, room.CreatedBy, room.IsPrivate)

	created, err := scanRoom(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrRoomAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *RoomRepository) Update(ctx context.Context, id int64, name, description string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE rooms SET name = $1, description = $2 WHERE id = $3`,
		name, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return scanRoom(r.pool.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
}

func (r *RoomRepository) GetByName(ctx context.Context, name string) (*domain.Room, error) {
	return scanRoom(r.pool.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE name = $1`, name))
}

func (r *RoomRepository) GetAll(ctx context.Context) ([]domain.Room, error) {
	return r.collectRooms(ctx, `
		SELECT `+roomColumns+` FROM rooms
		WHERE is_private = false
		ORDER BY created_at DESC`)
}

func (r *RoomRepository) GetByUser(ctx context.Context, userID int64) ([]domain.Room, error) {
	return r.collectRooms(ctx, `
		SELECT r.id, r.name, r.description, r.created_by, r.created_at, r.is_private
		FROM rooms r
		JOIN room_members rm ON r.id = rm.room_id
		WHERE rm.user_id = $1
		ORDER BY r.created_at DESC`, userID)
}

func (r *RoomRepository) collectRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) AddMember(ctx context.Context, userID, roomID int64, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO room_members (user_id, room_id, role)
		VALUES ($1, $2, $3)`,
		userID, roomID, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *RoomRepository) RemoveMember(ctx context.Context, userID, roomID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM room_members WHERE user_id = $1 AND room_id = $2`,
		userID, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotMember
	}
	return nil
}

func (r *RoomRepository) GetMembers(ctx context.Context, roomID int64) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at, u.last_login, u.is_active
		FROM users u
		JOIN room_members rm ON u.id = rm.user_id
		WHERE rm.room_id = $1
		ORDER BY u.username`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *RoomRepository) IsMember(ctx context.Context, userID, roomID int64) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx,
		`SELECT 1 FROM room_members WHERE user_id = $1 AND room_id = $2`,
		userID, roomID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

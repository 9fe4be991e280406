package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/lib/pq"
)

type postgresChatRoomRepository struct {
	exec SQLExecutor
}

func (r *postgresChatRoomRepository) Create(ctx context.Context, room *models.ChatRoom) error {
	_, err := r.exec.ExecContext(ctx,
		`INSERT INTO chat_rooms (id, type, event_id, created_at) VALUES ($1, $2, $3, $4)`,
		room.ID, room.Type, room.EventID, room.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat room: %w", err)
	}

	_, err = r.exec.ExecContext(ctx,
		`INSERT INTO chat_room_members (room_id, user_id)
		 SELECT $1, unnest($2::text[])
		 ON CONFLICT DO NOTHING`,
		room.ID, pq.Array(room.MemberIDs))
	if err != nil {
		return fmt.Errorf("failed to add chat room members: %w", err)
	}
	return nil
}

func (r *postgresChatRoomRepository) FindDirectRoom(ctx context.Context, userA, userB string) (*models.ChatRoom, error) {
	query := `
		SELECT r.id, r.type, r.event_id, r.created_at,
		       ARRAY(SELECT m.user_id FROM chat_room_members m WHERE m.room_id = r.id ORDER BY m.user_id)
		FROM chat_rooms r
		JOIN chat_room_members a ON a.room_id = r.id AND a.user_id = $1
		JOIN chat_room_members b ON b.room_id = r.id AND b.user_id = $2
		WHERE r.type = $3
		ORDER BY r.created_at ASC
		LIMIT 1`

	room := &models.ChatRoom{}
	err := r.exec.QueryRowContext(ctx, query, userA, userB, models.ChatRoomDirect).Scan(
		&room.ID, &room.Type, &room.EventID, &room.CreatedAt, pq.Array(&room.MemberIDs),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatRoomNotFound
		}
		return nil, fmt.Errorf("failed to find chat room: %w", err)
	}
	return room, nil
}

func (r *postgresChatRoomRepository) AddMember(ctx context.Context, roomID, userID string) error {
	_, err := r.exec.ExecContext(ctx,
		`INSERT INTO chat_room_members (room_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		roomID, userID)
	if err != nil {
		if _, ok := isPQError(err, pqForeignKeyViolation); ok {
			return ErrChatRoomNotFound
		}
		return fmt.Errorf("failed to add chat room member: %w", err)
	}
	return nil
}

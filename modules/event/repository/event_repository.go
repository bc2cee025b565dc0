package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"sportmeet/core/database"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyRegistered = errors.New("user already registered for this event")
)

// EventRepository handles events and their registrations
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

type EventRepositoryInterface interface {
	List(ctx context.Context, filter entity.Filter) ([]entity.EventWithHost, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EventWithHost, error)
	Create(ctx context.Context, event *entity.Event) error

	// Update locks the event row, lets mutate change it and writes it back in
	// the same transaction. mutate can veto by returning an error.
	Update(ctx context.Context, id uuid.UUID, mutate func(*entity.Event) error) (*entity.Event, error)

	GetUser(ctx context.Context, id uuid.UUID) (*entity.UserSummary, error)

	// Register adds userID to the event's participants while holding the
	// event's row lock. check runs under the lock and can veto.
	Register(ctx context.Context, eventID, userID uuid.UUID, check func(*entity.Event) error) (*entity.Event, error)
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	ListParticipants(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error)
	ParticipantIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)

	MyEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	RegisteredEvents(ctx context.Context, userID uuid.UUID) ([]entity.EventWithHost, error)
}

const eventColumns = `e.id, e.title, e.description, e.event_date, e.longitude, e.latitude,
	e.category, e.skill_level, e.entry_fee, e.host_id, e.created_at, e.updated_at`

const eventWithHostSelect = `SELECT ` + eventColumns + `, u.name AS host_name, u.email AS host_email
	FROM events e
	JOIN users u ON u.id = e.host_id`

// ===================== Events =====================

func (r *EventRepository) List(ctx context.Context, filter entity.Filter) ([]entity.EventWithHost, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != nil {
		where = append(where, "e.category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.SkillLevel != nil {
		where = append(where, "e.skill_level = ?")
		args = append(args, *filter.SkillLevel)
	}
	if filter.MaxFee != nil {
		where = append(where, "e.entry_fee <= ?")
		args = append(args, *filter.MaxFee)
	}
	if filter.Search != nil {
		where = append(where, `e.title_search LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(searchKey(*filter.Search))+"%")
	}
	if filter.StartDate != nil {
		where = append(where, "e.event_date >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		where = append(where, "e.event_date <= ?")
		args = append(args, filter.EndDate.UTC())
	}

	query := eventWithHostSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.event_date ASC, e.created_at ASC, e.id ASC"

	events := []entity.EventWithHost{}
	if err := r.DB.SelectContext(ctx, &events, r.DB.Rebind(query), args...); err != nil {
		logger.Error("EventRepository:List", "error", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventWithHost, error) {
	var event entity.EventWithHost
	err := r.DB.GetContext(ctx, &event, r.DB.Rebind(eventWithHostSelect+" WHERE e.id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		logger.Error("EventRepository:GetByID", "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) error {
	now := time.Now().UTC()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Date = event.Date.UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	query := `
		INSERT INTO events (id, title, title_search, description, event_date, longitude, latitude,
			category, skill_level, entry_fee, host_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := r.DB.ExecContext(ctx, r.DB.Rebind(query),
		event.ID, event.Title, searchKey(event.Title), event.Description, event.Date, event.Longitude, event.Latitude,
		string(event.Category), event.SkillLevel, event.EntryFee, event.HostID, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		logger.Error("EventRepository:Create", "error", err)
		return err
	}
	return nil
}

// Update writes every mutable column under the event's row lock, so
// concurrent partial updates never write back each other's stale fields.
// host_id is never touched.
func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*entity.Event) error) (*entity.Event, error) {
	var event entity.Event
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = ?` + r.DB.LockClause()
		if err := tx.GetContext(ctx, &event, tx.Rebind(lockQuery), id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}

		if err := mutate(&event); err != nil {
			return err
		}
		event.Date = event.Date.UTC()
		event.UpdatedAt = time.Now().UTC()

		query := `
			UPDATE events
			SET title = ?, title_search = ?, description = ?, event_date = ?, longitude = ?, latitude = ?,
				category = ?, skill_level = ?, entry_fee = ?, updated_at = ?
			WHERE id = ?
		`
		_, err := tx.ExecContext(ctx, tx.Rebind(query),
			event.Title, searchKey(event.Title), event.Description, event.Date, event.Longitude, event.Latitude,
			string(event.Category), event.SkillLevel, event.EntryFee, event.UpdatedAt, event.ID)
		return err
	})
	if err != nil {
		var appErr *errors.AppError
		if !errors.Is(err, ErrEventNotFound) && !errors.As(err, &appErr) {
			logger.Error("EventRepository:Update", "error", err, "event_id", id)
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetUser(ctx context.Context, id uuid.UUID) (*entity.UserSummary, error) {
	var user entity.UserSummary
	err := r.DB.GetContext(ctx, &user, r.DB.Rebind(`SELECT id, name, email FROM users WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("EventRepository:GetUser", "error", err)
		return nil, err
	}
	return &user, nil
}

// ===================== Registrations =====================

func (r *EventRepository) Register(ctx context.Context, eventID, userID uuid.UUID, check func(*entity.Event) error) (*entity.Event, error) {
	var event entity.Event
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = ?` + r.DB.LockClause()
		if err := tx.GetContext(ctx, &event, tx.Rebind(lockQuery), eventID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}

		if check != nil {
			if err := check(&event); err != nil {
				return err
			}
		}

		insert := `
			INSERT INTO event_participants (event_id, user_id, registered_at)
			VALUES (?, ?, ?)
			ON CONFLICT (event_id, user_id) DO NOTHING
		`
		res, err := tx.ExecContext(ctx, tx.Rebind(insert), eventID, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyRegistered
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) && !errors.Is(err, ErrAlreadyRegistered) {
			logger.Error("EventRepository:Register", "error", err, "event_id", eventID)
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		r.DB.Rebind(`SELECT COUNT(*) FROM event_participants WHERE event_id = ? AND user_id = ?`), eventID, userID)
	if err != nil {
		logger.Error("EventRepository:IsParticipant", "error", err)
		return false, err
	}
	return count > 0, nil
}

// ListParticipants returns participants in registration order.
func (r *EventRepository) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error) {
	query := `
		SELECT u.id, u.name, u.email, p.registered_at
		FROM event_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = ?
		ORDER BY p.seq ASC
	`
	participants := []entity.Participant{}
	if err := r.DB.SelectContext(ctx, &participants, r.DB.Rebind(query), eventID); err != nil {
		logger.Error("EventRepository:ListParticipants", "error", err)
		return nil, err
	}
	return participants, nil
}

// ParticipantIDs returns, per event, the participant ids in registration order.
func (r *EventRepository) ParticipantIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT event_id, user_id FROM event_participants
		WHERE event_id IN (?)
		ORDER BY event_id, seq ASC
	`, eventIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		EventID uuid.UUID `db:"event_id"`
		UserID  uuid.UUID `db:"user_id"`
	}
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		logger.Error("EventRepository:ParticipantIDs", "error", err)
		return nil, err
	}
	for _, row := range rows {
		out[row.EventID] = append(out[row.EventID], row.UserID)
	}
	return out, nil
}

// ===================== Per user =====================

// MyEventIDs returns the events userID is registered for or hosts.
func (r *EventRepository) MyEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT event_id AS id FROM event_participants WHERE user_id = ?
		UNION
		SELECT id FROM events WHERE host_id = ?
	`
	ids := []uuid.UUID{}
	if err := r.DB.SelectContext(ctx, &ids, r.DB.Rebind(query), userID, userID); err != nil {
		logger.Error("EventRepository:MyEventIDs", "error", err)
		return nil, err
	}
	return ids, nil
}

func (r *EventRepository) RegisteredEvents(ctx context.Context, userID uuid.UUID) ([]entity.EventWithHost, error) {
	query := eventWithHostSelect + `
		JOIN event_participants p ON p.event_id = e.id
		WHERE p.user_id = ?
		ORDER BY e.event_date ASC, p.seq ASC
	`
	events := []entity.EventWithHost{}
	if err := r.DB.SelectContext(ctx, &events, r.DB.Rebind(query), userID); err != nil {
		logger.Error("EventRepository:RegisteredEvents", "error", err)
		return nil, err
	}
	return events, nil
}

// searchKey is the Unicode-lowered form of a title. SQL LOWER is ASCII-only
// on SQLite, so titles are matched against this stored column instead.
func searchKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

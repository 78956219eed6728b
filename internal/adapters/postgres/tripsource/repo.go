package tripsource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

// Repo is a Postgres implementation of tripsource.Source.
//
// Expected schema: trips(external_id, start_date, end_date, trip_type,
// flights, other_participants, hidden), trip_places(trip_id, kind, position,
// name, partial), trip_participants(trip_id, position, person_external_id,
// display_name), photos(trip_id, ...).
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT external_id, start_date, end_date, trip_type, flights, other_participants, hidden
		FROM trips
		ORDER BY start_date, external_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out   []domain.Trip
		index = make(map[domain.TripID]int)
	)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		index[t.ID] = len(out)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachPlaces(ctx, out, index); err != nil {
		return nil, err
	}
	if err := r.attachParticipants(ctx, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Trip{}, tripsource.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `
		SELECT external_id, start_date, end_date, trip_type, flights, other_participants, hidden
		FROM trips
		WHERE external_id = $1
	`, tripUUID)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, tripsource.ErrNotFound
		}
		return domain.Trip{}, err
	}

	trips := []domain.Trip{t}
	index := map[domain.TripID]int{t.ID: 0}
	if err := r.attachPlaces(ctx, trips, index); err != nil {
		return domain.Trip{}, err
	}
	if err := r.attachParticipants(ctx, trips, index); err != nil {
		return domain.Trip{}, err
	}
	return trips[0], nil
}

func (r *Repo) ListSummaries(ctx context.Context) ([]domain.TripSummary, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT
			tr.external_id,
			tr.start_date,
			tr.end_date,
			tr.hidden,
			COALESCE(ph.cnt, 0)
		FROM trips tr
		LEFT JOIN (
			SELECT trip_id, COUNT(*) AS cnt FROM photos GROUP BY trip_id
		) ph ON ph.trip_id = tr.external_id
		ORDER BY tr.start_date, tr.external_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out   []domain.TripSummary
		index = make(map[domain.TripID]int)
	)
	for rows.Next() {
		var (
			extID     uuid.UUID
			startDate pgtype.Date
			endDate   pgtype.Date
			hidden    bool
			count     int
		)
		if err := rows.Scan(&extID, &startDate, &endDate, &hidden, &count); err != nil {
			return nil, err
		}
		s := domain.TripSummary{
			ID:         domain.TripID(extID.String()),
			StartDate:  dateToTime(startDate),
			EndDate:    dateToTimePtr(endDate),
			PhotoCount: count,
			Hidden:     hidden,
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Destination names, in stored order.
	prows, err := r.pool.Query(ctx, `
		SELECT trip_id, name
		FROM trip_places
		WHERE kind = 'destination'
		ORDER BY trip_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var (
			tripUUID uuid.UUID
			name     string
		)
		if err := prows.Scan(&tripUUID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[domain.TripID(tripUUID.String())]; ok {
			out[i].Destinations = append(out[i].Destinations, name)
		}
	}
	return out, prows.Err()
}

func (r *Repo) SetHidden(ctx context.Context, id domain.TripID, hidden bool) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return tripsource.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE trips SET hidden = $2 WHERE external_id = $1`, tripUUID, hidden)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tripsource.ErrNotFound
	}
	return nil
}

func (r *Repo) attachPlaces(ctx context.Context, trips []domain.Trip, index map[domain.TripID]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT trip_id, kind, name, partial
		FROM trip_places
		ORDER BY trip_id, kind, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tripUUID uuid.UUID
			kind     string
			name     string
			partial  bool
		)
		if err := rows.Scan(&tripUUID, &kind, &name, &partial); err != nil {
			return err
		}
		i, ok := index[domain.TripID(tripUUID.String())]
		if !ok {
			continue
		}
		pv := domain.PlaceVisit{Name: name, Partial: partial}
		switch kind {
		case "destination":
			trips[i].Destinations = append(trips[i].Destinations, pv)
		case "city":
			trips[i].Cities = append(trips[i].Cities, pv)
		default:
			return fmt.Errorf("unknown place kind %q", kind)
		}
	}
	return rows.Err()
}

func (r *Repo) attachParticipants(ctx context.Context, trips []domain.Trip, index map[domain.TripID]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT trip_id, person_external_id, display_name
		FROM trip_participants
		ORDER BY trip_id, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tripUUID   uuid.UUID
			personID   uuid.UUID
			displayRaw string
		)
		if err := rows.Scan(&tripUUID, &personID, &displayRaw); err != nil {
			return err
		}
		if i, ok := index[domain.TripID(tripUUID.String())]; ok {
			trips[i].Participants = append(trips[i].Participants, domain.PersonRef{
				ID:          personID.String(),
				DisplayName: displayRaw,
			})
		}
	}
	return rows.Err()
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		extID     uuid.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		tripType  string
		flights   int
		others    *int
		hidden    bool
	)
	if err := row.Scan(&extID, &startDate, &endDate, &tripType, &flights, &others, &hidden); err != nil {
		return domain.Trip{}, err
	}
	return domain.Trip{
		ID:                domain.TripID(extID.String()),
		StartDate:         dateToTime(startDate),
		EndDate:           dateToTimePtr(endDate),
		Type:              domain.TripType(tripType),
		Flights:           flights,
		OtherParticipants: others,
		Hidden:            hidden,
	}, nil
}

func dateToTime(d pgtype.Date) time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func dateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := dateToTime(d)
	return &t
}

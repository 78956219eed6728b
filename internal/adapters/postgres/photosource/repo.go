package photosource

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
)

// Repo is a Postgres implementation of photosource.Source.
// Captions are normalized on read; the stored text stays raw.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) TripCollection(ctx context.Context, id domain.TripID) (domain.Collection, error) {
	if r.pool == nil {
		return domain.Collection{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Collection{}, photosource.ErrNotFound
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE external_id = $1)`, tripUUID,
	).Scan(&exists); err != nil {
		return domain.Collection{}, err
	}
	if !exists {
		return domain.Collection{}, photosource.ErrNotFound
	}

	rows, err := r.pool.Query(ctx, `
		SELECT external_id, caption, posted_at, aerial, cover, destination
		FROM photos
		WHERE trip_id = $1
		ORDER BY position, external_id
	`, tripUUID)
	if err != nil {
		return domain.Collection{}, err
	}
	defer rows.Close()

	photos, err := scanPhotos(rows)
	if err != nil {
		return domain.Collection{}, err
	}
	return domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindTrip, TripID: id},
		Photos: photos,
	}, nil
}

func (r *Repo) CountryCollection(ctx context.Context, country string) (domain.Collection, error) {
	if r.pool == nil {
		return domain.Collection{}, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT external_id, caption, posted_at, aerial, cover, destination
		FROM photos
		WHERE destination = $1
		ORDER BY posted_at, external_id
	`, country)
	if err != nil {
		return domain.Collection{}, err
	}
	defer rows.Close()

	photos, err := scanPhotos(rows)
	if err != nil {
		return domain.Collection{}, err
	}
	if len(photos) == 0 {
		return domain.Collection{}, photosource.ErrNotFound
	}
	return domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindCountry, Country: country},
		Photos: photos,
	}, nil
}

func (r *Repo) SetCover(ctx context.Context, tripID domain.TripID, mediaID domain.MediaID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return photosource.ErrNotFound
	}
	mediaUUID, err := uuid.Parse(string(mediaID))
	if err != nil {
		return photosource.ErrNoPhoto
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM trips WHERE external_id = $1)`, tripUUID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return photosource.ErrNotFound
		}

		tag, err := tx.Exec(ctx, `
			UPDATE photos SET cover = (external_id = $2) WHERE trip_id = $1
		`, tripUUID, mediaUUID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return photosource.ErrNoPhoto
		}

		var marked bool
		if err := tx.QueryRow(ctx,
			`SELECT cover FROM photos WHERE trip_id = $1 AND external_id = $2`, tripUUID, mediaUUID,
		).Scan(&marked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return photosource.ErrNoPhoto
			}
			return err
		}
		return nil
	})
}

func scanPhotos(rows pgx.Rows) ([]domain.Photo, error) {
	var out []domain.Photo
	for rows.Next() {
		var (
			extID       uuid.UUID
			caption     *string
			postedAt    time.Time
			aerial      bool
			cover       bool
			destination *string
		)
		if err := rows.Scan(&extID, &caption, &postedAt, &aerial, &cover, &destination); err != nil {
			return nil, err
		}
		p := domain.Photo{
			ID:          domain.MediaID(extID.String()),
			PostedAt:    postedAt.UTC(),
			Aerial:      aerial,
			Cover:       cover,
			Destination: destination,
		}
		if caption != nil {
			if norm := domain.NormalizeCaption(*caption); norm != "" {
				p.Caption = &norm
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

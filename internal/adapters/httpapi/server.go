package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"

	"github.com/rembish/rembish-org-sub000/internal/app/chronology"
	"github.com/rembish/rembish-org-sub000/internal/app/heatmap"
	"github.com/rembish/rembish-org-sub000/internal/app/stats"
	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

// Server implements the read API plus the two owner-only reflections
// (hidden flag, album cover). Derived views are computed per request from
// the trip source; the stats timeline goes through its cached service.
type Server struct {
	trips  tripsource.Source
	photos photosource.Source
	stats  *stats.Service
	log    *zap.Logger
}

func NewServer(trips tripsource.Source, photos photosource.Source, statsSvc *stats.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{trips: trips, photos: photos, stats: statsSvc, log: log}
}

// --- response shapes ---

type yearsResponse struct {
	Years []int `json:"years"`
}

type placeDTO struct {
	Name    string `json:"name"`
	Partial bool   `json:"partial,omitempty"`
	// New marks the destination's first-ever visit happening on this trip.
	New bool `json:"new,omitempty"`
}

type tripDTO struct {
	ID                string                                `json:"id"`
	StartDate         openapi_types.Date                    `json:"startDate"`
	EndDate           nullable.Nullable[openapi_types.Date] `json:"endDate,omitempty"`
	Type              string                                `json:"type"`
	Days              int                                   `json:"days"`
	Destinations      []placeDTO                            `json:"destinations"`
	Cities            []placeDTO                            `json:"cities,omitempty"`
	Participants      []string                              `json:"participants,omitempty"`
	OtherParticipants nullable.Nullable[int]                `json:"otherParticipants,omitempty"`
	Flights           int                                   `json:"flights,omitempty"`
	Hidden            bool                                  `json:"hidden,omitempty"`
}

type tripsResponse struct {
	Year         int       `json:"year"`
	Trips        []tripDTO `json:"trips"`
	FirstVisited []string  `json:"firstVisited"`
}

type countryColorDTO struct {
	Country   string             `json:"country"`
	Visits    int                `json:"visits"`
	LastVisit openapi_types.Date `json:"lastVisit"`
	Color     string             `json:"color"`
}

type mapResponse struct {
	Year      nullable.Nullable[int] `json:"year,omitempty"`
	Neutral   string                 `json:"neutral"`
	Countries []countryColorDTO      `json:"countries"`
}

type photoDTO struct {
	ID          string                    `json:"id"`
	Caption     nullable.Nullable[string] `json:"caption,omitempty"`
	PostedAt    time.Time                 `json:"postedAt"`
	Aerial      bool                      `json:"aerial,omitempty"`
	Cover       bool                      `json:"cover,omitempty"`
	Destination nullable.Nullable[string] `json:"destination,omitempty"`
}

type neighborDTO struct {
	ID           string             `json:"id"`
	StartDate    openapi_types.Date `json:"startDate"`
	Destinations []string           `json:"destinations"`
	PhotoCount   int                `json:"photoCount"`
}

type tripPhotosResponse struct {
	TripID string                         `json:"tripId"`
	Photos []photoDTO                     `json:"photos"`
	Prev   nullable.Nullable[neighborDTO] `json:"prev,omitempty"`
	Next   nullable.Nullable[neighborDTO] `json:"next,omitempty"`
}

type setHiddenRequest struct {
	Hidden *bool `json:"hidden"`
}

type setCoverRequest struct {
	MediaID string `json:"mediaId"`
}

// --- handlers ---

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	trips, err := s.visibleTrips(r.Context(), PrivilegedFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, yearsResponse{Years: chronology.YearsWithTrips(trips)})
}

func (s *Server) handleTripsByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION", "year must be an integer", nil)
		return
	}

	all, err := s.visibleTrips(r.Context(), PrivilegedFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	global := chronology.FirstVisitMap(all, chronology.ScopeAll())
	yearly := chronology.FirstVisitMap(all, chronology.ScopeYear(year))

	scoped := chronology.TripsOverlappingYear(all, year)
	dtos := make([]tripDTO, 0, len(scoped))
	for _, t := range scoped {
		dtos = append(dtos, toTripDTO(t, global))
	}

	// Destinations whose first-ever visit falls in this year. Year-first
	// repeats (NewThisYear) are deliberately excluded.
	firstVisited := make([]string, 0)
	for name := range yearly {
		if !chronology.NewThisYear(global, yearly, name) {
			firstVisited = append(firstVisited, name)
		}
	}
	sort.Strings(firstVisited)

	writeJSON(w, http.StatusOK, tripsResponse{Year: year, Trips: dtos, FirstVisited: firstVisited})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var (
		year    int
		hasYear bool
	)
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "VALIDATION", "year must be an integer", nil)
			return
		}
		year, hasYear = v, true
	}

	all, err := s.visibleTrips(r.Context(), PrivilegedFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scoped := all
	if hasYear {
		scoped = chronology.TripsOverlappingYear(all, year)
	}

	type visitAgg struct {
		count int
		last  time.Time
	}
	byCountry := make(map[string]*visitAgg)
	var corpusOldest, corpusNewest time.Time
	for _, t := range scoped {
		for _, d := range t.Destinations {
			agg := byCountry[d.Name]
			if agg == nil {
				agg = &visitAgg{}
				byCountry[d.Name] = agg
			}
			agg.count++
			if t.StartDate.After(agg.last) {
				agg.last = t.StartDate
			}
		}
		if corpusOldest.IsZero() || t.StartDate.Before(corpusOldest) {
			corpusOldest = t.StartDate
		}
		if t.StartDate.After(corpusNewest) {
			corpusNewest = t.StartDate
		}
	}

	countries := make([]countryColorDTO, 0, len(byCountry))
	for name, agg := range byCountry {
		enc := heatmap.ColorFor(agg.last, agg.count, corpusOldest, corpusNewest)
		countries = append(countries, countryColorDTO{
			Country:   name,
			Visits:    agg.count,
			LastVisit: openapi_types.Date{Time: agg.last},
			Color:     enc.CSS(),
		})
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Country < countries[j].Country })

	resp := mapResponse{Neutral: heatmap.Neutral().CSS(), Countries: countries}
	if hasYear {
		resp.Year = nullable.NewNullableWithValue(year)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	timeline, err := s.stats.Timeline(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (s *Server) handleTripPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	privileged := PrivilegedFromContext(ctx)
	id := domain.TripID(chi.URLParam(r, "tripID"))

	trip, err := s.trips.GetTrip(ctx, id)
	if err != nil {
		if errors.Is(err, tripsource.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found", nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	if trip.Hidden && !privileged {
		// Hidden trips are indistinguishable from absent ones.
		writeError(w, r, http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found", nil)
		return
	}

	resp := tripPhotosResponse{TripID: string(id), Photos: []photoDTO{}}

	col, err := s.photos.TripCollection(ctx, id)
	switch {
	case err == nil:
		for _, p := range col.Photos {
			resp.Photos = append(resp.Photos, toPhotoDTO(p))
		}
	case errors.Is(err, photosource.ErrNotFound):
		// No album yet; an empty photo list with neighbors is still useful.
	default:
		s.fail(w, r, err)
		return
	}

	sums, err := s.trips.ListSummaries(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	visible := sums[:0:0]
	for _, sum := range sums {
		if sum.Hidden && !privileged {
			continue
		}
		visible = append(visible, sum)
	}
	domain.SortSummaries(visible)
	for i, sum := range visible {
		if sum.ID != id {
			continue
		}
		if i > 0 {
			resp.Prev = nullable.NewNullableWithValue(toNeighborDTO(visible[i-1]))
		}
		if i < len(visible)-1 {
			resp.Next = nullable.NewNullableWithValue(toNeighborDTO(visible[i+1]))
		}
		break
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetHidden(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !PrivilegedFromContext(ctx) {
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "owner only", nil)
		return
	}
	id := domain.TripID(chi.URLParam(r, "tripID"))

	var req setHiddenRequest
	if err := decodeJSON(r, &req); err != nil || req.Hidden == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION", "body must be {\"hidden\": bool}", nil)
		return
	}

	if err := s.trips.SetHidden(ctx, id, *req.Hidden); err != nil {
		if errors.Is(err, tripsource.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found", nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	// Hiding a trip changes the visible timeline.
	s.stats.InvalidateTimeline(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetCover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !PrivilegedFromContext(ctx) {
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "owner only", nil)
		return
	}
	id := domain.TripID(chi.URLParam(r, "tripID"))

	var req setCoverRequest
	if err := decodeJSON(r, &req); err != nil || req.MediaID == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION", "body must be {\"mediaId\": string}", nil)
		return
	}

	if err := s.photos.SetCover(ctx, id, domain.MediaID(req.MediaID)); err != nil {
		switch {
		case errors.Is(err, photosource.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "COLLECTION_NOT_FOUND", "trip album not found", nil)
		case errors.Is(err, photosource.ErrNoPhoto):
			writeError(w, r, http.StatusNotFound, "PHOTO_NOT_FOUND", "photo not in album", nil)
		default:
			s.fail(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func (s *Server) visibleTrips(ctx context.Context, privileged bool) ([]domain.Trip, error) {
	all, err := s.trips.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	if privileged {
		return all, nil
	}
	out := all[:0:0]
	for _, t := range all {
		if !t.Hidden {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusBadGateway, "SOURCE_UNAVAILABLE", "trip source unavailable", nil)
}

func toTripDTO(t domain.Trip, firstVisits map[string]time.Time) tripDTO {
	out := tripDTO{
		ID:        string(t.ID),
		StartDate: openapi_types.Date{Time: t.StartDate},
		Type:      string(t.Type),
		Days:      t.Days(),
		Flights:   t.Flights,
		Hidden:    t.Hidden,
	}
	if t.EndDate != nil {
		out.EndDate = nullable.NewNullableWithValue(openapi_types.Date{Time: *t.EndDate})
	}
	out.Destinations = make([]placeDTO, len(t.Destinations))
	for i, d := range t.Destinations {
		out.Destinations[i] = placeDTO{
			Name:    d.Name,
			Partial: d.Partial,
			New:     firstVisits[d.Name].Equal(t.StartDate),
		}
	}
	for _, c := range t.Cities {
		out.Cities = append(out.Cities, placeDTO{Name: c.Name, Partial: c.Partial})
	}
	for _, p := range t.Participants {
		out.Participants = append(out.Participants, p.DisplayName)
	}
	if t.OtherParticipants != nil {
		out.OtherParticipants = nullable.NewNullableWithValue(*t.OtherParticipants)
	}
	return out
}

func toPhotoDTO(p domain.Photo) photoDTO {
	out := photoDTO{
		ID:       string(p.ID),
		PostedAt: p.PostedAt,
		Aerial:   p.Aerial,
		Cover:    p.Cover,
	}
	if p.Caption != nil {
		out.Caption = nullable.NewNullableWithValue(*p.Caption)
	}
	if p.Destination != nil {
		out.Destination = nullable.NewNullableWithValue(*p.Destination)
	}
	return out
}

func toNeighborDTO(s domain.TripSummary) neighborDTO {
	return neighborDTO{
		ID:           string(s.ID),
		StartDate:    openapi_types.Date{Time: s.StartDate},
		Destinations: s.Destinations,
		PhotoCount:   s.PhotoCount,
	}
}

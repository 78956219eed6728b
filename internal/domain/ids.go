package domain

// TripID is an opaque external identifier for a trip record.
// Its format is controlled by the backing store.
type TripID string

// MediaID is an opaque external identifier for a single photo.
type MediaID string

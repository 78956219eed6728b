package domain

import "time"

type Photo struct {
	ID MediaID

	// Caption is the normalized caption text; nil when the photo has none.
	Caption *string

	PostedAt time.Time

	Aerial bool
	// Cover marks the album's cover photo. At most one photo per collection
	// carries it; exclusivity is enforced by the backing store.
	Cover bool

	Destination *string
}

type CollectionKind string

const (
	CollectionKindTrip    CollectionKind = "TRIP"
	CollectionKindCountry CollectionKind = "COUNTRY"
)

// CollectionKey identifies the logical grouping a collection was built for.
type CollectionKey struct {
	Kind    CollectionKind
	TripID  TripID
	Country string
}

// Collection is an ordered photo sequence for a single trip or country album.
// Photo ordering is externally defined and preserved as given.
type Collection struct {
	Key    CollectionKey
	Photos []Photo
}

func (c Collection) Len() int { return len(c.Photos) }

// Clone returns a deep copy so session-local edits cannot leak into the source.
func (c Collection) Clone() Collection {
	cp := c
	if c.Photos != nil {
		cp.Photos = make([]Photo, len(c.Photos))
		for i, p := range c.Photos {
			cp.Photos[i] = clonePhoto(p)
		}
	}
	return cp
}

func clonePhoto(p Photo) Photo {
	cp := p
	if p.Caption != nil {
		v := *p.Caption
		cp.Caption = &v
	}
	if p.Destination != nil {
		v := *p.Destination
		cp.Destination = &v
	}
	return cp
}

// Package gallery drives the cross-collection photo lightbox: the active
// collection and index, the adjacent-trip peek preview, and keyboard-driven
// cancelable transitions between albums.
package gallery

import (
	"github.com/rembish/rembish-org-sub000/internal/domain"
)

type Direction int

const (
	Next Direction = iota + 1
	Prev
)

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "unknown"
	}
}

func (d Direction) opposite() Direction {
	if d == Next {
		return Prev
	}
	return Next
}

// OpenAtLast is a sentinel index resolving to the collection's last photo.
const OpenAtLast = -1

type phase int

const (
	phaseClosed phase = iota
	phaseOpen
	phasePeeking
)

// Peek identifies the neighboring trip being previewed at a collection
// boundary, before the user commits to loading its album.
type Peek struct {
	Neighbor  domain.TripSummary
	Direction Direction
}

// Move classifies what an Advance call did.
type Move int

const (
	MoveNone Move = iota
	MoveStepped
	MoveWrapped
	MovePeeked
	MovePeekCanceled
	MoveCommitted
)

// LoadRequest asks the caller to fetch a neighbor's collection and hand it
// back via Apply. The embedded token ties the result to the session state
// that requested it; Close or any newer request invalidates it.
type LoadRequest struct {
	Trip   domain.TripSummary
	OpenAt int // 0 when committing forward, OpenAtLast when committing backward

	token uint64
}

// Transition is the observable outcome of an Advance call.
type Transition struct {
	Move  Move
	Index int
	Peek  *Peek
	Load  *LoadRequest // non-nil only for MoveCommitted
}

// Session is the lightbox state machine. It owns only its local state: the
// caller hands it already-resolved collections and neighbor summaries and
// sequences all calls from a single goroutine (user input is processed in
// arrival order).
type Session struct {
	phase      phase
	collection domain.Collection
	index      int
	peek       Peek

	// neighbors is the global trip ordering for cross-navigation;
	// nil means not loaded yet, which degrades boundaries to plain wrap.
	neighbors []domain.TripSummary

	// gen invalidates in-flight loads: every (re)open, commit, peek
	// cancel and close bumps it, so only the newest request can Apply.
	gen uint64
}

func NewSession() *Session {
	return &Session{phase: phaseClosed, index: -1}
}

func (s *Session) IsOpen() bool { return s.phase != phaseClosed }
func (s *Session) Index() int { return s.index }

func (s *Session) Collection() domain.Collection { return s.collection }

// Peeking returns the active peek, if any.
func (s *Session) Peeking() (Peek, bool) {
	if s.phase != phasePeeking {
		return Peek{}, false
	}
	return s.peek, true
}

// SetNeighbors installs the global trip ordering used for boundary
// navigation. The slice is re-sorted defensively and copied.
func (s *Session) SetNeighbors(ns []domain.TripSummary) {
	if ns == nil {
		s.neighbors = nil
		return
	}
	cp := append([]domain.TripSummary(nil), ns...)
	domain.SortSummaries(cp)
	s.neighbors = cp
}

// Open displays a collection at the given index. An out-of-range index is
// clamped; the OpenAtLast sentinel resolves to the last photo. Opening
// invalidates any in-flight load for a previous collection.
func (s *Session) Open(c domain.Collection, index int) error {
	if c.Len() == 0 {
		return ErrEmptyCollection
	}
	if index == OpenAtLast || index >= c.Len() {
		index = c.Len() - 1
	}
	if index < 0 {
		index = 0
	}
	s.gen++
	s.phase = phaseOpen
	s.collection = c.Clone()
	s.index = index
	s.peek = Peek{}
	return nil
}

// Close destroys the session state. Always legal; any in-flight load result
// arriving afterwards is stale.
func (s *Session) Close() {
	s.gen++
	s.phase = phaseClosed
	s.collection = domain.Collection{}
	s.index = -1
	s.peek = Peek{}
}

// Advance processes a next/prev request.
//
// From Open: moves within the collection, wrapping at the boundary unless a
// neighboring trip exists in that direction, in which case it peeks instead.
// From Peeking: the same direction commits (returns a LoadRequest), the
// opposite direction cancels back to Open at the unchanged index.
func (s *Session) Advance(dir Direction) Transition {
	switch s.phase {
	case phaseOpen:
		return s.advanceOpen(dir)
	case phasePeeking:
		return s.advancePeeking(dir)
	default:
		return Transition{Move: MoveNone, Index: s.index}
	}
}

func (s *Session) advanceOpen(dir Direction) Transition {
	n := s.collection.Len()
	last := n - 1
	atBoundary := (dir == Next && s.index == last) || (dir == Prev && s.index == 0)

	if atBoundary {
		if neighbor, ok := s.neighbor(dir); ok {
			s.phase = phasePeeking
			s.peek = Peek{Neighbor: neighbor, Direction: dir}
			p := s.peek
			return Transition{Move: MovePeeked, Index: s.index, Peek: &p}
		}
		// No neighbor known: ordinary wrap-around.
		if dir == Next {
			s.index = 0
		} else {
			s.index = last
		}
		return Transition{Move: MoveWrapped, Index: s.index}
	}

	if dir == Next {
		s.index++
	} else {
		s.index--
	}
	return Transition{Move: MoveStepped, Index: s.index}
}

func (s *Session) advancePeeking(dir Direction) Transition {
	if dir == s.peek.Direction.opposite() {
		// Backing out abandons any committed load along with the peek.
		s.gen++
		s.phase = phaseOpen
		s.peek = Peek{}
		return Transition{Move: MovePeekCanceled, Index: s.index}
	}

	// Confirming the peek: the collection/index stay untouched until the
	// caller applies the loaded neighbor collection. Re-confirming while a
	// load is pending supersedes it (last request wins).
	s.gen++
	openAt := 0
	if s.peek.Direction == Prev {
		openAt = OpenAtLast
	}
	req := &LoadRequest{Trip: s.peek.Neighbor, OpenAt: openAt, token: s.gen}
	return Transition{Move: MoveCommitted, Index: s.index, Load: req}
}

// Cancel handles the Escape key: from Peeking it cancels the peek only,
// from Open it closes the session.
func (s *Session) Cancel() {
	switch s.phase {
	case phasePeeking:
		s.gen++
		s.phase = phaseOpen
		s.peek = Peek{}
	case phaseOpen:
		s.Close()
	}
}

// Apply installs a collection fetched for req. A result whose token no
// longer matches the session generation (the session re-opened, committed
// again, or closed in the meantime) is rejected with ErrStaleFetch and
// leaves the state untouched.
func (s *Session) Apply(req LoadRequest, c domain.Collection) error {
	if s.phase == phaseClosed || req.token != s.gen {
		return ErrStaleFetch
	}
	return s.Open(c, req.OpenAt)
}

// SetCover updates the locally cached collection after the backing store
// accepted a cover change: the named photo gains the flag, all others in
// the collection lose it. Session phase and index are unaffected.
func (s *Session) SetCover(id domain.MediaID) {
	if s.phase == phaseClosed {
		return
	}
	for i := range s.collection.Photos {
		s.collection.Photos[i].Cover = s.collection.Photos[i].ID == id
	}
}

// neighbor resolves the adjacent trip in the global ordering, relative to
// the trip whose collection is on display. Country albums have no neighbors.
func (s *Session) neighbor(dir Direction) (domain.TripSummary, bool) {
	if s.neighbors == nil || s.collection.Key.Kind != domain.CollectionKindTrip {
		return domain.TripSummary{}, false
	}
	at := -1
	for i, t := range s.neighbors {
		if t.ID == s.collection.Key.TripID {
			at = i
			break
		}
	}
	if at < 0 {
		return domain.TripSummary{}, false
	}
	j := at + 1
	if dir == Prev {
		j = at - 1
	}
	if j < 0 || j >= len(s.neighbors) {
		return domain.TripSummary{}, false
	}
	return s.neighbors[j], true
}

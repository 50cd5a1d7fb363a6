package domain

import "sync"

// Queue is a FIFO queue of tracks, consumed strictly from the head.
// Order is insertion order; the queue never reorders entries.
type Queue struct {
	mu     sync.Mutex
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() *Queue {
	return &Queue{
		tracks: make([]*Track, 0),
	}
}

// Add appends a track to the tail of the queue.
// Returns true if the queue was empty before the add.
func (q *Queue) Add(track *Track) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	wasEmpty := len(q.tracks) == 0
	q.tracks = append(q.tracks, track)
	return wasEmpty
}

// Next removes and returns the head of the queue, or nil if empty.
func (q *Queue) Next() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return nil
	}

	track := q.tracks[0]
	q.tracks = q.tracks[1:]
	return track
}

// Peek returns the head of the queue without removing it, or nil if empty.
func (q *Queue) Peek() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return nil
	}
	return q.tracks[0]
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// List returns a copy of the queued tracks in order.
func (q *Queue) List() []*Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make([]*Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Clear removes all tracks and returns the number removed.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := len(q.tracks)
	q.tracks = make([]*Track, 0)
	return count
}

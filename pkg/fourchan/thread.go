package fourchan

import (
	"fmt"
	"strconv"
	"strings"
)

// ThreadRef identifies a single thread, derived once from the input URL and
// immutable for the process lifetime.
type ThreadRef struct {
	Board string
	ID    int64
	// Alias is the optional trailing custom-name segment of the thread URL.
	// It can select an existing download directory named after it instead
	// of the numeric thread id.
	Alias string
}

// String returns the canonical /board/id form
func (r ThreadRef) String() string {
	return fmt.Sprintf("/%s/%d", r.Board, r.ID)
}

// ParseThreadURL derives a ThreadRef from a thread page URL of the shape
// scheme://host/board/thread/id[/name][#fragment]. The board and numeric id
// are taken positionally from the path segments. A malformed URL is a fatal
// startup error: without it no storage location can be determined.
func ParseThreadURL(raw string) (ThreadRef, error) {
	segments := strings.Split(raw, "/")
	if len(segments) < 6 {
		return ThreadRef{}, fmt.Errorf("thread URL %q has too few path segments", raw)
	}

	board := segments[3]
	if board == "" {
		return ThreadRef{}, fmt.Errorf("thread URL %q has an empty board segment", raw)
	}

	idPart, _, _ := strings.Cut(segments[5], "#")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id < 0 {
		return ThreadRef{}, fmt.Errorf("thread URL %q has a non-numeric thread id %q", raw, idPart)
	}

	ref := ThreadRef{Board: board, ID: id}
	if len(segments) > 6 {
		ref.Alias, _, _ = strings.Cut(segments[6], "#")
	}

	return ref, nil
}

package app

import (
	"fmt"
	"slices"

	"trivia-quiz/internal/domain"
)

// Selection tracks a manual pick of Target questions out of a candidate pool.
// Once Target questions are picked further picks are rejected, but deselecting
// is always allowed.
type Selection struct {
	target int
	pool   []domain.Question
	picked []int
}

func NewSelection(target int, pool []domain.Question) (*Selection, error) {
	if err := validateCount(target); err != nil {
		return nil, err
	}
	return &Selection{target: target, pool: pool}, nil
}

func (s *Selection) Target() int { return s.target }

func (s *Selection) Pool() []domain.Question { return s.pool }

func (s *Selection) Count() int { return len(s.picked) }

func (s *Selection) IsSelected(i int) bool {
	return slices.Contains(s.picked, i)
}

// Toggle selects or deselects pool[i] and reports whether it is now selected.
func (s *Selection) Toggle(i int) (bool, error) {
	if i < 0 || i >= len(s.pool) {
		return false, fmt.Errorf("%w: no candidate question %d", domain.ErrValidation, i+1)
	}
	if pos := slices.Index(s.picked, i); pos >= 0 {
		s.picked = slices.Delete(s.picked, pos, pos+1)
		return false, nil
	}
	if len(s.picked) >= s.target {
		return false, fmt.Errorf("%w: already selected %d questions", domain.ErrValidation, s.target)
	}
	s.picked = append(s.picked, i)
	return true, nil
}

// Selected returns the picked questions in the order they were chosen.
func (s *Selection) Selected() []domain.Question {
	out := make([]domain.Question, 0, len(s.picked))
	for _, i := range s.picked {
		out = append(out, s.pool[i])
	}
	return out
}

// Complete returns the selection if exactly Target questions are picked.
func (s *Selection) Complete() ([]domain.Question, error) {
	if len(s.picked) != s.target {
		return nil, fmt.Errorf("%w: please select exactly %d questions", domain.ErrValidation, s.target)
	}
	return s.Selected(), nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"trivia-quiz/internal/domain"
)

// Phase is the position of a playthrough in its lifecycle.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseInProgress
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// User-facing messages for a playthrough that could not be loaded.
const (
	MessageQuizNotFound = "Quiz not found. Please check the ID and try again."
	MessageTryAgain     = "An unexpected error occurred. Please try again later."
)

// Rand is the randomness the answer shuffle draws from; *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// QuizGetter loads a quiz by id. Both QuizStore and the backend client implement it.
type QuizGetter interface {
	Get(ctx context.Context, quizID string) (domain.Quiz, error)
}

// PlayState is one user's playthrough of a quiz. Transitions return a new
// PlayState and never modify the receiver.
type PlayState struct {
	Phase        Phase
	Quiz         domain.Quiz
	CurrentIndex int
	// Answers holds the shuffled answer order per question, fixed at load time.
	Answers      [][]string
	Selected     string
	HasSelection bool
	UserAnswers  []string
	Score        int
	Failure      string
}

// Shuffle returns a Fisher-Yates permutation of answers.
func Shuffle(answers []string, rnd Rand) []string {
	out := slices.Clone(answers)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Load prepares a playthrough of quiz, shuffling every question's answers once.
func Load(quiz domain.Quiz, rnd Rand) PlayState {
	if len(quiz.Questions) == 0 {
		return PlayState{Phase: PhaseFailed, Quiz: quiz, Failure: MessageTryAgain}
	}
	answers := make([][]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answers[i] = Shuffle(q.Answers(), rnd)
	}
	return PlayState{
		Phase:       PhaseReady,
		Quiz:        quiz,
		Answers:     answers,
		UserAnswers: []string{},
	}
}

// LoadByID fetches the quiz and loads it. On failure the returned state is
// PhaseFailed with a user-facing message, alongside the underlying error.
func LoadByID(ctx context.Context, quizzes QuizGetter, quizID string, rnd Rand) (PlayState, error) {
	quiz, err := quizzes.Get(ctx, quizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return PlayState{Phase: PhaseFailed, Failure: MessageQuizNotFound}, err
	}
	if err != nil {
		return PlayState{Phase: PhaseFailed, Failure: MessageTryAgain}, err
	}
	return Load(quiz, rnd), nil
}

func (s PlayState) active() bool {
	return (s.Phase == PhaseReady || s.Phase == PhaseInProgress) && s.CurrentIndex < len(s.Quiz.Questions)
}

// Total is the number of questions in the quiz.
func (s PlayState) Total() int { return len(s.Quiz.Questions) }

// Current returns the question being answered and its shuffled answers.
func (s PlayState) Current() (domain.Question, []string, bool) {
	if !s.active() {
		return domain.Question{}, nil, false
	}
	return s.Quiz.Questions[s.CurrentIndex], s.Answers[s.CurrentIndex], true
}

// IsLast reports whether the current question is the final one.
func (s PlayState) IsLast() bool {
	return s.active() && s.CurrentIndex+1 == len(s.Quiz.Questions)
}

// Select records answer as the current choice, replacing any earlier one.
// Answers not offered for the current question are ignored.
func (s PlayState) Select(answer string) (PlayState, error) {
	if !s.active() {
		return s, fmt.Errorf("%w: cannot select an answer while %s", domain.ErrPrecondition, s.Phase)
	}
	if !slices.Contains(s.Answers[s.CurrentIndex], answer) {
		return s, nil
	}
	s.Selected = answer
	s.HasSelection = true
	return s, nil
}

// Advance commits the selected answer and moves to the next question. After the
// last question the state is PhaseCompleted and the summary is returned.
func (s PlayState) Advance() (PlayState, *domain.Summary, error) {
	if !s.active() {
		return s, nil, fmt.Errorf("%w: cannot advance while %s", domain.ErrPrecondition, s.Phase)
	}
	if !s.HasSelection {
		return s, nil, fmt.Errorf("%w: no answer selected", domain.ErrPrecondition)
	}

	s.UserAnswers = append(slices.Clip(s.UserAnswers), s.Selected)
	if s.Selected == s.Quiz.Questions[s.CurrentIndex].CorrectAnswer {
		s.Score++
	}
	s.Selected = ""
	s.HasSelection = false

	if s.CurrentIndex+1 < len(s.Quiz.Questions) {
		s.CurrentIndex++
		s.Phase = PhaseInProgress
		return s, nil, nil
	}

	s.Phase = PhaseCompleted
	return s, &domain.Summary{
		Questions:   s.Quiz.Questions,
		UserAnswers: slices.Clone(s.UserAnswers),
		Score:       s.Score,
	}, nil
}

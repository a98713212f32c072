package domain

import "time"

// Question is a single trivia item with one correct answer and its distractors.
type Question struct {
	Question         string   `json:"question" bson:"question"`
	CorrectAnswer    string   `json:"correctAnswer" bson:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers" bson:"incorrectAnswers"`
}

// Answers returns the incorrect answers followed by the correct one.
func (q Question) Answers() []string {
	answers := make([]string, 0, len(q.IncorrectAnswers)+1)
	answers = append(answers, q.IncorrectAnswers...)
	return append(answers, q.CorrectAnswer)
}

// Quiz is a write-once, uniquely identified ordered set of questions.
type Quiz struct {
	ID        string     `json:"quizId" bson:"quizId"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// Summary is the read-only outcome of a completed playthrough.
type Summary struct {
	Questions   []Question `json:"questions"`
	UserAnswers []string   `json:"userAnswers"`
	Score       int        `json:"score"`
}

// Correct reports whether the i-th answer matched the question's correct answer.
func (s Summary) Correct(i int) bool {
	return i < len(s.UserAnswers) && i < len(s.Questions) && s.UserAnswers[i] == s.Questions[i].CorrectAnswer
}

// QuestionQuery filters questions fetched from the question source.
// Empty Category or Difficulty means unfiltered.
type QuestionQuery struct {
	Category   string
	Difficulty string
	Limit      int
}

// QuizCreated is emitted once a quiz has been persisted.
type QuizCreated struct {
	QuizID        string    `json:"quizId"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

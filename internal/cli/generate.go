package cli

import (
	"context"
	"fmt"
	"io"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"github.com/spf13/cobra"
)

type quizGenerator interface {
	Generate(ctx context.Context, req app.QuizRequest) (string, []domain.Question, error)
}

// NewGenerateCmd asks the server to build a quiz from the trivia source.
func NewGenerateCmd(configPath *string) *cobra.Command {
	req := app.QuizRequest{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz from random trivia questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backendClient(*configPath)
			if err != nil {
				return err
			}
			return generateQuiz(cmd.Context(), cmd.OutOrStdout(), client, req)
		},
	}
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", "medium", "easy, medium or hard")
	cmd.Flags().StringVar(&req.Category, "category", "", "question category (any if empty)")
	cmd.Flags().IntVar(&req.NumberOfQuestions, "count", 10, "number of questions (1-50)")
	return cmd
}

func generateQuiz(ctx context.Context, out io.Writer, generator quizGenerator, req app.QuizRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}
	quizID, questions, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Quiz ID: %s\n", quizID)
	for i, question := range questions {
		fmt.Fprintf(out, "%d. %s\n", i+1, question.Question)
	}
	return nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"github.com/spf13/cobra"
)

type quizCurator interface {
	Candidates(ctx context.Context, req app.QuizRequest) (*app.Selection, error)
	Curate(ctx context.Context, n int, selected []domain.Question) (string, error)
}

// NewCreateCmd builds a quiz by hand-picking questions from a candidate pool.
func NewCreateCmd(configPath *string) *cobra.Command {
	req := app.QuizRequest{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quiz by picking questions yourself",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backendClient(*configPath)
			if err != nil {
				return err
			}
			return createQuiz(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), client, req)
		},
	}
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", "medium", "easy, medium or hard")
	cmd.Flags().StringVar(&req.Category, "category", "", "question category (any if empty)")
	cmd.Flags().IntVar(&req.NumberOfQuestions, "count", 5, "number of questions to pick (1-50)")
	return cmd
}

func createQuiz(ctx context.Context, in io.Reader, out io.Writer, curator quizCurator, req app.QuizRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}
	selection, err := curator.Candidates(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Select %d questions:\n", selection.Target())
	for i, question := range selection.Pool() {
		fmt.Fprintf(out, "  %d) %s\n", i+1, question.Question)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Selected %d/%d. Toggle a number, or type done: ", selection.Count(), selection.Target())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return errInputClosed
		}
		input := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(input, "done") {
			questions, err := selection.Complete()
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			quizID, err := curator.Curate(ctx, selection.Target(), questions)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Quiz ID: %s\n", quizID)
			return nil
		}

		n, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(out, "Enter a question number or done.")
			continue
		}
		selected, err := selection.Toggle(n - 1)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if selected {
			fmt.Fprintf(out, "+ %s\n", selection.Pool()[n-1].Question)
		} else {
			fmt.Fprintf(out, "- %s\n", selection.Pool()[n-1].Question)
		}
	}
}

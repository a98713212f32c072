package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/backend"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/domain"
	"github.com/spf13/cobra"
)

var errInputClosed = errors.New("input closed before the quiz finished")

// NewPlayCmd plays a stored quiz in the terminal against a running server.
func NewPlayCmd(configPath *string) *cobra.Command {
	var quizID, name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backendClient(*configPath)
			if err != nil {
				return err
			}
			rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
			return playQuiz(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), client, quizID, name, rnd)
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz-id", "", "id of the quiz to play")
	cmd.Flags().StringVar(&name, "name", "", "your name")
	_ = cmd.MarkFlagRequired("quiz-id")
	return cmd
}

func backendClient(configPath string) (*backend.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	baseURL := cfg.Backend.URL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return backend.NewClient(baseURL, nil), nil
}

func playQuiz(ctx context.Context, in io.Reader, out io.Writer, quizzes app.QuizGetter, quizID, name string, rnd app.Rand) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if name == "" {
		name = "Player"
	}
	fmt.Fprintf(out, "Welcome, %s!\n", name)

	state, err := app.LoadByID(ctx, quizzes, quizID, rnd)
	if err != nil {
		fmt.Fprintln(out, state.Failure)
		return err
	}
	if state.Phase == app.PhaseFailed {
		fmt.Fprintln(out, state.Failure)
		return fmt.Errorf("%w: quiz %s has no questions", domain.ErrValidation, quizID)
	}

	scanner := bufio.NewScanner(in)
	for {
		question, answers, _ := state.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", state.CurrentIndex+1, state.Total(), question.Question)
		for i, answer := range answers {
			fmt.Fprintf(out, "  %d) %s\n", i+1, answer)
		}

		choice, err := promptChoice(scanner, out, len(answers))
		if err != nil {
			return err
		}
		if state, err = state.Select(answers[choice]); err != nil {
			return err
		}

		var summary *domain.Summary
		state, summary, err = state.Advance()
		if err != nil {
			return err
		}
		if summary != nil {
			printSummary(out, *summary)
			return nil
		}
	}
}

// promptChoice reads until the user enters a number in [1, n] and returns it zero-based.
func promptChoice(scanner *bufio.Scanner, out io.Writer, n int) (int, error) {
	for {
		fmt.Fprint(out, "Your answer: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errInputClosed
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && choice >= 1 && choice <= n {
			return choice - 1, nil
		}
		fmt.Fprintf(out, "Pick a number between 1 and %d.\n", n)
	}
}

func printSummary(out io.Writer, summary domain.Summary) {
	fmt.Fprintf(out, "\nQuiz Summary\nYour Score: %d / %d\n", summary.Score, len(summary.Questions))
	for i, question := range summary.Questions {
		verdict := "Incorrect"
		if summary.Correct(i) {
			verdict = "Correct"
		}
		fmt.Fprintf(out, "\n%d. %s\n   Your answer: %s (%s)\n   Correct answer: %s\n",
			i+1, question.Question, summary.UserAnswers[i], verdict, question.CorrectAnswer)
	}
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"trivia-quiz/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuizRepository stores quizzes in a MongoDB collection keyed by quizId.
type QuizRepository struct {
	col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{col: db.Collection("quizzes")}
}

// Connect opens a client and verifies the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique quizId index.
func (r *QuizRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "quizId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("quizId_unique"),
	})
	if err != nil {
		return fmt.Errorf("create quizId index: %w", err)
	}
	return nil
}

func (r *QuizRepository) Insert(ctx context.Context, quiz domain.Quiz) error {
	if _, err := r.col.InsertOne(ctx, quiz); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) FindByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.col.FindOne(ctx, bson.M{"quizId": quizID}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("find quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepository) FindAll(ctx context.Context) ([]domain.Quiz, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "quizId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find quizzes: %w", err)
	}
	defer cur.Close(ctx)

	quizzes := []domain.Quiz{}
	if err := cur.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	return quizzes, nil
}

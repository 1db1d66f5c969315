package repository

import (
	"context"
	"time"

	"learntrack/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type DLQRepository interface {
	Create(ctx context.Context, message *model.DeadLetterMessage) error
}

type dlqRepository struct {
	col *mongo.Collection
}

func NewDLQRepository(db *mongo.Database) DLQRepository {
	return &dlqRepository{col: db.Collection(deadLetterCollection)}
}

func (r *dlqRepository) Create(ctx context.Context, message *model.DeadLetterMessage) error {
	now := time.Now().UTC()
	message.ID = newID()
	message.CreatedAt, message.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, message)
	return err
}

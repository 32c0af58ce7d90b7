package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teamdeck/auth-service/internal/model"
)

// SetupTokenRepository defines the interface for setup token operations.
type SetupTokenRepository interface {
	// CreateToken persists a new setup token.
	CreateToken(ctx context.Context, token *model.SetupToken) (*model.SetupToken, error)

	// FindToken looks up an unexpired token by its value and purpose.
	FindToken(ctx context.Context, token string, purpose model.TokenPurpose) (*model.SetupToken, error)

	// DeleteToken consumes a token record.
	DeleteToken(ctx context.Context, token string) error
}

const setupTokenCollection = "setup_tokens"

type setupTokenMongoRepository struct {
	db *mongo.Database
}

// NewSetupTokenMongoRepository creates a new MongoDB repository for setup tokens.
func NewSetupTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) SetupTokenRepository {
	collection := db.Collection(setupTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create setup token indexes")
	}

	return &setupTokenMongoRepository{db: db}
}

func (r *setupTokenMongoRepository) CreateToken(
	ctx context.Context,
	token *model.SetupToken,
) (*model.SetupToken, error) {
	token.CreatedAt = time.Now()

	result, err := r.db.Collection(setupTokenCollection).InsertOne(ctx, token)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		token.ID = objectID
	}

	return token, nil
}

func (r *setupTokenMongoRepository) FindToken(
	ctx context.Context,
	token string,
	purpose model.TokenPurpose,
) (*model.SetupToken, error) {
	filter := bson.M{
		"token":      token,
		"purpose":    purpose,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var record model.SetupToken
	err := r.db.Collection(setupTokenCollection).FindOne(ctx, filter).Decode(&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *setupTokenMongoRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.db.Collection(setupTokenCollection).DeleteOne(ctx, bson.M{"token": token})
	return err
}

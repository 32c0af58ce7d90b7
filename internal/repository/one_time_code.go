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

// OneTimeCodeRepository defines the interface for one-time code operations.
type OneTimeCodeRepository interface {
	// CreateCode persists a new one-time code.
	CreateCode(ctx context.Context, code *model.OneTimeCode) (*model.OneTimeCode, error)

	// FindCode looks up an unexpired code matching the user, value and
	// purpose exactly. Expired or already-consumed codes are not found.
	FindCode(ctx context.Context, userID bson.ObjectID, code string, purpose model.CodePurpose) (*model.OneTimeCode, error)

	// DeleteCode consumes a single code record.
	DeleteCode(ctx context.Context, userID bson.ObjectID, code string, purpose model.CodePurpose) error

	// DeleteCodesByPurpose removes every code of the given purpose for a
	// user, used to invalidate outstanding codes before issuing a new one.
	DeleteCodesByPurpose(ctx context.Context, userID bson.ObjectID, purpose model.CodePurpose) error
}

const oneTimeCodeCollection = "one_time_codes"

type oneTimeCodeMongoRepository struct {
	db *mongo.Database
}

// NewOneTimeCodeMongoRepository creates a new MongoDB repository for one-time codes.
func NewOneTimeCodeMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) OneTimeCodeRepository {
	collection := db.Collection(oneTimeCodeCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "purpose", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create one-time code indexes")
	}

	return &oneTimeCodeMongoRepository{db: db}
}

func (r *oneTimeCodeMongoRepository) CreateCode(
	ctx context.Context,
	code *model.OneTimeCode,
) (*model.OneTimeCode, error) {
	code.CreatedAt = time.Now()

	result, err := r.db.Collection(oneTimeCodeCollection).InsertOne(ctx, code)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		code.ID = objectID
	}

	return code, nil
}

func (r *oneTimeCodeMongoRepository) FindCode(
	ctx context.Context,
	userID bson.ObjectID,
	code string,
	purpose model.CodePurpose,
) (*model.OneTimeCode, error) {
	filter := bson.M{
		"user_id":    userID,
		"code":       code,
		"purpose":    purpose,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var record model.OneTimeCode
	err := r.db.Collection(oneTimeCodeCollection).FindOne(ctx, filter).Decode(&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *oneTimeCodeMongoRepository) DeleteCode(
	ctx context.Context,
	userID bson.ObjectID,
	code string,
	purpose model.CodePurpose,
) error {
	_, err := r.db.Collection(oneTimeCodeCollection).DeleteOne(ctx, bson.M{
		"user_id": userID,
		"code":    code,
		"purpose": purpose,
	})
	return err
}

func (r *oneTimeCodeMongoRepository) DeleteCodesByPurpose(
	ctx context.Context,
	userID bson.ObjectID,
	purpose model.CodePurpose,
) error {
	_, err := r.db.Collection(oneTimeCodeCollection).DeleteMany(ctx, bson.M{
		"user_id": userID,
		"purpose": purpose,
	})
	return err
}

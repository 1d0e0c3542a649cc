// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		HubMongoClient:   client,
		HubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on. The unique
// indexes back the idempotency and duplicate guards; creating an index
// that already exists is a no-op.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.HubMongoDatabase

	type spec struct {
		collection string
		model      mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)
	specs := []spec{
		{"contacts", mongo.IndexModel{
			Keys:    bson.D{{Key: "subject", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"subject": bson.M{"$type": "string"}}),
		}},
		{"contacts", mongo.IndexModel{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: unique,
		}},
		{"teams", mongo.IndexModel{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: unique,
		}},
		// Unique only while Active, so a contact who left a team can
		// hold the old Inactive row and still be invited back.
		{"members", mongo.IndexModel{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "contact_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"status": models.MemberActive}),
		}},
		{"members", mongo.IndexModel{
			Keys: bson.D{{Key: "contact_id", Value: 1}, {Key: "status", Value: 1}},
		}},
		{"applications", mongo.IndexModel{
			Keys:    bson.D{{Key: "cohort_id", Value: 1}, {Key: "request_id", Value: 1}},
			Options: unique,
		}},
		{"applications", mongo.IndexModel{
			Keys: bson.D{{Key: "contact_id", Value: 1}},
		}},
		{"participation", mongo.IndexModel{
			Keys: bson.D{{Key: "contact_id", Value: 1}, {Key: "status", Value: 1}},
		}},
		{"initiatives", mongo.IndexModel{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: unique,
		}},
		{"team_invites", mongo.IndexModel{
			Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "status", Value: 1}},
		}},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			logger.Error("index creation failed",
				zap.String("collection", s.collection), zap.Error(err))
			return err
		}
	}

	logger.Info("schema ensured", zap.Int("indexes", len(specs)))
	return nil
}

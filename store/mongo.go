package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/finlens/insight-go/core"
)

// Collection names.
const (
	colAnalyses     = "analyses"
	colTransactions = "transactions"
	colNWIConfigs   = "nwi_configs"
	colGoals        = "goals"
	colHoldings     = "holdings"
	colTaxProfiles  = "tax_profiles"
	colPlans        = "plans"
)

// Mongo implements Analyses and Finance on a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB, verifies the connection, and ensures the
// indexes the hot queries rely on.
func Open(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m := &Mongo{client: client, db: client.Database(dbName)}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(colAnalyses).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "type", Value: 1},
			{Key: "generatedAt", Value: -1},
		},
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(colTransactions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "date", Value: -1},
		},
	})
	return err
}

// Ping reports whether the database is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the database.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Latest(ctx context.Context, userID string, t core.InsightType) (*core.AnalysisRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}})

	var rec core.AnalysisRecord
	err := m.db.Collection(colAnalyses).
		FindOne(ctx, bson.M{"userId": userID, "type": t}, opts).
		Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load latest analysis: %w", err)
	}
	return &rec, nil
}

func (m *Mongo) History(ctx context.Context, userID string, t core.InsightType, limit int) ([]core.AnalysisRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "generatedAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := m.db.Collection(colAnalyses).Find(ctx, bson.M{"userId": userID, "type": t}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis history: %w", err)
	}

	var recs []core.AnalysisRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode analysis history: %w", err)
	}
	return recs, nil
}

func (m *Mongo) Insert(ctx context.Context, rec *core.AnalysisRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.GeneratedAt.IsZero() {
		rec.GeneratedAt = time.Now().UTC()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.GeneratedAt
	}

	if _, err := m.db.Collection(colAnalyses).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// Prune ranks the user's analyses of one type newest-first and deletes
// everything past the first keep records. A concurrent insert between the
// rank and the delete can briefly leave more than keep behind; the next
// sweep corrects it.
func (m *Mongo) Prune(ctx context.Context, userID string, t core.InsightType, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "generatedAt", Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"_id": 1})

	coll := m.db.Collection(colAnalyses)
	cur, err := coll.Find(ctx, bson.M{"userId": userID, "type": t}, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to rank analyses for pruning: %w", err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("failed to collect prune candidates: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	res, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (m *Mongo) Purge(ctx context.Context, userID string, t core.InsightType) (int, error) {
	res, err := m.db.Collection(colAnalyses).DeleteMany(ctx, bson.M{"userId": userID, "type": t})
	if err != nil {
		return 0, fmt.Errorf("failed to purge analyses: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (m *Mongo) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cur, err := m.db.Collection(colTransactions).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	var txs []Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}

func (m *Mongo) NWIConfig(ctx context.Context, userID string) (*NWIConfig, error) {
	var cfg NWIConfig
	if err := m.findByUser(ctx, colNWIConfigs, userID, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (m *Mongo) Goals(ctx context.Context, userID string) ([]Goal, error) {
	cur, err := m.db.Collection(colGoals).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	var goals []Goal
	if err := cur.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("failed to decode goals: %w", err)
	}
	return goals, nil
}

func (m *Mongo) Holdings(ctx context.Context, userID string) (*Holdings, error) {
	var h Holdings
	if err := m.findByUser(ctx, colHoldings, userID, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (m *Mongo) TaxProfile(ctx context.Context, userID string) (*TaxProfile, error) {
	var p TaxProfile
	if err := m.findByUser(ctx, colTaxProfiles, userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Mongo) Plan(ctx context.Context, userID string) (*Plan, error) {
	var p Plan
	if err := m.findByUser(ctx, colPlans, userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// findByUser loads a single per-user document keyed by _id.
func (m *Mongo) findByUser(ctx context.Context, col, userID string, out any) error {
	err := m.db.Collection(col).FindOne(ctx, bson.M{"_id": userID}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to load %s: %w", col, err)
	}
	return nil
}

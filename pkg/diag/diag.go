// Package diag runs read-only health checks straight against the backend's
// MongoDB, for the cases where the REST API itself is the thing in question.
// Nothing here writes; every pipeline is an aggregation over users,
// miningsessions and transactions.
package diag

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// driftTolerance absorbs float rounding in the ledger sum; anything beyond a
// hundredth of a coin is a real discrepancy.
const driftTolerance = 0.01

type Diag struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and pings the primary. The URI always comes from the
// environment; there is deliberately no default.
func Connect(ctx context.Context, uri, database string) (*Diag, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info().Str("database", database).Msg("🔌 Connected to MongoDB")
	return &Diag{client: client, db: client.Database(database)}, nil
}

func (d *Diag) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Drift is one user whose stored balance disagrees with the sum of their
// ledger entries.
type Drift struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	Balance    float64 `json:"balance"`
	LedgerSum  float64 `json:"ledgerSum"`
	Difference float64 `json:"difference"`
}

// BalanceDrift recomputes each user's balance from the transactions
// collection and reports every mismatch beyond the tolerance.
func (d *Diag) BalanceDrift(ctx context.Context) ([]Drift, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$userId"},
			{Key: "sum", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cur, err := d.db.Collection("transactions").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate transactions: %w", err)
	}
	defer cur.Close(ctx)

	sums := map[string]float64{}
	for cur.Next(ctx) {
		var row struct {
			ID  interface{} `bson:"_id"`
			Sum float64     `bson:"sum"`
		}
		if err := cur.Decode(&row); err != nil {
			continue
		}
		sums[idString(row.ID)] = row.Sum
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	users, err := d.db.Collection("users").Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{
			{Key: "name", Value: 1},
			{Key: "coinBalance", Value: 1},
		}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer users.Close(ctx)

	var drifts []Drift
	for users.Next(ctx) {
		var u struct {
			ID          interface{} `bson:"_id"`
			Name        string      `bson:"name"`
			CoinBalance float64     `bson:"coinBalance"`
		}
		if err := users.Decode(&u); err != nil {
			continue
		}
		id := idString(u.ID)
		sum := sums[id]
		if diff := u.CoinBalance - sum; math.Abs(diff) > driftTolerance {
			drifts = append(drifts, Drift{
				UserID: id, Name: u.Name,
				Balance: u.CoinBalance, LedgerSum: sum, Difference: diff,
			})
		}
	}
	return drifts, users.Err()
}

// StatusCount is one slice of the session status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// SessionBreakdown groups mining sessions by status. A pile of sessions stuck
// in "active" past the cycle length usually means the completion worker died.
func (d *Diag) SessionBreakdown(ctx context.Context) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	cur, err := d.db.Collection("miningsessions").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate sessions: %w", err)
	}
	defer cur.Close(ctx)

	var out []StatusCount
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			continue
		}
		out = append(out, StatusCount{Status: row.ID, Count: row.Count})
	}
	return out, cur.Err()
}

// StuckSessions finds active sessions older than the given cycle length.
func (d *Diag) StuckSessions(ctx context.Context, cycle time.Duration) (int64, error) {
	cutoff := time.Now().Add(-cycle)
	return d.db.Collection("miningsessions").CountDocuments(ctx, bson.D{
		{Key: "status", Value: "active"},
		{Key: "startTime", Value: bson.D{{Key: "$lt", Value: cutoff}}},
	})
}

// Earner is one row of the top-earners report.
type Earner struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	KYC     string  `json:"kycStatus"`
}

// TopEarners returns the highest balances. Outliers at the top are where
// ledger drift and referral abuse show up first.
func (d *Diag) TopEarners(ctx context.Context, limit int64) ([]Earner, error) {
	cur, err := d.db.Collection("users").Find(ctx, bson.D{},
		options.Find().
			SetSort(bson.D{{Key: "coinBalance", Value: -1}}).
			SetLimit(limit).
			SetProjection(bson.D{
				{Key: "name", Value: 1},
				{Key: "coinBalance", Value: 1},
				{Key: "kycStatus", Value: 1},
			}))
	if err != nil {
		return nil, fmt.Errorf("find top earners: %w", err)
	}
	defer cur.Close(ctx)

	var out []Earner
	for cur.Next(ctx) {
		var u struct {
			ID          interface{} `bson:"_id"`
			Name        string      `bson:"name"`
			CoinBalance float64     `bson:"coinBalance"`
			KYCStatus   string      `bson:"kycStatus"`
		}
		if err := cur.Decode(&u); err != nil {
			continue
		}
		out = append(out, Earner{
			UserID: idString(u.ID), Name: u.Name,
			Balance: u.CoinBalance, KYC: u.KYCStatus,
		})
	}
	return out, cur.Err()
}

// idString renders _id values that may be ObjectIDs or plain strings.
func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprintf("%v", id)
	}
}

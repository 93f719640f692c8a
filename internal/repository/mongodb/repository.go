package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/prefs"
)

const (
	prefsCollection     = "preferences"
	snapshotsCollection = "report_snapshots"

	// All preference writes target one fixed document.
	prefsDocID = "user_preferences"
)

// Repository stores preference snapshots and weekly report snapshots.
type Repository struct {
	client *mongo.Client
	dbName string
}

type prefsDoc struct {
	ID        string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

// Read implements prefs.Storage over the fixed preference document.
func (r *Repository) Read(ctx context.Context) ([]byte, error) {
	collection := r.client.Database(r.dbName).Collection(prefsCollection)

	var doc prefsDoc
	err := collection.FindOne(ctx, bson.M{"_id": prefsDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, prefs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load preferences document: %w", err)
	}
	return doc.Payload, nil
}

// Write implements prefs.Storage, upserting the fixed preference document.
func (r *Repository) Write(ctx context.Context, data []byte) error {
	collection := r.client.Database(r.dbName).Collection(prefsCollection)

	doc := prefsDoc{ID: prefsDocID, Payload: data, UpdatedAt: time.Now().UTC()}
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": prefsDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert preferences document: %w", err)
	}
	return nil
}

// SaveWeeklyReport appends a weekly report snapshot.
func (r *Repository) SaveWeeklyReport(ctx context.Context, snapshot models.WeeklyReportSnapshot) error {
	collection := r.client.Database(r.dbName).Collection(snapshotsCollection)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert weekly report snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

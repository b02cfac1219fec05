package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cuongbtq/invoice-service/internal/domain"
	"github.com/cuongbtq/invoice-service/shared/mongodb"
)

// TransactionStore looks up transaction documents in the ledger store
type TransactionStore interface {
	FetchTransaction(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)
}

// MongoTransactionStore reads transaction documents through the shared MongoDB client
type MongoTransactionStore struct {
	collection *mongo.Collection
}

// NewMongoTransactionStore creates a transaction store over the named collection
func NewMongoTransactionStore(client *mongodb.Client, collection string) *MongoTransactionStore {
	return &MongoTransactionStore{
		collection: client.Collection(collection),
	}
}

// FetchTransaction returns the first document matching the transaction ID,
// or domain.ErrTransactionNotFound
func (s *MongoTransactionStore) FetchTransaction(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	filter := bson.M{"transaction_id": transactionID}

	var txn domain.TransactionRecord
	err := s.collection.FindOne(ctx, filter).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", transactionID, err)
	}

	return &txn, nil
}

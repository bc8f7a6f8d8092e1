package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sistemabancario/banking-system/internal/core/domain"
	"github.com/sistemabancario/banking-system/internal/infrastructure/store"
)

const usersCollection = "usuarios"

// The whole user table is one document. This keeps the store contract
// identical to the file backend: whole-table read, whole-table write, last
// writer wins.
const tableDocumentID = "usuarios"

// UserStore persists the user table as a single document in a collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

type tableDocument struct {
	ID    string      `bson:"_id"`
	Users store.Table `bson:"usuarios"`
}

// Load reads and normalizes the table document. A missing document is an
// empty table.
func (s *UserStore) Load(ctx context.Context) (map[string]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tableDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": tableDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]*domain.User{}, nil
		}
		return nil, fmt.Errorf("mongo: load table: %w", err)
	}
	return store.NormalizeTable(doc.Users), nil
}

// Save replaces the table document, creating it on first write.
func (s *UserStore) Save(ctx context.Context, users map[string]*domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := tableDocument{ID: tableDocumentID, Users: store.TableOf(users)}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": tableDocumentID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: save table: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCartNotFound = errors.New("cart not found")

// Abandoned carts are dropped by a TTL index on updated_at.
const cartRetention = 7 * 24 * time.Hour

type cartDocument struct {
	SessionID string         `bson:"session_id"`
	Lines     []lineDocument `bson:"lines"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// Money is stored as a decimal string; BSON has no codec for decimal.Decimal.
type lineDocument struct {
	LineID         string    `bson:"line_id"`
	MenuItemID     int64     `bson:"menu_item_id"`
	Name           string    `bson:"name"`
	Quantity       int       `bson:"quantity"`
	UnitPrice      string    `bson:"unit_price"`
	Size           string    `bson:"size,omitempty"`
	StuffedCrust   bool      `bson:"stuffed_crust"`
	SaltAndVinegar bool      `bson:"salt_and_vinegar"`
	AddedAt        time.Time `bson:"added_at"`
}

func toLineDocuments(lines []domain.CartLine) []lineDocument {
	docs := make([]lineDocument, 0, len(lines))
	for _, l := range lines {
		d := lineDocument{
			LineID:         l.ID,
			MenuItemID:     l.MenuItemID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice.String(),
			StuffedCrust:   l.Customizations.StuffedCrust,
			SaltAndVinegar: l.Customizations.SaltAndVinegar,
			AddedAt:        l.AddedAt,
		}
		if l.Customizations.Size != nil {
			d.Size = l.Customizations.Size.String()
		}
		docs = append(docs, d)
	}
	return docs
}

func (d cartDocument) toDomain() (*domain.Cart, error) {
	cart := &domain.Cart{
		SessionID: d.SessionID,
		Lines:     make([]domain.CartLine, 0, len(d.Lines)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, l := range d.Lines {
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %s: bad unit price %q: %w", l.LineID, l.UnitPrice, err)
		}
		c := domain.Customization{StuffedCrust: l.StuffedCrust, SaltAndVinegar: l.SaltAndVinegar}
		if l.Size != "" {
			size := domain.PizzaSize(l.Size)
			c.Size = &size
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID:             l.LineID,
			MenuItemID:     l.MenuItemID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPrice:      price,
			Customizations: c,
			AddedAt:        l.AddedAt,
		})
	}
	return cart, nil
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *MongoRepository) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return doc.toDomain()
}

func (m *MongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"session_id": cart.SessionID}
	update := bson.M{
		"$set": bson.M{
			"lines":      toLineDocuments(cart.Lines),
			"updated_at": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": cart.CreatedAt},
	}

	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) DeleteCart(ctx context.Context, sessionID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cartRetention.Seconds())),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/repository"
)

// ProductRepository is a MongoDB-backed implementation of port.ProductRepository.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository binds the repository to the products collection.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

// Create inserts a product document.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID fetches a product by its ObjectID.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &product, nil
}

// List returns products matching the filter. Only fields that are set on the
// filter constrain the query.
func (r *ProductRepository) List(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	query := bson.M{}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}

	opts := options.Find().SetSort(sortSpec(filter.Sort))
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func sortSpec(sort port.ProductSort) bson.D {
	switch sort {
	case port.ProductSortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case port.ProductSortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case port.ProductSortName:
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// Update replaces the editable fields and returns the updated document.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, update port.ProductUpdate) (*domain.Product, error) {
	set := bson.M{
		"$set": bson.M{
			"name":        update.Name,
			"price":       update.Price,
			"description": update.Description,
			"category":    update.Category,
			"imageUrl":    update.ImageURL,
			"stock":       update.Stock,
			"featured":    update.Featured,
			"updatedAt":   time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product domain.Product
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, set, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &product, nil
}

// Delete removes a product and returns the deleted document.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return &product, nil
}

// UpdateRatings overwrites the rating aggregate.
func (r *ProductRepository) UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings domain.RatingAggregate) error {
	update := bson.M{
		"$set": bson.M{
			"ratings":   ratings,
			"updatedAt": time.Now().UTC(),
		},
	}

	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update product ratings: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ port.ProductRepository = (*ProductRepository)(nil)

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

// ReviewRepository is a MongoDB-backed implementation of port.ReviewRepository.
type ReviewRepository struct {
	coll *mongo.Collection
}

// NewReviewRepository binds the repository to the reviews collection.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewsCollection)}
}

// Create inserts a review document.
func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) error {
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID fetches a review by its ObjectID.
func (r *ReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	var review domain.Review
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return &review, nil
}

// List returns reviews matching the filter, newest first.
func (r *ReviewRepository) List(ctx context.Context, filter port.ReviewFilter) ([]domain.Review, error) {
	query := bson.M{}
	if filter.ProductID != nil {
		query["productId"] = *filter.ProductID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []domain.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

// ListByProduct returns every review for the product, used by the rating
// aggregate recompute.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Review, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"productId": productID})
	if err != nil {
		return nil, fmt.Errorf("list reviews by product: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []domain.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

// Update replaces the editable fields and returns the updated document.
func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, update port.ReviewUpdate) (*domain.Review, error) {
	set := bson.M{
		"$set": bson.M{
			"author":    update.Author,
			"rating":    update.Rating,
			"comment":   update.Comment,
			"verified":  update.Verified,
			"helpful":   update.Helpful,
			"updatedAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review domain.Review
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, set, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return &review, nil
}

// Delete removes a review and returns the deleted document so the caller can
// recompute the product's rating aggregate.
func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	var review domain.Review
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("delete review: %w", err)
	}
	return &review, nil
}

var _ port.ReviewRepository = (*ReviewRepository)(nil)

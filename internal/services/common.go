package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/apperr"
	"campdir/internal/query"
)

// parseID converts a path identifier. A malformed identifier reads the same
// as a missing document to the caller.
func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Resource not found with id %s", id)
	}
	return objID, nil
}

// listDocuments runs the translated filter against a collection and returns
// the page of documents plus the total matching count.
func listDocuments[T any](ctx context.Context, col *mongo.Collection, opts query.Options) ([]T, int64, error) {
	total, err := col.CountDocuments(ctx, opts.Filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := col.Find(ctx, opts.Filter, opts.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

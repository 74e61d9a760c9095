// Package mongodb stores cinema records as documents of one MongoDB
// collection. Identifiers are ObjectIDs rendered as 24 hex characters.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/repository"
)

type cinemaDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Movie       string             `bson:"movie"`
	Description string             `bson:"description"`
	Image       string             `bson:"image,omitempty"`
}

func (d cinemaDoc) toModel() *model.Cinema {
	return &model.Cinema{
		ID:          d.ID.Hex(),
		Movie:       d.Movie,
		Description: d.Description,
		Image:       d.Image,
	}
}

type cinemaStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri and pings the primary before returning. ctx bounds both.
func Connect(ctx context.Context, uri, database, collection string) (repository.CinemaStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, wrap("connect", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w: %w", repository.ErrStoreUnavailable, err)
	}
	return &cinemaStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *cinemaStore) Insert(ctx context.Context, c *model.Cinema) error {
	doc := cinemaDoc{
		ID:          primitive.NewObjectID(),
		Movie:       c.Movie,
		Description: c.Description,
		Image:       c.Image,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return wrap("insert", err)
	}
	c.ID = doc.ID.Hex()
	return nil
}

func (s *cinemaStore) List(ctx context.Context, limit int) ([]*model.Cinema, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrap("find", err)
	}
	defer cur.Close(ctx)

	out := []*model.Cinema{}
	for cur.Next(ctx) {
		var doc cinemaDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, wrap("decode", err)
		}
		out = append(out, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, wrap("cursor", err)
	}
	return out, nil
}

func (s *cinemaStore) Get(ctx context.Context, id string) (*model.Cinema, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc cinemaDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrCinemaNotFound
		}
		return nil, wrap("find one", err)
	}
	return doc.toModel(), nil
}

func (s *cinemaStore) Update(ctx context.Context, id string, patch model.CinemaPatch) (*model.Cinema, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc cinemaDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": setFields(patch)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrCinemaNotFound
		}
		return nil, wrap("find one and update", err)
	}
	return doc.toModel(), nil
}

func (s *cinemaStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrCinemaNotFound
	}
	return nil
}

func (s *cinemaStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w: %w", repository.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *cinemaStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func setFields(p model.CinemaPatch) bson.M {
	set := bson.M{}
	if p.Movie != nil {
		set["movie"] = *p.Movie
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	return set
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", repository.ErrMalformedID, id)
	}
	return oid, nil
}

// wrap tags connection-class failures with ErrStoreUnavailable.
func wrap(op string, err error) error {
	if unavailable(err) {
		return fmt.Errorf("mongo %s: %w: %w", op, repository.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}

func unavailable(err error) bool {
	var sse topology.ServerSelectionError
	return mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.As(err, &sse)
}

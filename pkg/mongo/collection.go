package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/query"
)

// Collection implements crud.Model over a MongoDB collection.
// Populate options are resolved server side with $lookup, which requires
// MongoDB 5.0 or newer when Select is used.
type Collection struct {
	coll   *mongo.Collection
	schema *crud.Schema
}

var _ crud.Model = (*Collection)(nil)

// NewCollection wraps the named collection of db. A nil schema stores
// documents as they are.
func NewCollection(db *mongo.Database, name string, schema *crud.Schema) *Collection {
	return &Collection{
		coll:   db.Collection(name),
		schema: schema,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.coll.Name()
}

// EnsureIndexes creates a unique index for every unique schema field.
func (c *Collection) EnsureIndexes(ctx context.Context) error {
	models := uniqueIndexes(c.schema.Unique())
	if len(models) == 0 {
		return nil
	}
	if _, err := c.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo: create indexes of %s: %w", c.Name(), err)
	}
	return nil
}

func (c *Collection) Create(ctx context.Context, data crud.Document) (crud.Document, error) {
	doc, err := c.schema.New(data)
	if err != nil {
		return nil, err
	}
	if _, err := c.coll.InsertOne(ctx, bson.M(doc)); err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

func (c *Collection) FindByID(ctx context.Context, id string, populate ...crud.Populate) (crud.Document, error) {
	oid, err := crud.ParseID(id)
	if err != nil {
		return nil, err
	}
	return c.FindOne(ctx, bson.M{crud.KeyID: oid}, populate...)
}

func (c *Collection) FindOne(ctx context.Context, filter bson.M, populate ...crud.Populate) (crud.Document, error) {
	filter, err := c.schema.CastFilter(filter)
	if err != nil {
		return nil, err
	}

	if len(populate) == 0 {
		var doc bson.M
		if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
			return nil, translate(err)
		}
		return crud.Document(doc), nil
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$limit", Value: 1}},
	}, lookupStages(populate)...)

	docs, err := c.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, crud.ErrNotFound
	}
	return docs[0], nil
}

func (c *Collection) Find(ctx context.Context, q *query.Query) ([]crud.Document, error) {
	if q == nil {
		q = query.NewQuery(nil)
	}
	filter, err := c.schema.CastFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	cursor, err := c.coll.Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll(ctx, cursor)
}

func (c *Collection) FindByIDAndUpdate(ctx context.Context, id string, data crud.Document, opts crud.UpdateOptions) (crud.Document, error) {
	oid, err := crud.ParseID(id)
	if err != nil {
		return nil, err
	}

	current, err := c.FindOne(ctx, bson.M{crud.KeyID: oid})
	if err != nil {
		return nil, err
	}
	set, err := c.schema.Update(current, data, opts.RunValidators)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return current, nil
	}

	var doc bson.M
	err = c.coll.FindOneAndUpdate(ctx,
		bson.M{crud.KeyID: oid},
		bson.M{"$set": bson.M(set)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return crud.Document(doc), nil
}

func (c *Collection) FindByIDAndDelete(ctx context.Context, id string) (crud.Document, error) {
	oid, err := crud.ParseID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	if err := c.coll.FindOneAndDelete(ctx, bson.M{crud.KeyID: oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return crud.Document(doc), nil
}

func (c *Collection) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]crud.Document, error) {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err)
	}
	return decodeAll(ctx, cursor)
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]crud.Document, error) {
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("mongo: decode cursor: %w", err)
	}
	docs := make([]crud.Document, 0, len(raw))
	for _, d := range raw {
		docs = append(docs, crud.Document(d))
	}
	return docs, nil
}

// findOptions translates the query into driver options.
func findOptions(q *query.Query) *options.FindOptionsBuilder {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

// lookupStages builds one $lookup per populate option. Single options keep
// the first match or null instead of an array.
func lookupStages(pops []crud.Populate) mongo.Pipeline {
	stages := make(mongo.Pipeline, 0, len(pops))
	for _, p := range pops {
		lookup := bson.D{
			{Key: "from", Value: p.From},
			{Key: "localField", Value: p.LocalField},
			{Key: "foreignField", Value: p.ForeignField},
		}
		if len(p.Select) > 0 {
			projection := make(bson.D, 0, len(p.Select))
			for _, f := range p.Select {
				projection = append(projection, bson.E{Key: f, Value: 1})
			}
			lookup = append(lookup, bson.E{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: projection}},
			}})
		}
		lookup = append(lookup, bson.E{Key: "as", Value: p.Path})
		stages = append(stages, bson.D{{Key: "$lookup", Value: lookup}})

		if p.Single {
			stages = append(stages, bson.D{{Key: "$set", Value: bson.D{
				{Key: p.Path, Value: bson.D{{Key: "$ifNull", Value: bson.A{
					bson.D{{Key: "$arrayElemAt", Value: bson.A{"$" + p.Path, 0}}},
					nil,
				}}}},
			}}})
		}
	}
	return stages
}

func uniqueIndexes(fields []string) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}
	return models
}

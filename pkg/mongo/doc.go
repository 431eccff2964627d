// Package mongo connects to MongoDB and implements crud.Model on top of a
// collection.
//
// The client is created explicitly and owned by the caller:
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	db := client.Database(cfg.Database)
//	tours := mongo.NewCollection(db, "tours", tourSchema)
//	if err := tours.EnsureIndexes(ctx); err != nil {
//		return err
//	}
//
// Collection casts filters and payloads through the crud.Schema, translates
// "no documents" into crud.ErrNotFound and duplicate key errors into
// *crud.DuplicateError. Populate options become $lookup stages.
//
// MapError can be registered with the HTTP error handler to map raw driver
// errors (duplicate keys, timeouts) to client responses.
package mongo

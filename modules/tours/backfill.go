package tours

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/logger"
	"github.com/dmitrymomot/natours/pkg/query"
	"github.com/dmitrymomot/natours/pkg/slug"
)

// BackfillSlugs sets the slug of every tour stored without one and returns
// the number of updated tours. Validators do not run, so older documents
// that no longer satisfy the schema are still fixed.
func BackfillSlugs(ctx context.Context, tours crud.Model, log *slog.Logger) (int, error) {
	if log == nil {
		log = logger.Discard()
	}

	docs, err := tours.Find(ctx, &query.Query{
		Filter: bson.M{"$or": bson.A{
			bson.M{"slug": bson.M{"$exists": false}},
			bson.M{"slug": ""},
		}},
		Projection: bson.D{{Key: "name", Value: 1}},
	})
	if err != nil {
		return 0, fmt.Errorf("backfill slugs: find tours: %w", err)
	}

	updated := 0
	for _, doc := range docs {
		id, ok := doc[crud.KeyID].(bson.ObjectID)
		if !ok {
			continue
		}
		name, _ := doc["name"].(string)
		s := slug.Make(name)
		if s == "" {
			log.WarnContext(ctx, "tour name yields an empty slug",
				slog.String("tour_id", id.Hex()),
				logger.Component("backfill"),
			)
			continue
		}

		if _, err := tours.FindByIDAndUpdate(ctx, id.Hex(), crud.Document{"slug": s}, crud.UpdateOptions{}); err != nil {
			return updated, fmt.Errorf("backfill slugs: update %s: %w", id.Hex(), err)
		}
		updated++
		log.DebugContext(ctx, "tour slug set",
			slog.String("tour_id", id.Hex()),
			slog.String("slug", s),
			logger.Component("backfill"),
		)
	}

	log.InfoContext(ctx, "slug backfill finished",
		logger.Count(int64(updated)),
		logger.Collection(ToursCollection),
		logger.Component("backfill"),
	)
	return updated, nil
}

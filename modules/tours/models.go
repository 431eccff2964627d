package tours

import (
	"context"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/metrics"
	"github.com/dmitrymomot/natours/pkg/mongo"
)

// Models groups the document models of the application.
type Models struct {
	Tours    crud.Model
	Reviews  crud.Model
	Bookings crud.Model
	Users    crud.Model
}

// NewMemoryModels returns in-process collections linked to each other for
// populate.
func NewMemoryModels() Models {
	tours := crud.NewMemoryModel(ToursCollection, TourSchema)
	reviews := crud.NewMemoryModel(ReviewsCollection, ReviewSchema)
	bookings := crud.NewMemoryModel(BookingsCollection, BookingSchema)
	users := crud.NewMemoryModel(UsersCollection, UserSchema)

	tours.Link(reviews)
	tours.Link(users)
	reviews.Link(users)
	reviews.Link(tours)
	bookings.Link(tours)
	bookings.Link(users)

	return Models{Tours: tours, Reviews: reviews, Bookings: bookings, Users: users}
}

// NewMongoModels returns models over the collections of db and creates their
// unique indexes.
func NewMongoModels(ctx context.Context, db *mongodriver.Database) (Models, error) {
	tours := mongo.NewCollection(db, ToursCollection, TourSchema)
	reviews := mongo.NewCollection(db, ReviewsCollection, ReviewSchema)
	bookings := mongo.NewCollection(db, BookingsCollection, BookingSchema)
	users := mongo.NewCollection(db, UsersCollection, UserSchema)

	for _, c := range []*mongo.Collection{tours, reviews, bookings, users} {
		if err := c.EnsureIndexes(ctx); err != nil {
			return Models{}, err
		}
	}
	return Models{Tours: tours, Reviews: reviews, Bookings: bookings, Users: users}, nil
}

// Instrument wraps every model with operation metrics.
func (m Models) Instrument(met *metrics.Metrics) Models {
	return Models{
		Tours:    met.Instrument(ToursCollection, m.Tours),
		Reviews:  met.Instrument(ReviewsCollection, m.Reviews),
		Bookings: met.Instrument(BookingsCollection, m.Bookings),
		Users:    met.Instrument(UsersCollection, m.Users),
	}
}

// Populate options shared by the API and the pages.
var (
	// TourReviews attaches the reviews of a tour.
	TourReviews = crud.Populate{
		Path:         "reviews",
		From:         ReviewsCollection,
		LocalField:   crud.KeyID,
		ForeignField: "tour",
	}

	// TourGuides replaces guide ids with the public fields of the users.
	TourGuides = crud.Populate{
		Path:         "guides",
		From:         UsersCollection,
		LocalField:   "guides",
		ForeignField: crud.KeyID,
		Select:       []string{"name", "email", "photo", "role"},
	}
)

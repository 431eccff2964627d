package tours

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/pkg/crud"
	"github.com/dmitrymomot/natours/pkg/sanitizer"
	"github.com/dmitrymomot/natours/pkg/slug"
)

// Collection names.
const (
	ToursCollection    = "tours"
	ReviewsCollection  = "reviews"
	BookingsCollection = "bookings"
	UsersCollection    = "users"
)

// Location is a GeoJSON point.
type Location struct {
	Type        string    `bson:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `bson:"coordinates" validate:"omitempty,len=2"`
	Address     string    `bson:"address,omitempty"`
	Description string    `bson:"description,omitempty"`
	Day         int       `bson:"day,omitempty"`
}

type Tour struct {
	Name            string          `bson:"name" validate:"required,min=10,max=40" message:"required=A tour must have a name;min=A tour name must have more or equal then 10 characters;max=A tour name must have less or equal then 40 characters"`
	Slug            string          `bson:"slug,omitempty"`
	Duration        int             `bson:"duration" validate:"required,gt=0" message:"A tour must have a duration"`
	MaxGroupSize    int             `bson:"maxGroupSize" validate:"required,gt=0" message:"A tour must have a group size"`
	Difficulty      string          `bson:"difficulty" validate:"required,oneof=easy medium difficult" message:"required=A tour must have a difficulty;oneof=Difficulty is either: easy, medium, difficult"`
	RatingsAverage  float64         `bson:"ratingsAverage" validate:"gte=1,lte=5" message:"gte=Rating must be above 1.0;lte=Rating must be below 5.0"`
	RatingsQuantity int             `bson:"ratingsQuantity" validate:"gte=0"`
	Price           float64         `bson:"price" validate:"required,gt=0" message:"A tour must have a price"`
	PriceDiscount   float64         `bson:"priceDiscount,omitempty" validate:"omitempty,gte=0,ltfield=Price" message:"Discount price should be below regular price"`
	Summary         string          `bson:"summary" validate:"required" message:"A tour must have a summary"`
	Description     string          `bson:"description,omitempty"`
	ImageCover      string          `bson:"imageCover" validate:"required" message:"A tour must have a cover image"`
	Images          []string        `bson:"images,omitempty"`
	StartDates      []time.Time     `bson:"startDates,omitempty"`
	SecretTour      bool            `bson:"secretTour"`
	StartLocation   *Location       `bson:"startLocation,omitempty"`
	Locations       []Location      `bson:"locations,omitempty" validate:"omitempty,dive"`
	Guides          []bson.ObjectID `bson:"guides,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt"`
}

func (t *Tour) SetDefaults() {
	t.RatingsAverage = 4.5
}

// BeforeSave derives the slug from the name.
func (t *Tour) BeforeSave() error {
	t.Slug = slug.Make(t.Name)
	if t.StartLocation != nil && t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
	return nil
}

type Review struct {
	Review    string        `bson:"review" validate:"required" message:"Review can not be empty!"`
	Rating    float64       `bson:"rating,omitempty" validate:"omitempty,gte=1,lte=5" message:"gte=Rating must be above 1.0;lte=Rating must be below 5.0"`
	Tour      bson.ObjectID `bson:"tour" validate:"required" message:"Review must belong to a tour."`
	User      bson.ObjectID `bson:"user" validate:"required" message:"Review must belong to a user"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type Booking struct {
	Tour      bson.ObjectID `bson:"tour" validate:"required" message:"Booking must belong to a Tour!"`
	User      bson.ObjectID `bson:"user" validate:"required" message:"Booking must belong to a User!"`
	Price     float64       `bson:"price" validate:"required,gt=0" message:"Booking must have a price."`
	Paid      bool          `bson:"paid"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (b *Booking) SetDefaults() {
	b.Paid = true
}

type User struct {
	Name   string `bson:"name" validate:"required" message:"Please tell us your name!"`
	Email  string `bson:"email" validate:"required,email" message:"required=Please provide your email;email=Please provide a valid email"`
	Photo  string `bson:"photo"`
	Role   string `bson:"role" validate:"oneof=user guide lead-guide admin" message:"Role is either: user, guide, lead-guide, admin"`
	Active bool   `bson:"active"`
}

func (u *User) SetDefaults() {
	u.Photo = "default.jpg"
	u.Role = "user"
	u.Active = true
}

// BeforeSave stores the email in canonical form so the unique index
// matches case variants.
func (u *User) BeforeSave() error {
	u.Email = sanitizer.NormalizeEmail(u.Email)
	return nil
}

// Schemas of the four collections.
var (
	TourSchema    = crud.NewSchema[Tour](crud.WithUnique("name"))
	ReviewSchema  = crud.NewSchema[Review]()
	BookingSchema = crud.NewSchema[Booking]()
	UserSchema    = crud.NewSchema[User](crud.WithUnique("email"))
)

package crud

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether id is a 24 character hex object id.
func IsValidID(id string) bool {
	return objectIDPattern.MatchString(id)
}

// ParseID converts a hex id into an ObjectID.
func ParseID(id string) (bson.ObjectID, error) {
	if !IsValidID(id) {
		return bson.NilObjectID, &CastError{Path: KeyID, Value: id, Kind: "ObjectId"}
	}
	return bson.ObjectIDFromHex(id)
}

package place

import (
	"errors"
	"time"
)

const PointType = "Point"

// Location is a GeoJSON point; Coordinates holds [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type" binding:"omitempty,oneof=Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" binding:"required,lnglat"`
}

type Place struct {
	PlaceID           int64     `json:"placeid" bson:"placeid"`
	PlaceName         string    `json:"placeName" bson:"placeName"`
	PlaceDescription  string    `json:"placeDescription" bson:"placeDescription"`
	PlacePicture      string    `json:"placePicture" bson:"placePicture"`
	Location          Location  `json:"location" bson:"location"`
	PlaceCorrTrip     int64     `json:"placeCorrTrip" bson:"placeCorrTrip"`
	PlaceCreationDate time.Time `json:"placeCreationDate" bson:"placeCreationDate"`
	PlaceLastModDate  time.Time `json:"placeLastModDate" bson:"placeLastModDate"`
}

type ListFilter struct {
	Trip   *int64
	Limit  int
	Offset int
}

var (
	ErrNotFound     = errors.New("place not found")
	ErrIDTaken      = errors.New("placeid already exists")
	ErrTripNotFound = errors.New("place trip does not exist")
)

type CreateRequest struct {
	PlaceID          *int64    `json:"placeid" binding:"omitempty,min=1"`
	PlaceName        string    `json:"placeName" binding:"required,max=120"`
	PlaceDescription string    `json:"placeDescription" binding:"omitempty,max=2000"`
	PlacePicture     string    `json:"placePicture" binding:"omitempty,url"`
	Location         *Location `json:"location"`
	PlaceCorrTrip    int64     `json:"placeCorrTrip" binding:"required,min=1"`
}

type PatchRequest struct {
	PlaceName        *string   `json:"placeName" binding:"omitempty,min=1,max=120"`
	PlaceDescription *string   `json:"placeDescription" binding:"omitempty,max=2000"`
	PlacePicture     *string   `json:"placePicture" binding:"omitempty,url"`
	Location         *Location `json:"location"`
	PlaceCorrTrip    *int64    `json:"placeCorrTrip" binding:"omitempty,min=1"`
}

// A missing picture or location is reset to the defaults.
type ReplaceRequest struct {
	PlaceName        string    `json:"placeName" binding:"required,max=120"`
	PlaceDescription string    `json:"placeDescription" binding:"omitempty,max=2000"`
	PlacePicture     string    `json:"placePicture" binding:"omitempty,url"`
	Location         *Location `json:"location"`
	PlaceCorrTrip    int64     `json:"placeCorrTrip" binding:"required,min=1"`
}

func DefaultLocation() Location {
	return Location{Type: PointType, Coordinates: []float64{0, 0}}
}

// ValidLngLat reports whether coords is a [longitude, latitude] pair inside
// the WGS84 bounds.
func ValidLngLat(coords []float64) bool {
	if len(coords) != 2 {
		return false
	}

	lng, lat := coords[0], coords[1]

	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// Normalize fills in the point type and copies the coordinates so callers
// can't mutate the stored slice.
func (l Location) Normalize() Location {
	coords := make([]float64, len(l.Coordinates))
	copy(coords, l.Coordinates)

	return Location{Type: PointType, Coordinates: coords}
}

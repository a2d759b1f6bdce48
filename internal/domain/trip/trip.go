package trip

import (
	"errors"
	"time"
)

type Trip struct {
	TripID           int64     `json:"tripid" bson:"tripid"`
	TripName         string    `json:"tripName" bson:"tripName"`
	TripDescription  string    `json:"tripDescription" bson:"tripDescription"`
	TripCreationDate time.Time `json:"tripCreationDate" bson:"tripCreationDate"`
	TripLastModDate  time.Time `json:"tripLastModDate" bson:"tripLastModDate"`
	TripCreator      int64     `json:"tripCreator" bson:"tripCreator"`
}

type WithPlaceCount struct {
	Trip
	PlaceCount int64 `json:"placeCount"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Creator *int64
	Limit   int
	Offset  int
}

var (
	ErrNotFound        = errors.New("trip not found")
	ErrIDTaken         = errors.New("tripid already exists")
	ErrCreatorNotFound = errors.New("trip creator does not exist")
)

// TripCreator falls back to the authenticated user when omitted.
type CreateRequest struct {
	TripID          *int64 `json:"tripid" binding:"omitempty,min=1"`
	TripName        string `json:"tripName" binding:"required,max=120"`
	TripDescription string `json:"tripDescription" binding:"omitempty,max=2000"`
	TripCreator     *int64 `json:"tripCreator" binding:"omitempty,min=1"`
}

type PatchRequest struct {
	TripName        *string `json:"tripName" binding:"omitempty,min=1,max=120"`
	TripDescription *string `json:"tripDescription" binding:"omitempty,max=2000"`
	TripCreator     *int64  `json:"tripCreator" binding:"omitempty,min=1"`
}

type ReplaceRequest struct {
	TripName        string `json:"tripName" binding:"required,max=120"`
	TripDescription string `json:"tripDescription" binding:"omitempty,max=2000"`
	TripCreator     int64  `json:"tripCreator" binding:"required,min=1"`
}

func NewFromCreateRequest(id, creator int64, req CreateRequest, now time.Time) Trip {
	return Trip{
		TripID:           id,
		TripName:         req.TripName,
		TripDescription:  req.TripDescription,
		TripCreationDate: now,
		TripLastModDate:  now,
		TripCreator:      creator,
	}
}

package client

import "time"

type User struct {
	UserID           int64     `json:"userid"`
	UserName         string    `json:"userName,omitempty"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registrationDate"`
	TripCount        int64     `json:"tripCount"`
}

type Trip struct {
	TripID           int64     `json:"tripid"`
	TripName         string    `json:"tripName"`
	TripDescription  string    `json:"tripDescription"`
	TripCreationDate time.Time `json:"tripCreationDate"`
	TripLastModDate  time.Time `json:"tripLastModDate"`
	TripCreator      int64     `json:"tripCreator"`
	PlaceCount       int64     `json:"placeCount"`
}

type Location struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

type Place struct {
	PlaceID           int64     `json:"placeid"`
	PlaceName         string    `json:"placeName"`
	PlaceDescription  string    `json:"placeDescription"`
	PlacePicture      string    `json:"placePicture"`
	Location          Location  `json:"location"`
	PlaceCorrTrip     int64     `json:"placeCorrTrip"`
	PlaceCreationDate time.Time `json:"placeCreationDate"`
	PlaceLastModDate  time.Time `json:"placeLastModDate"`
}

type SignUpInput struct {
	UserID   int64  `json:"userid,omitempty"`
	UserName string `json:"userName,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TripInput struct {
	TripID          int64  `json:"tripid,omitempty"`
	TripName        string `json:"tripName"`
	TripDescription string `json:"tripDescription,omitempty"`
	TripCreator     int64  `json:"tripCreator,omitempty"`
}

type PlaceInput struct {
	PlaceID          int64     `json:"placeid,omitempty"`
	PlaceName        string    `json:"placeName"`
	PlaceDescription string    `json:"placeDescription,omitempty"`
	PlacePicture     string    `json:"placePicture,omitempty"`
	Location         *Location `json:"location,omitempty"`
	PlaceCorrTrip    int64     `json:"placeCorrTrip"`
}

// ListOptions selects a page; zero values let the server pick its defaults.
type ListOptions struct {
	Page     int
	PageSize int
}

// Page is one page of a list endpoint plus its pagination headers.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
	Link     string
}

package model

// Theater represents a movie theatre venue.  Theaters are static catalog
// data; showtimes reference them by ID.
//
// Fields:
//  ID       – catalog identifier.
//  Name     – display name of the theater.
//  Location – short neighbourhood label (e.g. "Downtown").
//  Address  – street address.
type Theater struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    Location string `json:"location"`
    Address  string `json:"address"`
}

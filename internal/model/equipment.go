package model

import "time"

// MediaKind classifies a media reference as an image or a video.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaReference is a single gallery asset. Kind is derived from the URL's
// extension by the media resolver, never stored.
type MediaReference struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// Equipment represents one piece of equipment in the catalog. Availability is
// not a field: a record is available or sold depending on which collection it
// lives in.
type Equipment struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Media       []MediaReference `json:"media"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CreatedBy   string           `json:"created_by,omitempty"`
	UpdatedBy   string           `json:"updated_by,omitempty"`
}

// SoldDetails holds the fields that exist only while a record is in the sold
// collection.
type SoldDetails struct {
	SoldAt    time.Time `json:"sold_at"`
	SoldPrice *float64  `json:"sold_price,omitempty"`
	SoldNotes string    `json:"sold_notes,omitempty"`
}

// SoldEquipment is a sold record: the equipment plus its sale details.
type SoldEquipment struct {
	Equipment
	SoldDetails
}

// Equipment categories.
const (
	CategoryDozer       = "Dozer"
	CategoryWheelLoader = "Wheel loader"
	CategoryGrader      = "Grader"
	CategoryExcavator   = "Excavator"
	CategoryCompactor   = "Compactor"
)

// Categories lists all known equipment categories in display order.
var Categories = []string{
	CategoryDozer,
	CategoryWheelLoader,
	CategoryGrader,
	CategoryExcavator,
	CategoryCompactor,
}

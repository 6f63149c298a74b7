package models

import "gorm.io/datatypes"

// Artwork statuses.
const (
	ArtworkAvailable   = "AVAILABLE"
	ArtworkSold        = "SOLD"
	ArtworkReserved    = "RESERVED"
	ArtworkNotForSale  = "NOT_FOR_SALE"
	ArtworkStatusRules = "in=AVAILABLE|SOLD|RESERVED|NOT_FOR_SALE"
)

type Artwork struct {
	Base
	Title       string                      `gorm:"size:255;not null;index" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Price       float64                     `gorm:"not null;default:0" json:"price"`
	Category    string                      `gorm:"size:100;index" json:"category"`
	Medium      string                      `gorm:"size:100" json:"medium"`
	Dimensions  string                      `gorm:"size:100" json:"dimensions"`
	Year        *int                        `json:"year"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Status      string                      `gorm:"size:20;not null;default:AVAILABLE;index" json:"status"`
	Featured    bool                        `gorm:"not null;default:false" json:"featured"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`

	OrderItemsCount int64 `gorm:"-:all" json:"orderItemsCount"`
}

// ArtworkRef is the {id, title, images} view used inside admin order lists.
type ArtworkRef struct {
	ID     uint                        `json:"id"`
	Title  string                      `json:"title"`
	Images datatypes.JSONSlice[string] `json:"images"`
}

func (ArtworkRef) TableName() string { return "artworks" }

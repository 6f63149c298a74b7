package models

// Inquiry enums.
const (
	InquiryGeneral    = "GENERAL"
	InquiryCommission = "COMMISSION"
	InquiryClass      = "CLASS"
	InquiryPurchase   = "PURCHASE"

	InquiryUnread   = "UNREAD"
	InquiryRead     = "READ"
	InquiryReplied  = "REPLIED"
	InquiryArchived = "ARCHIVED"

	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

type Inquiry struct {
	Base
	Name     string  `gorm:"size:255;not null" json:"name"`
	Email    string  `gorm:"size:255;not null" json:"email"`
	Subject  string  `gorm:"size:255;not null" json:"subject"`
	Message  string  `gorm:"type:text;not null" json:"message"`
	Type     string  `gorm:"size:20;not null;default:GENERAL;index" json:"type"`
	Status   string  `gorm:"size:20;not null;default:UNREAD;index" json:"status"`
	Priority string  `gorm:"size:10;not null;default:MEDIUM" json:"priority"`
	Response *string `gorm:"type:text" json:"response"`
	UserID   *uint   `gorm:"index" json:"userId"`

	User *UserRef `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

package domain

import (
	"github.com/google/uuid"
)

// Reviews

type Review struct {
	ID           uuid.UUID `json:"id"`
	ReviewerID   uuid.UUID `json:"reviewerId"`
	ReviewerName string    `json:"reviewerName"`
	RevieweeID   uuid.UUID `json:"revieweeId"`
	RevieweeName string    `json:"revieweeName"`
	RevieweeType string    `json:"revieweeType"`
	OrderID      uuid.UUID `json:"orderId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Tags         []string  `json:"tags"`
	LikeCount    int       `json:"likeCount"`
	ReportCount  int       `json:"reportCount"`
	IsLiked      bool      `json:"isLiked"`
	IsReported   bool      `json:"isReported"`
	Response     string    `json:"response"`
	RespondedAt  *Time     `json:"respondedAt"`
	CreatedAt    Time      `json:"createdAt"`
}

type TagFrequency struct {
	Tag        string  `json:"tag"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ReviewStats struct {
	EntityID           uuid.UUID      `json:"entityId"`
	EntityType         string         `json:"entityType"`
	TotalReviews       int            `json:"totalReviews"`
	AverageRating      float64        `json:"averageRating"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
	TopTags            []TagFrequency `json:"topTags"`
}

type ReviewFilter struct {
	Rating     int
	SearchTerm string
	Page       int
	PageSize   int
}

type ReviewsView struct {
	Reviews []Review
	Stats   *ReviewStats
	Filter  ReviewFilter
}

// Notifications

type Notification struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	Type              string     `json:"type"`
	RelatedEntityID   *uuid.UUID `json:"relatedEntityId"`
	RelatedEntityType string     `json:"relatedEntityType"`
	IsRead            bool       `json:"isRead"`
	ImageURL          string     `json:"imageUrl"`
	ActionURL         string     `json:"actionUrl"`
	CreatedAt         Time       `json:"createdAt"`
}

type NotificationPreferences struct {
	EmailEnabled bool `json:"emailEnabled" form:"emailEnabled"`
	SmsEnabled   bool `json:"smsEnabled" form:"smsEnabled"`
	PushEnabled  bool `json:"pushEnabled" form:"pushEnabled"`
}

// MerchantPreferences are the portal-level sound and do-not-disturb settings.
type MerchantPreferences struct {
	SoundEnabled              bool   `json:"soundEnabled" form:"soundEnabled"`
	DesktopNotifications      bool   `json:"desktopNotifications" form:"desktopNotifications"`
	EmailNotifications        bool   `json:"emailNotifications" form:"emailNotifications"`
	NewOrderNotifications     bool   `json:"newOrderNotifications" form:"newOrderNotifications"`
	StatusChangeNotifications bool   `json:"statusChangeNotifications" form:"statusChangeNotifications"`
	CancellationNotifications bool   `json:"cancellationNotifications" form:"cancellationNotifications"`
	DoNotDisturbEnabled       bool   `json:"doNotDisturbEnabled" form:"doNotDisturbEnabled"`
	DoNotDisturbStart         string `json:"doNotDisturbStart,omitempty" form:"doNotDisturbStart" validate:"omitempty,hhmm"`
	DoNotDisturbEnd           string `json:"doNotDisturbEnd,omitempty" form:"doNotDisturbEnd" validate:"omitempty,hhmm"`
	NotificationSound         string `json:"notificationSound" form:"notificationSound" validate:"omitempty,max=40"`
}

// Special holidays

type SpecialHoliday struct {
	ID               uuid.UUID `json:"id"`
	MerchantID       uuid.UUID `json:"merchantId"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartDate        Time      `json:"startDate"`
	EndDate          Time      `json:"endDate"`
	IsClosed         bool      `json:"isClosed"`
	SpecialOpenTime  *string   `json:"specialOpenTime"`
	SpecialCloseTime *string   `json:"specialCloseTime"`
	IsRecurring      bool      `json:"isRecurring"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        Time      `json:"createdAt"`
}

type SpecialHolidayRequest struct {
	MerchantID       *uuid.UUID `json:"merchantId,omitempty"`
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description,omitempty" validate:"max=1000"`
	StartDate        Time       `json:"startDate"`
	EndDate          Time       `json:"endDate"`
	IsClosed         bool       `json:"isClosed"`
	SpecialOpenTime  *string    `json:"specialOpenTime"`
	SpecialCloseTime *string    `json:"specialCloseTime"`
	IsRecurring      bool       `json:"isRecurring"`
	IsActive         *bool      `json:"isActive,omitempty"`
}

// HolidayForm is the create/edit form before it is turned into a request.
type HolidayForm struct {
	Title            string `form:"title" validate:"required,max=200"`
	Description      string `form:"description" validate:"max=1000"`
	StartDate        string `form:"startDate"`
	EndDate          string `form:"endDate"`
	IsClosed         bool   `form:"isClosed"`
	SpecialOpenTime  string `form:"specialOpenTime"`
	SpecialCloseTime string `form:"specialCloseTime"`
	IsRecurring      bool   `form:"isRecurring"`
}

type MerchantAvailability struct {
	IsOpen         bool            `json:"isOpen"`
	Status         string          `json:"status"`
	SpecialHoliday *SpecialHoliday `json:"specialHoliday"`
	Message        string          `json:"message"`
}

type HolidaysView struct {
	Holidays        []SpecialHoliday
	Upcoming        []SpecialHoliday
	Availability    *MerchantAvailability
	IncludeInactive bool
}

// Product reviews are moderated by the merchant before they show on the product.

type ProductReview struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"productId"`
	ProductName         string    `json:"productName"`
	UserID              uuid.UUID `json:"userId"`
	UserName            string    `json:"userName"`
	Rating              int       `json:"rating"`
	Comment             string    `json:"comment"`
	IsVerifiedPurchase  bool      `json:"isVerifiedPurchase"`
	IsApproved          bool      `json:"isApproved"`
	HelpfulCount        int       `json:"helpfulCount"`
	NotHelpfulCount     int       `json:"notHelpfulCount"`
	MerchantResponse    string    `json:"merchantResponse"`
	MerchantRespondedAt *Time     `json:"merchantRespondedAt"`
	CreatedAt           Time      `json:"createdAt"`
	UpdatedAt           *Time     `json:"updatedAt"`
}

type ProductReviewStats struct {
	AverageRating         float64 `json:"averageRating"`
	TotalReviews          int     `json:"totalReviews"`
	FiveStarCount         int     `json:"fiveStarCount"`
	FourStarCount         int     `json:"fourStarCount"`
	ThreeStarCount        int     `json:"threeStarCount"`
	TwoStarCount          int     `json:"twoStarCount"`
	OneStarCount          int     `json:"oneStarCount"`
	VerifiedPurchaseCount int     `json:"verifiedPurchaseCount"`
	PendingApprovalCount  int     `json:"pendingApprovalCount"`
}

// ProductReviewFilter narrows the moderation list. Zero Rating and nil Approved mean any.
type ProductReviewFilter struct {
	Rating   int
	Approved *bool
	Page     int
}

type ProductReviewsView struct {
	Reviews PagedResult[ProductReview]
	Stats   *ProductReviewStats
	Filter  ProductReviewFilter
}

type Courier struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ReviewDashboard sets the store's own ratings beside its couriers'.
type ReviewDashboard struct {
	MerchantStats *ReviewStats
	CourierStats  *ReviewStats
	GeneratedAt   Time
}

package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Localization

type Language struct {
	ID          uuid.UUID `json:"id"`
	Code        int       `json:"code"`
	Name        string    `json:"name"`
	NativeName  string    `json:"nativeName"`
	CultureCode string    `json:"cultureCode"`
	IsRtl       bool      `json:"isRtl"`
	IsActive    bool      `json:"isActive"`
	IsDefault   bool      `json:"isDefault"`
	SortOrder   int       `json:"sortOrder"`
	FlagIcon    string    `json:"flagIcon"`
}

type LanguageStatistics struct {
	LanguageCode         int     `json:"languageCode"`
	LanguageName         string  `json:"languageName"`
	TotalTranslations    int     `json:"totalTranslations"`
	ActiveTranslations   int     `json:"activeTranslations"`
	InactiveTranslations int     `json:"inactiveTranslations"`
	UserCount            int     `json:"userCount"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

type TranslationSearchRequest struct {
	Key      string `json:"key,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type Translation struct {
	ID           uuid.UUID `json:"id"`
	Key          string    `json:"key"`
	Value        string    `json:"value"`
	LanguageCode int       `json:"languageCode"`
	Category     string    `json:"category"`
	Context      string    `json:"context"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"isActive"`
}

type TranslationSearchResult struct {
	Translations []Translation `json:"translations"`
	TotalCount   int           `json:"totalCount"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	TotalPages   int           `json:"totalPages"`
}

type LocalizationView struct {
	Languages    []Language
	Statistics   []LanguageStatistics
	Translations *TranslationSearchResult
	SearchKey    string
	Page         int
	PageSize     int
}

// Rate limiting

type RateLimitRule struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Type            int       `json:"type"`
	Endpoint        string    `json:"endpoint"`
	HTTPMethod      string    `json:"httpMethod"`
	RequestLimit    int       `json:"requestLimit"`
	Period          int       `json:"period"`
	Action          int       `json:"action"`
	ThrottleDelayMs *int      `json:"throttleDelayMs"`
	IsActive        bool      `json:"isActive"`
	Priority        int       `json:"priority"`
	UserRole        string    `json:"userRole"`
	UserTier        string    `json:"userTier"`
}

type RateLimitSearchRequest struct {
	Endpoint   string `json:"endpoint,omitempty"`
	HTTPMethod string `json:"httpMethod,omitempty"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

type RateLimitLog struct {
	ID              uuid.UUID  `json:"id"`
	RateLimitRuleID *uuid.UUID `json:"rateLimitRuleId"`
	Endpoint        string     `json:"endpoint"`
	HTTPMethod      string     `json:"httpMethod"`
	UserID          string     `json:"userId"`
	UserName        string     `json:"userName"`
	IPAddress       string     `json:"ipAddress"`
	RequestCount    int        `json:"requestCount"`
	RequestLimit    int        `json:"requestLimit"`
	IsLimitExceeded bool       `json:"isLimitExceeded"`
	Reason          string     `json:"reason"`
	RequestTime     Time       `json:"requestTime"`
	BlockedUntil    *Time      `json:"blockedUntil"`
}

type RateLimitSearchResult struct {
	Logs       []RateLimitLog `json:"logs"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type RateLimitStatus struct {
	IsLimitExceeded   bool   `json:"isLimitExceeded"`
	Message           string `json:"message"`
	RemainingRequests int    `json:"remainingRequests"`
	RetryAfter        *Time  `json:"retryAfter"`
	RuleName          string `json:"ruleName"`
	Action            string `json:"action"`
}

type RateLimitView struct {
	Rules      []RateLimitRule
	Status     *RateLimitStatus
	Logs       *RateLimitSearchResult
	Endpoint   string
	HTTPMethod string
	Page       int
	PageSize   int
}

// Platform administration

type PlatformStats struct {
	TotalUsers                  int             `json:"totalUsers"`
	TotalMerchants              int             `json:"totalMerchants"`
	TotalCouriers               int             `json:"totalCouriers"`
	TotalOrders                 int             `json:"totalOrders"`
	PendingMerchantApplications int             `json:"pendingMerchantApplications"`
	ActiveOrders                int             `json:"activeOrders"`
	TotalRevenue                decimal.Decimal `json:"totalRevenue"`
	TodayRevenue                decimal.Decimal `json:"todayRevenue"`
	SystemUptime                int             `json:"systemUptime"`
}

type MerchantApplication struct {
	ID              uuid.UUID `json:"id"`
	BusinessName    string    `json:"businessName"`
	OwnerName       string    `json:"ownerName"`
	OwnerEmail      string    `json:"ownerEmail"`
	Status          string    `json:"status"`
	SubmittedAt     Time      `json:"submittedAt"`
	RejectionReason string    `json:"rejectionReason"`
}

type SystemMetric struct {
	MetricName string          `json:"metricName"`
	Value      decimal.Decimal `json:"value"`
	Unit       string          `json:"unit"`
	Timestamp  Time            `json:"timestamp"`
	Trend      string          `json:"trend"`
}

type AdminNotification struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt Time      `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
}

type PlatformDashboard struct {
	Stats              PlatformStats         `json:"stats"`
	RecentApplications []MerchantApplication `json:"recentApplications"`
	SystemMetrics      []SystemMetric        `json:"systemMetrics"`
}

type SystemStatistics struct {
	UserStats struct {
		TotalUsers        int `json:"totalUsers"`
		ActiveUsers       int `json:"activeUsers"`
		NewUsersThisMonth int `json:"newUsersThisMonth"`
		NewUsersToday     int `json:"newUsersToday"`
	} `json:"userStats"`
	MerchantStats struct {
		TotalMerchants      int `json:"totalMerchants"`
		ActiveMerchants     int `json:"activeMerchants"`
		PendingApplications int `json:"pendingApplications"`
		ApprovedThisMonth   int `json:"approvedThisMonth"`
	} `json:"merchantStats"`
	OrderStats struct {
		TotalOrders       int             `json:"totalOrders"`
		CompletedOrders   int             `json:"completedOrders"`
		CancelledOrders   int             `json:"cancelledOrders"`
		PendingOrders     int             `json:"pendingOrders"`
		AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	} `json:"orderStats"`
	RevenueStats struct {
		TotalRevenue   decimal.Decimal `json:"totalRevenue"`
		MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
		DailyRevenue   decimal.Decimal `json:"dailyRevenue"`
	} `json:"revenueStats"`
}

type PlatformView struct {
	Dashboard     *PlatformDashboard
	Statistics    *SystemStatistics
	Applications  PagedResult[MerchantApplication]
	Notifications []AdminNotification
}

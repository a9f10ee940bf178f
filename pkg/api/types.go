package api

import "time"

// ---- Enumerations ----
// Values mirror the backend wire format; the client never invents states.

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
)

type ReferralType string

const (
	ReferralDirect   ReferralType = "direct"
	ReferralIndirect ReferralType = "indirect"
)

type PromoRewardType string

const (
	PromoCoins           PromoRewardType = "coins"
	PromoBoost           PromoRewardType = "boost"
	PromoDiscountPercent PromoRewardType = "discount_percent"
	PromoDiscountFixed   PromoRewardType = "discount_fixed"
)

// ---- Core Models ----

type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      UserStatus `json:"status"`
	KYCStatus   KYCStatus  `json:"kycStatus"`
	CoinBalance float64    `json:"coinBalance"`

	MiningStats       UserMiningStats   `json:"miningStats"`
	ReferralStats     UserReferralStats `json:"referralStats"`
	OwnershipProgress OwnershipProgress `json:"ownershipProgress"`

	CreatedAt time.Time `json:"createdAt"`
}

type UserMiningStats struct {
	TotalMined float64 `json:"totalMined"`
	Streak     int     `json:"streak"`
	Level      int     `json:"level"`
}

type UserReferralStats struct {
	TotalCount  int     `json:"totalCount"`
	ActiveCount int     `json:"activeCount"`
	TotalEarned float64 `json:"totalEarned"`
}

type OwnershipProgress struct {
	DaysActive     int  `json:"daysActive"`
	MiningSessions int  `json:"miningSessions"`
	KYCInvited     bool `json:"kycInvited"`
}

type MiningSession struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	UserName    string        `json:"userName"`
	StartTime   time.Time     `json:"startTime"`
	Status      SessionStatus `json:"status"`
	EarnedCoins float64       `json:"earnedCoins"`
	Rate        float64       `json:"rate"`
}

type KYCRequest struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	UserName        string       `json:"userName"`
	Status          ReviewStatus `json:"status"`
	DocumentType    string       `json:"documentType"`
	DocumentNumber  string       `json:"documentNumber"`
	FrontImage      string       `json:"frontImage"`
	BackImage       string       `json:"backImage"`
	SelfieImage     string       `json:"selfieImage"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	SubmittedAt     time.Time    `json:"submittedAt"`
}

type PaymentProof struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	UserName      string       `json:"userName"`
	UTR           string       `json:"utr"`
	Amount        float64      `json:"amount"`
	UPIID         string       `json:"upiId"`
	Status        ReviewStatus `json:"status"`
	Screenshot    string       `json:"screenshot,omitempty"`
	CoinsToCredit float64      `json:"coinsToCredit"`
	SubmittedAt   time.Time    `json:"submittedAt"`
}

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"` // "credit","debit"
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	AdminID     string    `json:"adminId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsCredit reports whether the ledger entry adds coins. The backend has
// emitted both a type string and a signed amount over time; either wins.
func (t Transaction) IsCredit() bool {
	return t.Type == "credit" || t.Amount > 0
}

type ReferralEdge struct {
	ReferrerID   string       `json:"referrerId"`
	ReferrerName string       `json:"referrerName"`
	ReferredID   string       `json:"referredId"`
	ReferredName string       `json:"referredName"`
	Type         ReferralType `json:"type"`
	CoinsEarned  float64      `json:"coinsEarned"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type PromoCode struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"` // unique, uppercase
	Type           PromoRewardType `json:"type"`
	Value          float64         `json:"value"`
	MaxUses        int             `json:"maxUses"`
	UsesPerUser    int             `json:"usesPerUser"`
	UsedCount      int             `json:"usedCount"`
	ValidFrom      time.Time       `json:"validFrom"`
	ValidUntil     time.Time       `json:"validUntil"`
	IsActive       bool            `json:"isActive"`
	TargetAudience string          `json:"targetAudience"` // "all","new_users","kyc_verified"
}

// Expired is display-only; eligibility itself is computed by the backend.
func (p PromoCode) Expired(now time.Time) bool {
	return p.ValidUntil.Before(now)
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // "info","reward","warning","update"
	Target    string    `json:"target"` // "all" or a user id
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type Banner struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Link        string `json:"link"`
	Status      string `json:"status"` // "active","inactive"
	Order       int    `json:"order"`
	Views       int64  `json:"views"`
}

// SettingsBundle is the flat key/value map the backend reads and writes as one
// object: general, mining, referral, withdrawal, transfer, ownership,
// daily-checkin and payment-method keys all live side by side.
type SettingsBundle map[string]interface{}

// Float fetches a numeric setting; JSON numbers decode as float64.
func (s SettingsBundle) Float(key string, fallback float64) float64 {
	if v, ok := s[key].(float64); ok {
		return v
	}
	return fallback
}

type MiningSettings struct {
	BaseRate           float64 `json:"baseRate"`
	CycleDurationHours float64 `json:"cycleDurationHours"`
	ReferralBonusRate  float64 `json:"referralBonusRate"`
	MaxActiveSessions  int     `json:"maxActiveSessions"`
}

type PaymentSettings struct {
	UPIID         string  `json:"upiId"`
	QRImageURL    string  `json:"qrImageUrl"`
	MinAmount     float64 `json:"minAmount"`
	MaxAmount     float64 `json:"maxAmount"`
	CoinsPerRupee float64 `json:"coinsPerRupee"`
}

type ReferralSettings struct {
	DirectBonus   float64 `json:"directBonus"`
	IndirectBonus float64 `json:"indirectBonus"`
	MaxLevels     int     `json:"maxLevels"`
	RequireKYC    bool    `json:"requireKyc"`
}

// ---- Stats payloads ----

type UserStats struct {
	TotalUsers     int64   `json:"totalUsers"`
	ActiveUsers    int64   `json:"activeUsers"`
	SuspendedUsers int64   `json:"suspendedUsers"`
	PendingKYC     int64   `json:"pendingKyc"`
	TotalCoins     float64 `json:"totalCoins"`
}

type MiningStats struct {
	ActiveSessions  int64   `json:"activeSessions"`
	PausedSessions  int64   `json:"pausedSessions"`
	CompletedToday  int64   `json:"completedToday"`
	TotalMinedToday float64 `json:"totalMinedToday"`
}

type ReferralStats struct {
	TotalReferrals    int64   `json:"totalReferrals"`
	DirectReferrals   int64   `json:"directReferrals"`
	IndirectReferrals int64   `json:"indirectReferrals"`
	TotalCoinsPaid    float64 `json:"totalCoinsPaid"`
}

type NotificationStats struct {
	TotalSent int64 `json:"totalSent"`
	Unread    int64 `json:"unread"`
}

type DashboardStats struct {
	TotalUsers         int64   `json:"totalUsers"`
	ActiveMiners       int64   `json:"activeMiners"`
	PendingKYC         int64   `json:"pendingKyc"`
	PendingPayments    int64   `json:"pendingPayments"`
	CoinsInCirculation float64 `json:"coinsInCirculation"`
	NewUsersInPeriod   int64   `json:"newUsersInPeriod"`
	Period             string  `json:"period"`
}

type Health struct {
	Status      string  `json:"status"`
	DBConnected bool    `json:"dbConnected"`
	UptimeSecs  float64 `json:"uptimeSeconds"`
}

// ---- Pagination ----

// Pagination is always taken verbatim from the last successful response,
// never recomputed client-side.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// ---- List results ----

type UserList struct {
	Users      []User
	Pagination Pagination
}

type KYCList struct {
	Requests   []KYCRequest
	Pagination Pagination
}

type PaymentList struct {
	Payments   []PaymentProof
	Pagination Pagination
}

type SessionList struct {
	Sessions   []MiningSession
	Pagination Pagination
}

type ReferralList struct {
	Referrals  []ReferralEdge
	Pagination Pagination
}

type NotificationList struct {
	Notifications []Notification
	Pagination    Pagination
}

type PromoCodeList struct {
	PromoCodes []PromoCode
	Pagination Pagination
}

type TransactionList struct {
	Transactions []Transaction
	Pagination   Pagination
}

// CoinAdjustResult is returned by add-coins / deduct-coins.
type CoinAdjustResult struct {
	NewBalance  float64     `json:"newBalance"`
	Transaction Transaction `json:"transaction"`
}

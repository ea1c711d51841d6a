package domain

import (
	"errors"
	"time"
)

var (
	ErrClientNotFound         = errors.New("client not found")
	ErrPolicyNotFound         = errors.New("policy not found")
	ErrDuplicatePolicyNumber  = errors.New("policy number already exists")
	ErrInvalidPolicyDates     = errors.New("end date must not be before start date")
	ErrClientHasNoPhoneNumber = errors.New("client has no phone number")
)

// ClientStatus represents where a client is in the relationship lifecycle
type ClientStatus string

const (
	ClientStatusProspect ClientStatus = "prospect"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// PolicyStatus represents the state of an insurance policy
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusExpired   PolicyStatus = "expired"
	PolicyStatusCancelled PolicyStatus = "cancelled"
)

// Client is a customer or prospect of the brokerage
type Client struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Name          string       `json:"name" gorm:"size:100;not null"`
	Email         string       `json:"email,omitempty" gorm:"size:120"`
	Phone         string       `json:"phone,omitempty" gorm:"size:20;index"`
	WhatsApp      string       `json:"whatsapp,omitempty" gorm:"column:whatsapp;size:20;index"`
	CPFCNPJ       string       `json:"cpf_cnpj,omitempty" gorm:"column:cpf_cnpj;size:20"`
	Address       string       `json:"address,omitempty" gorm:"type:text"`
	City          string       `json:"city,omitempty" gorm:"size:100"`
	State         string       `json:"state,omitempty" gorm:"size:2"`
	ZipCode       string       `json:"zip_code,omitempty" gorm:"size:10"`
	BirthDate     *time.Time   `json:"birth_date,omitempty" gorm:"type:date"`
	InsuranceType string       `json:"insurance_type,omitempty" gorm:"size:50"` // auto, life, home, business
	Notes         string       `json:"notes,omitempty" gorm:"type:text"`
	Status        ClientStatus `json:"status" gorm:"size:20;not null;default:active;index"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Policies      []*Policy    `json:"policies,omitempty" gorm:"-"`
}

// ContactPhone returns the number to message: the WhatsApp field when set,
// otherwise the main phone.
func (c *Client) ContactPhone() string {
	if c.WhatsApp != "" {
		return c.WhatsApp
	}
	return c.Phone
}

// Policy is an insurance contract sold to a client
type Policy struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	ClientID         uint         `json:"client_id" gorm:"index;not null"`
	PolicyNumber     string       `json:"policy_number" gorm:"size:50;uniqueIndex;not null"`
	InsuranceCompany string       `json:"insurance_company" gorm:"size:100;not null"`
	InsuranceType    string       `json:"insurance_type" gorm:"size:50;not null"`
	CoverageAmount   *float64     `json:"coverage_amount,omitempty" gorm:"type:numeric(12,2)"`
	PremiumAmount    float64      `json:"premium_amount" gorm:"type:numeric(10,2);not null"`
	CommissionRate   *float64     `json:"commission_rate,omitempty" gorm:"type:numeric(5,2)"`
	StartDate        time.Time    `json:"start_date" gorm:"type:date;not null"`
	EndDate          time.Time    `json:"end_date" gorm:"type:date;not null;index"`
	Status           PolicyStatus `json:"status" gorm:"size:20;not null;default:active;index"`
	Notes            string       `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// ClientFilter narrows client listings
type ClientFilter struct {
	Search string
	Status ClientStatus
	Limit  int
	Offset int
}

// StatusCounts summarizes clients for the dashboard
type StatusCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Prospects int64 `json:"prospects"`
	Inactive  int64 `json:"inactive"`
}

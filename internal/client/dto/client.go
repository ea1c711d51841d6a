package dto

import clientdomain "corretora-backend/internal/client/domain"

// PageSize is the number of clients per listing page
const PageSize = 20

type ClientRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"omitempty,email,max=120"`
	Phone         string `json:"phone" binding:"omitempty,max=20"`
	WhatsApp      string `json:"whatsapp" binding:"omitempty,max=20"`
	CPFCNPJ       string `json:"cpf_cnpj" binding:"omitempty,max=20"`
	Address       string `json:"address"`
	City          string `json:"city" binding:"omitempty,max=100"`
	State         string `json:"state" binding:"omitempty,len=2"`
	ZipCode       string `json:"zip_code" binding:"omitempty,max=10"`
	BirthDate     string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	InsuranceType string `json:"insurance_type" binding:"omitempty,oneof=auto life home business health travel"`
	Notes         string `json:"notes"`
	Status        string `json:"status" binding:"omitempty,oneof=prospect active inactive"`
}

type PolicyRequest struct {
	PolicyNumber     string   `json:"policy_number" binding:"required,max=50"`
	InsuranceCompany string   `json:"insurance_company" binding:"required,max=100"`
	InsuranceType    string   `json:"insurance_type" binding:"required,max=50"`
	CoverageAmount   *float64 `json:"coverage_amount" binding:"omitempty,min=0"`
	PremiumAmount    float64  `json:"premium_amount" binding:"required,gt=0"`
	CommissionRate   *float64 `json:"commission_rate" binding:"omitempty,min=0,max=100"`
	StartDate        string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate          string   `json:"end_date" binding:"required,datetime=2006-01-02"`
	Status           string   `json:"status" binding:"omitempty,oneof=active expired cancelled"`
	Notes            string   `json:"notes"`
}

type SendWhatsAppRequest struct {
	Message string `json:"message" binding:"required"`
}

type ClientListResponse struct {
	Clients []*clientdomain.Client `json:"clients"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	Pages   int                    `json:"pages"`
	// Fuzzy is true when the results came from the typo-tolerant fallback
	Fuzzy bool `json:"fuzzy"`
}

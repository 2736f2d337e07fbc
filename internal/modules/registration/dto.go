package registration

import "travelhub/internal/domain"

type AgentRequest struct {
	CompanyName          string `json:"company_name" validate:"required,max=200"`
	BusinessType         string `json:"business_type" validate:"required"`
	TaxID                string `json:"tax_id" validate:"required"`
	LicenseNumber        string `json:"license_number" validate:"required"`
	Website              string `json:"website,omitempty" validate:"omitempty,url"`
	ContactName          string `json:"contact_name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone" validate:"required"`
	Address              string `json:"address" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	AcceptTerms          bool   `json:"accept_terms"`
	AcceptDataProcessing bool   `json:"accept_data_processing"`
}

type CustomerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
}

type AgentResult struct {
	User  domain.User  `json:"user"`
	Agent domain.Agent `json:"agent"`
}

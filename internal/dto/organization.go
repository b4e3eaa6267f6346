package dto

import (
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
)

// OrganizationDTO represents an organization in API responses. The contact
// email is only included for admin viewers.
type OrganizationDTO struct {
	ID           uint64                    `json:"id"`
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	ContactEmail string                    `json:"contact_email,omitempty"`
	Status       models.OrganizationStatus `json:"status"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// ToOrganizationDTO converts an organization to DTO. includeContact controls
// contact email visibility.
func ToOrganizationDTO(org models.Organization, includeContact bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		Status:      org.Status,
		CreatedAt:   org.CreatedAt,
	}
	if includeContact {
		dto.ContactEmail = org.ContactEmail
	}
	return dto
}

// ToOrganizationDTOs converts a slice of organizations
func ToOrganizationDTOs(orgs []models.Organization, includeContact bool) []OrganizationDTO {
	dtos := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = ToOrganizationDTO(org, includeContact)
	}
	return dtos
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type DonationStatus string

const (
	DonationPending  DonationStatus = "pending"
	DonationApproved DonationStatus = "approved"
	DonationRejected DonationStatus = "rejected"
)

// Donation is a manually verified money transfer. It is created in pending
// status and moves exactly once to approved or rejected; funding and point
// totals only move on approval.
type Donation struct {
	ID     uint64  `gorm:"primarykey" json:"id"`
	Amount float64 `gorm:"type:decimal(12,2);not null" json:"amount"`

	DonorID uint64 `gorm:"not null;index" json:"donor_id"`
	// OrganizationID is set when the donor attributed the donation to their
	// organization. Attribution is fixed at creation time.
	OrganizationID *uint64 `gorm:"index" json:"organization_id"`
	// EventID targets a specific event's funding goal; nil means general
	// operations.
	EventID *uint64 `gorm:"index" json:"event_id"`

	ReceiptURL  string `gorm:"type:varchar(512);not null" json:"receipt_url"`
	ReceiptPath string `gorm:"type:varchar(512);not null" json:"-"`

	Status     DonationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy *uint64        `json:"reviewed_by"`
	ReviewedAt *time.Time     `json:"reviewed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Donor        User          `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Event        *Event        `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (d *Donation) IsDecided() bool {
	return d.Status != DonationPending
}

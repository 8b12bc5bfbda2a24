package models

import "strings"

const (
	MembershipStandard = "Standard"
	MembershipGold     = "Gold"
)

// Profile of the signed in user
type Profile struct {
	Name       string
	Email      string
	AvatarURL  string
	Membership string
	Referral   ReferralOffer
}

// FirstName is the part of the name the home screen greets with
func (p Profile) FirstName() string {
	first, _, _ := strings.Cut(strings.TrimSpace(p.Name), " ")
	return first
}

// ReferralOffer pays Reward tokens for each invited friend that joins
type ReferralOffer struct {
	Denomination Denomination
	Reward       int64
	Description  string
}

// Home is what the landing screen shows
type Home struct {
	Name     string
	Balance  Balance
	Featured []Product

	// Newest first
	RecentActivity []Transaction
}

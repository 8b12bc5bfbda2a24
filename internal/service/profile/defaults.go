package profile

import (
	"fmt"

	"github.com/nkiryanov/grail/internal/models"
)

const referralReward = 50

func DefaultProfile() models.Profile {
	return models.Profile{
		Name:       "Alex Johnson",
		Email:      "alex.johnson@example.com",
		AvatarURL:  "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg",
		Membership: models.MembershipGold,
		Referral: models.ReferralOffer{
			Denomination: models.DenominationEarned,
			Reward:       referralReward,
			Description:  fmt.Sprintf("Earn %d %s for each friend that joins Grail!", referralReward, models.DenominationEarned),
		},
	}
}

// DefaultFeatured are the catalog products the home screen highlights, in display order
func DefaultFeatured() []string {
	return []string{"1", "2", "3"}
}

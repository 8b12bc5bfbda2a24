package handlers

import (
	"net/http"

	"github.com/nkiryanov/grail/internal/handlers/render"
	"github.com/nkiryanov/grail/internal/logger"
)

type referralResponse struct {
	Token       string `json:"token"`
	Reward      int64  `json:"reward"`
	Description string `json:"description"`
}

type profileResponse struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	AvatarURL  string           `json:"avatar_url"`
	Membership string           `json:"membership"`
	Balance    balanceResponse  `json:"balance"`
	Referral   referralResponse `json:"referral"`
}

type homeResponse struct {
	Name           string                `json:"name"`
	Balance        balanceResponse       `json:"balance"`
	Featured       []productResponse     `json:"featured"`
	RecentActivity []transactionResponse `json:"recent_activity"`
}

func handleProfile(profileService profileService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, balance, err := profileService.Profile(r.Context())
		if err != nil {
			l.Error("Failed to get profile", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, profileResponse{
			Name:       p.Name,
			Email:      p.Email,
			AvatarURL:  p.AvatarURL,
			Membership: p.Membership,
			Balance:    toBalanceResponse(balance),
			Referral: referralResponse{
				Token:       string(p.Referral.Denomination),
				Reward:      p.Referral.Reward,
				Description: p.Referral.Description,
			},
		})
	})
}

func handleHome(profileService profileService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		home, err := profileService.Home(r.Context())
		if err != nil {
			l.Error("Failed to build home", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := homeResponse{
			Name:           home.Name,
			Balance:        toBalanceResponse(home.Balance),
			Featured:       make([]productResponse, 0, len(home.Featured)),
			RecentActivity: make([]transactionResponse, 0, len(home.RecentActivity)),
		}
		for _, p := range home.Featured {
			res.Featured = append(res.Featured, toProductResponse(p))
		}
		for _, t := range home.RecentActivity {
			res.RecentActivity = append(res.RecentActivity, toTransactionResponse(t))
		}

		render.JSON(w, res)
	})
}

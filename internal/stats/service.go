package stats

import (
	"context"
	"fmt"

	"github.com/united17/relief-portal/pkg/db/models"
)

type donationSource interface {
	ListFiltered(ctx context.Context, f Filter) ([]models.Donation, error)
}

type missionSource interface {
	ListModels(ctx context.Context) ([]models.Mission, error)
}

type chargeSource interface {
	ListModels(ctx context.Context) ([]models.AdditionalCharge, error)
}

// Overview is the public transparency snapshot: every figure is recomputed
// from the live records on each request.
type Overview struct {
	Donations        Stats           `json:"donations"`
	Missions         MissionStats    `json:"missions"`
	ChargesTotal     float64         `json:"additional_charges_total"`
	RemainingBalance float64         `json:"remaining_balance"`
	FullyUtilized    bool            `json:"fully_utilized"`
	Display          OverviewDisplay `json:"display"`
}

// OverviewDisplay carries the headline figures pre-rendered for the summary
// cards, so every client shows the same rounding and separators.
type OverviewDisplay struct {
	TotalCollected   string `json:"total_collected"`
	TotalSpent       string `json:"total_spent"`
	RemainingBalance string `json:"remaining_balance"`
}

// Service computes overview figures across the three record types.
type Service interface {
	Overview(ctx context.Context, f Filter) (*Overview, error)
	DonationStats(ctx context.Context, f Filter) (*Stats, error)
}

type service struct {
	donations donationSource
	missions  missionSource
	charges   chargeSource
}

// NewService builds the stats service.
func NewService(donations donationSource, missions missionSource, charges chargeSource) (Service, error) {
	if donations == nil {
		return nil, fmt.Errorf("donation source required")
	}
	if missions == nil {
		return nil, fmt.Errorf("mission source required")
	}
	if charges == nil {
		return nil, fmt.Errorf("charge source required")
	}
	return &service{donations: donations, missions: missions, charges: charges}, nil
}

// Overview aggregates donations under the given filter alongside the full
// mission and charge totals. The balance deliberately ignores the donation
// filter on the spend side: spend is global, only the donation view narrows.
func (s *service) Overview(ctx context.Context, f Filter) (*Overview, error) {
	donations, err := s.donations.ListFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	missions, err := s.missions.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	charges, err := s.charges.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	donationStats := Aggregate(donations)
	missionStats := AggregateMissions(missions)
	chargesTotal := SumCharges(charges)
	balance := Balance(donationStats.TotalLKR, missionStats.TotalSpent, chargesTotal)

	return &Overview{
		Donations:        donationStats,
		Missions:         missionStats,
		ChargesTotal:     chargesTotal,
		RemainingBalance: balance,
		FullyUtilized:    balance == 0,
		Display: OverviewDisplay{
			TotalCollected:   FormatHeadline(donationStats.TotalLKR, "LKR"),
			TotalSpent:       FormatHeadline(missionStats.TotalSpent+chargesTotal, "LKR"),
			RemainingBalance: FormatHeadline(balance, "LKR"),
		},
	}, nil
}

// DonationStats aggregates donations only, for the report and list views.
func (s *service) DonationStats(ctx context.Context, f Filter) (*Stats, error) {
	donations, err := s.donations.ListFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(donations)
	return &stats, nil
}

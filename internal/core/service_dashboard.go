package core

import (
	"context"
	"time"

	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

const (
	opDashboard = "dashboard.view"

	dashboardDays = 7
)

// DayCount is the number of requests created on one UTC calendar day.
type DayCount struct {
	Date  string
	Count int
}

// Dashboard summarises the stored collections.
type Dashboard struct {
	TotalUsers           int
	ActiveUsers          int
	TotalDispensaries    int
	RequestsByStatus     map[domain.RequestStatus]int
	DispensariesByStatus map[domain.DispensaryStatus]int
	// RequestsPerDay covers the last seven days, oldest first, ending today.
	RequestsPerDay []DayCount
}

// Dashboard computes summary counts for the landing page.
func (s *Service) Dashboard(ctx context.Context, actor *domain.User) (Dashboard, error) {
	var out Dashboard
	err := s.run(ctx, opDashboard, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityDashboard, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		out = summarise(s.users.All(ctx), s.dispensaries.All(ctx), s.requests.All(ctx), s.now())
		return notify.Notification{}, nil
	})
	return out, err
}

func summarise(users []domain.User, dispensaries []domain.Dispensary, requests []domain.ServiceRequest, now time.Time) Dashboard {
	d := Dashboard{
		TotalUsers:        len(users),
		TotalDispensaries: len(dispensaries),
		RequestsByStatus: map[domain.RequestStatus]int{
			domain.RequestPending:    0,
			domain.RequestInProgress: 0,
			domain.RequestResolved:   0,
		},
		DispensariesByStatus: map[domain.DispensaryStatus]int{
			domain.DispensaryOpen:             0,
			domain.DispensaryUnderMaintenance: 0,
			domain.DispensaryClosed:           0,
		},
	}
	for _, u := range users {
		if u.Status == domain.UserActive {
			d.ActiveUsers++
		}
	}
	for _, disp := range dispensaries {
		d.DispensariesByStatus[disp.Status]++
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	index := make(map[string]int, dashboardDays)
	for i := range dashboardDays {
		day := today.AddDate(0, 0, i-dashboardDays+1).Format(time.DateOnly)
		index[day] = i
		d.RequestsPerDay = append(d.RequestsPerDay, DayCount{Date: day})
	}
	for _, r := range requests {
		d.RequestsByStatus[r.Status]++
		if i, ok := index[r.CreatedAt.UTC().Format(time.DateOnly)]; ok {
			d.RequestsPerDay[i].Count++
		}
	}
	return d
}

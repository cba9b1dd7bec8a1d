package service

import (
	"github.com/deppfellow/personal-dashboard/internal/repository"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// Services groups the business logic of every endpoint.
type Services struct {
	Expense  *ExpenseService
	Activity *ActivityService
	News     *NewsService
	Weather  *WeatherService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Expense:  NewExpenseService(s, repos.Expenses),
		Activity: NewActivityService(s),
		News:     NewNewsService(s),
		Weather:  NewWeatherService(s),
	}, nil
}

package handler

import (
	"github.com/deppfellow/personal-dashboard/internal/repository"
	"github.com/deppfellow/personal-dashboard/internal/server"
	"github.com/deppfellow/personal-dashboard/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Expense  *ExpenseHandler
	Activity *ActivityHandler
	News     *NewsHandler
	Weather  *WeatherHandler
}

func NewHandlers(s *server.Server, repos *repository.Repositories, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s, repos.Expenses),
		OpenAPI:  NewOpenAPIHandler(s),
		Expense:  NewExpenseHandler(s, services.Expense),
		Activity: NewActivityHandler(s, services.Activity),
		News:     NewNewsHandler(s, services.News),
		Weather:  NewWeatherHandler(s, services.Weather),
	}
}

package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Calendar  *CalendarHandler
	Shows     *ShowHandler
	Artists   *ArtistHandler
	Expenses  *ExpenseHandler
	Exports   *ExportHandler
	Metrics   *MetricsHandler
	Dashboard *DashboardHandler
}

// Register mounts the API routes on the group.
func (h Handlers) Register(api *gin.RouterGroup) {
	if h.Calendar != nil {
		cal := api.Group("/calendar")
		cal.GET("/month", h.Calendar.Month)
		cal.GET("/day", h.Calendar.Day)
		cal.GET("/navigate", h.Calendar.Navigate)
	}

	if h.Shows != nil {
		shows := api.Group("/shows")
		shows.GET("", h.Shows.List)
		shows.POST("", h.Shows.Create)
		shows.GET("/:id", h.Shows.Get)
		shows.PUT("/:id", h.Shows.Update)
		shows.DELETE("/:id", h.Shows.Delete)
		shows.GET("/:id/expenses", h.Shows.ListExpenses)
		shows.POST("/:id/expenses", h.Shows.CreateExpense)
	}

	if h.Artists != nil {
		artists := api.Group("/artists")
		artists.GET("", h.Artists.List)
		artists.POST("", h.Artists.Create)
		artists.GET("/:id", h.Artists.Get)
		artists.PUT("/:id", h.Artists.Update)
		artists.DELETE("/:id", h.Artists.Delete)
	}

	if h.Expenses != nil {
		expenses := api.Group("/expenses")
		expenses.GET("/summary", h.Expenses.Summary)
		expenses.GET("/finance", h.Expenses.Finance)
		expenses.POST("/fuel-estimate", h.Expenses.FuelEstimate)
		expenses.DELETE("/:id", h.Expenses.Delete)
	}

	if h.Exports != nil {
		exports := api.Group("/exports")
		exports.POST("/calendar", h.Exports.ExportMonth)
		exports.GET("/download/:token", h.Exports.Download)
	}

	if h.Dashboard != nil {
		api.GET("/dashboard", h.Dashboard.Home)
	}

	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Summary)
	}
}

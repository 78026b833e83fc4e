package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// RegisterRoutes registers all API v1 routes. Everything except registration,
// login and the health check requires a valid token; alert publication and
// report generation additionally require the civil defense role.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/system/health", h.healthCheck)

	authed := api.Group("", JWTAuthMiddleware(h.authService, h.logger))
	{
		authed.GET("/auth/me", h.me)

		addresses := authed.Group("/addresses")
		{
			addresses.POST("", h.createAddress)
			addresses.GET("", h.listAddresses)
			addresses.GET("/:id", h.getAddress)
			addresses.PUT("/:id", h.updateAddress)
			addresses.DELETE("/:id", h.deleteAddress)
			addresses.GET("/:id/risk", h.getRiskByAddress)
			addresses.POST("/:id/risk/recompute", h.recomputeRisk)
		}

		floods := authed.Group("/floods")
		{
			floods.POST("", h.createIncident(models.KindFlood))
			floods.GET("", h.listIncidents(models.KindFlood))
			floods.GET("/:id", h.getIncident(models.KindFlood))
			floods.PUT("/:id", h.updateIncident(models.KindFlood))
			floods.DELETE("/:id", h.deleteIncident(models.KindFlood))
		}

		landslides := authed.Group("/landslides")
		{
			landslides.POST("", h.createIncident(models.KindLandslide))
			landslides.GET("", h.listIncidents(models.KindLandslide))
			landslides.GET("/:id", h.getIncident(models.KindLandslide))
			landslides.PUT("/:id", h.updateIncident(models.KindLandslide))
			landslides.DELETE("/:id", h.deleteIncident(models.KindLandslide))
		}

		risks := authed.Group("/risks")
		{
			risks.GET("", h.listRisks)
			risks.GET("/:id", h.getRisk)
			risks.POST("/recompute", CivilDefenseOnly(), h.recomputeAllRisks)
			risks.DELETE("/:id", h.deleteRisk)
		}

		verifications := authed.Group("/verifications")
		{
			verifications.POST("", h.createVerification)
			verifications.GET("/mine", h.listMyVerifications)
			verifications.GET("/flood/:id", h.listVerificationsByFlood)
			verifications.GET("/flood/:id/stats", h.getFloodVerificationStats)
			verifications.GET("/landslide/:id", h.listVerificationsByLandslide)
			verifications.GET("/landslide/:id/stats", h.getLandslideVerificationStats)
			verifications.PUT("/:id", h.updateVerification)
			verifications.DELETE("/:id", h.deleteVerification)
		}

		alerts := authed.Group("/alerts")
		{
			alerts.GET("", h.listAlerts)
			alerts.GET("/:id", h.getAlert)

			civil := alerts.Group("", CivilDefenseOnly())
			{
				civil.POST("", h.publishAlert)
				civil.PUT("/:id", h.updateAlert)
				civil.POST("/:id/deactivate", h.deactivateAlert)
				civil.DELETE("/:id", h.deleteAlert)
			}
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", h.listNotifications)
			notifications.POST("/:id/read", h.markNotificationRead)
			notifications.PUT("/read-all", h.markAllNotificationsRead)
		}

		reports := authed.Group("/reports")
		{
			reports.GET("", h.listReports)
			reports.GET("/:id", h.getReport)

			civil := reports.Group("", CivilDefenseOnly())
			{
				civil.POST("", h.generateReport)
				civil.POST("/neighborhoods", h.generateNeighborhoodReports)
			}
		}
	}
}

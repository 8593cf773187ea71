package routes

import (
	"net/http"

	"github.com/aslmarket/backend/internal/app/controllers"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth            *controllers.AuthController
	User            *controllers.UserController
	Supplier        *controllers.SupplierController
	Visitor         *controllers.VisitorController
	Matching        *controllers.MatchingController
	Chat            *controllers.ChatController
	ResearchProduct *controllers.ResearchProductController
	Education       *controllers.EducationController
	Product         *controllers.ProductController
	Notification    *controllers.NotificationController
	Popup           *controllers.PopupController
	Export          *controllers.ExportController
	Report          *controllers.ReportController
	Search          *controllers.SearchController
	Support         *controllers.SupportController
	License         *controllers.LicenseController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
	}

	v1.GET("/suppliers", c.Supplier.ListApproved)
	v1.GET("/visitors", c.Visitor.ListApproved)

	research := v1.Group("/research-products")
	{
		research.GET("", c.ResearchProduct.ListActive)
		research.GET("/categories", c.ResearchProduct.Categories)
		research.GET("/:id", c.ResearchProduct.GetActive)
	}

	products := v1.Group("/products")
	{
		products.GET("", c.Product.ListPublic)
		products.GET("/:id", c.Product.GetPublic)
	}

	education := v1.Group("/education")
	{
		education.GET("", c.Education.ListPublished)
		education.GET("/:id", c.Education.View)
		education.POST("/:id/like", c.Education.Like)
	}

	popups := v1.Group("/popups")
	{
		popups.GET("/active", c.Popup.Active)
		popups.POST("/:id/show", c.Popup.TrackShow)
		popups.POST("/:id/click", c.Popup.TrackClick)
	}

	search := v1.Group("/search")
	{
		search.GET("", c.Search.Search)
		search.GET("/ws", c.Search.Live)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.ActiveAccountRequired())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/auth/me", c.Auth.Profile)

		suppliers := authenticated.Group("/suppliers")
		{
			suppliers.POST("/register", c.Supplier.Register)
			suppliers.GET("/me", c.Supplier.GetMine)
			suppliers.PUT("/me", c.Supplier.UpdateMine)
			suppliers.POST("/me/document", c.Supplier.UploadDocument)
		}

		visitors := authenticated.Group("/visitors")
		{
			visitors.POST("/register", c.Visitor.Register)
			visitors.GET("/me", c.Visitor.GetMine)
			visitors.DELETE("/me", c.Visitor.DeleteMine)
		}

		matching := authenticated.Group("/matching")
		{
			// supplier side
			matching.POST("/requests", c.Matching.Create)
			matching.GET("/requests", c.Matching.ListMine)
			matching.GET("/requests/:id", c.Matching.Get)
			matching.PUT("/requests/:id", c.Matching.Update)
			matching.POST("/requests/:id/cancel", c.Matching.Cancel)
			matching.POST("/requests/:id/extend", c.Matching.Extend)
			matching.POST("/requests/:id/complete", c.Matching.Complete)
			matching.GET("/requests/:id/responses", c.Matching.Responses)

			// visitor side
			matching.GET("/available", c.Matching.Available)
			matching.POST("/requests/:id/respond", c.Matching.Respond)

			// both parties
			matching.POST("/requests/:id/rate", c.Matching.Rate)
			matching.GET("/requests/:id/ratings", c.Matching.Ratings)
			matching.GET("/users/:id/rating", c.Matching.UserRating)

			matching.GET("/requests/:id/chat", c.Chat.GetChatForRequest)
			matching.GET("/chats", c.Chat.ListChats)
			matching.GET("/chats/:chatId/messages", c.Chat.GetMessages)
			matching.POST("/chats/:chatId/messages", c.Chat.SendMessage)
			matching.POST("/chats/:chatId/read", c.Chat.MarkRead)
			matching.GET("/chats/:chatId/ws", c.Chat.Connect)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.Feed)
			notifications.GET("/unread-count", c.Notification.UnreadCount)
			notifications.POST("/read-all", c.Notification.MarkAllRead)
			notifications.GET("/ws", c.Notification.Connect)
			notifications.GET("/:id", c.Notification.Get)
			notifications.POST("/:id/read", c.Notification.MarkRead)
			notifications.POST("/:id/click", c.Notification.TrackClick)
		}

		support := authenticated.Group("/support/tickets")
		{
			support.POST("", c.Support.Create)
			support.GET("", c.Support.ListMine)
			support.GET("/:id", c.Support.GetMine)
			support.POST("/:id/messages", c.Support.AddMessage)
			support.POST("/:id/close", c.Support.Close)
		}

		license := authenticated.Group("/license")
		{
			license.POST("/verify", c.License.Verify)
			license.GET("/status", c.License.Status)
		}

		setupAdminRoutes(authenticated, c, authMiddleware)
	}

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}

// setupAdminRoutes mounts the admin panel under /admin
func setupAdminRoutes(authenticated *gin.RouterGroup, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.AdminRequired())

	users := admin.Group("/users")
	{
		users.GET("", c.User.ListUsers)
		users.POST("/bulk-status", c.User.BulkUpdateStatus)
		users.GET("/:id", c.User.GetUser)
		users.PATCH("/:id/status", c.User.UpdateStatus)
	}

	suppliers := admin.Group("/suppliers")
	{
		suppliers.GET("", c.Supplier.AdminList)
		suppliers.POST("/bulk-status", c.Supplier.BulkUpdateStatus)
		suppliers.POST("/bulk-delete", c.Supplier.BulkDelete)
		suppliers.GET("/:id", c.Supplier.AdminGet)
		suppliers.POST("/:id/approve", c.Supplier.Approve)
		suppliers.POST("/:id/reject", c.Supplier.Reject)
		suppliers.PATCH("/:id/featured", c.Supplier.SetFeatured)
		suppliers.DELETE("/:id", c.Supplier.Delete)
	}

	visitors := admin.Group("/visitors")
	{
		visitors.GET("", c.Visitor.AdminList)
		visitors.POST("/bulk-status", c.Visitor.BulkUpdateStatus)
		visitors.POST("/bulk-delete", c.Visitor.BulkDelete)
		visitors.GET("/:id", c.Visitor.AdminGet)
		visitors.POST("/:id/approve", c.Visitor.Approve)
		visitors.POST("/:id/reject", c.Visitor.Reject)
		visitors.PATCH("/:id/featured", c.Visitor.SetFeatured)
		visitors.DELETE("/:id", c.Visitor.Delete)
	}

	matching := admin.Group("/matching")
	{
		matching.GET("/stats", c.Matching.Stats)
		matching.GET("/requests", c.Matching.AdminList)
		matching.POST("/requests/bulk-status", c.Matching.BulkUpdateStatus)
		matching.POST("/requests/bulk-delete", c.Matching.BulkDelete)
		matching.GET("/requests/:id", c.Matching.AdminGet)
		matching.PATCH("/requests/:id/status", c.Matching.AdminUpdateStatus)
		matching.DELETE("/requests/:id", c.Matching.AdminDelete)
	}

	research := admin.Group("/research-products")
	{
		research.GET("", c.ResearchProduct.List)
		research.POST("", c.ResearchProduct.Create)
		research.POST("/import", c.ResearchProduct.ImportExcel)
		research.POST("/bulk-status", c.ResearchProduct.BulkUpdateStatus)
		research.POST("/bulk-delete", c.ResearchProduct.BulkDelete)
		research.GET("/:id", c.ResearchProduct.Get)
		research.PUT("/:id", c.ResearchProduct.Update)
		research.PATCH("/:id/status", c.ResearchProduct.UpdateStatus)
		research.DELETE("/:id", c.ResearchProduct.Delete)
	}

	education := admin.Group("/education")
	{
		education.GET("", c.Education.List)
		education.POST("", c.Education.Create)
		education.POST("/bulk-status", c.Education.BulkUpdateStatus)
		education.POST("/bulk-delete", c.Education.BulkDelete)
		education.GET("/:id", c.Education.Get)
		education.PUT("/:id", c.Education.Update)
		education.POST("/:id/thumbnail", c.Education.UploadThumbnail)
		education.DELETE("/:id", c.Education.Delete)
	}

	products := admin.Group("/products")
	{
		products.GET("", c.Product.List)
		products.POST("", c.Product.Create)
		products.POST("/import", c.Product.ImportCSV)
		products.POST("/bulk-status", c.Product.BulkUpdateStatus)
		products.POST("/bulk-delete", c.Product.BulkDelete)
		products.GET("/:id", c.Product.Get)
		products.PUT("/:id", c.Product.Update)
		products.DELETE("/:id", c.Product.Delete)
	}

	notifications := admin.Group("/notifications")
	{
		notifications.GET("", c.Notification.AdminList)
		notifications.POST("", c.Notification.Create)
		notifications.GET("/stats", c.Notification.Stats)
		notifications.POST("/bulk-send", c.Notification.BulkSend)
		notifications.GET("/:id", c.Notification.AdminGet)
		notifications.PUT("/:id", c.Notification.Update)
		notifications.DELETE("/:id", c.Notification.Delete)
	}

	popups := admin.Group("/popups")
	{
		popups.GET("", c.Popup.List)
		popups.POST("", c.Popup.Create)
		popups.POST("/bulk-status", c.Popup.BulkUpdateStatus)
		popups.POST("/bulk-delete", c.Popup.BulkDelete)
		popups.GET("/:id", c.Popup.Get)
		popups.PUT("/:id", c.Popup.Update)
		popups.DELETE("/:id", c.Popup.Delete)
	}

	support := admin.Group("/support/tickets")
	{
		support.GET("", c.Support.AdminList)
		support.POST("/bulk-status", c.Support.BulkUpdateStatus)
		support.POST("/bulk-delete", c.Support.BulkDelete)
		support.GET("/:id", c.Support.AdminGet)
		support.PUT("/:id", c.Support.AdminUpdate)
		support.PATCH("/:id/status", c.Support.UpdateStatus)
		support.POST("/:id/messages", c.Support.Reply)
		support.DELETE("/:id", c.Support.Delete)
	}

	licenses := admin.Group("/licenses")
	{
		licenses.GET("", c.License.List)
		licenses.POST("/generate", c.License.Generate)
		licenses.DELETE("/:id", c.License.Revoke)
	}

	export := admin.Group("/export")
	{
		export.GET("", c.Export.Types)
		export.GET("/:type", c.Export.Export)
		export.GET("/:type/columns", c.Export.Columns)
	}

	admin.GET("/reports/summary", c.Report.Summary)
}

package handler

import "github.com/gin-gonic/gin"

// Routes bundles every handler mounted under the API prefix.
type Routes struct {
	Clubs         *ClubHandler
	Enrollments   *EnrollmentHandler
	Students      *StudentHandler
	Configuration *ConfigurationHandler
	Reports       *ReportHandler
	Auth          *AuthHandler

	// RequireAdmin guards the admin surface; EnrollmentsOpen guards public self-registration.
	RequireAdmin    gin.HandlerFunc
	EnrollmentsOpen gin.HandlerFunc
}

// Register mounts the API on group.
func (r Routes) Register(group *gin.RouterGroup) {
	group.GET("/sedes", r.Clubs.ListSedes)
	group.GET("/sedes/:slug/clubs", r.Clubs.ListClubsBySede)
	group.GET("/clubs/:id", r.Clubs.GetClub)
	group.POST("/inscripciones", r.EnrollmentsOpen, r.Enrollments.Register)
	group.POST("/inscripciones/consulta", r.Enrollments.Status)

	config := group.Group("/configuracion")
	config.GET("/inscripciones-habilitadas", r.Configuration.EnrollmentsEnabled)
	config.GET("", r.RequireAdmin, r.Configuration.List)
	config.PATCH("/inscripciones", r.RequireAdmin, r.Configuration.SetEnrollments)

	group.GET("/reportes/inscripciones", r.RequireAdmin, r.Reports.Enrollments)

	group.POST("/admin/login", r.Auth.Login)
	admin := group.Group("/admin", r.RequireAdmin)
	admin.GET("/ping", r.Auth.Ping)
	admin.POST("/clubs", r.Clubs.Create)
	admin.PUT("/clubs/:id", r.Clubs.Update)
	admin.PATCH("/clubs/:id/capacity", r.Clubs.UpdateCapacity)
	admin.DELETE("/clubs/:id", r.Clubs.Delete)
	admin.GET("/estudiantes", r.Students.List)
	admin.POST("/estudiantes/importar", r.Students.Import)
	admin.POST("/inscripciones", r.Enrollments.Assign)
	admin.PATCH("/inscripciones/:id/mover", r.Enrollments.Move)
	admin.DELETE("/inscripciones/:id", r.Enrollments.Cancel)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/controllers"
	"github.com/yigit/schoolhub/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Catalog      *controllers.CatalogController
	Class        *controllers.ClassController
	Student      *controllers.StudentController
	Teacher      *controllers.TeacherController
	User         *controllers.UserController
	Result       *controllers.ResultController
	Timetable    *controllers.TimetableController
	Announcement *controllers.AnnouncementController
	Live         *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Controllers) {
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.User.Login)
	}

	courses := v1.Group("/courses")
	{
		courses.POST("", h.Catalog.CreateCourse)
		courses.GET("", h.Catalog.GetCourses)
		courses.GET("/:id", h.Catalog.GetCourseByID)
	}

	subjects := v1.Group("/subjects")
	{
		subjects.POST("", h.Catalog.CreateSubject)
		subjects.GET("", h.Catalog.GetSubjects)
		subjects.GET("/:id", h.Catalog.GetSubjectByID)
	}

	classes := v1.Group("/classes")
	{
		classes.POST("", h.Class.CreateClass)
		classes.POST("/resolve", h.Class.ResolveClass)
		classes.GET("", h.Class.GetClasses)
		classes.DELETE("", h.Class.DeleteAllClasses)
		classes.GET("/:id", h.Class.GetClassByID)
		classes.POST("/:id/subjects", h.Class.AddClassSubjects)
		classes.GET("/:id/results", h.Result.GetClassResults)
		classes.GET("/:id/timetable", h.Timetable.GetClassTimetable)
	}

	v1.POST("/promotions", h.Class.PromoteStudents)

	students := v1.Group("/students")
	{
		students.POST("", h.Student.RegisterStudent)
		students.GET("", h.Student.GetStudents)
		students.GET("/:id", h.Student.GetStudentByID)
		students.PUT("/:id", h.Student.UpdateStudent)
		students.PUT("/:id/class", h.Student.AssignClass)
		students.GET("/:id/results", h.Result.GetStudentResults)
	}

	teachers := v1.Group("/teachers")
	{
		teachers.POST("", h.Teacher.RegisterTeacher)
		teachers.GET("", h.Teacher.GetTeachers)
		teachers.GET("/:id", h.Teacher.GetTeacherByID)
		teachers.POST("/:id/assignments", h.Teacher.AssignSubject)
		teachers.GET("/:id/assignments", h.Teacher.GetAssignments)
		teachers.GET("/:id/timetable", h.Teacher.GetTimetable)
	}

	users := v1.Group("/users")
	{
		users.POST("/bulk/students", h.User.BulkRegisterStudents)
		users.PATCH("/bulk/status", h.User.SetUsersActive)
		users.POST("/bulk/delete", h.User.DeleteUsers)
	}

	results := v1.Group("/results")
	{
		results.POST("", h.Result.UpsertResult)
		results.PATCH("/:id", h.Result.UpdateScores)
	}

	timetable := v1.Group("/timetable")
	{
		timetable.POST("", h.Timetable.CreateEntry)
		timetable.DELETE("/:id", h.Timetable.DeleteEntry)
	}

	announcements := v1.Group("/announcements")
	{
		announcements.POST("", h.Announcement.CreateAnnouncement)
		announcements.GET("", h.Announcement.GetAnnouncements)
		announcements.DELETE("/:id", h.Announcement.DeleteAnnouncement)
	}

	v1.GET("/ws/announcements", h.Live.HandleConnection)
}

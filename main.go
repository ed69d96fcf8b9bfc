package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"attendance-server-go/config"
	"attendance-server-go/handlers"
	"attendance-server-go/ledger"
	"attendance-server-go/registry"
	"attendance-server-go/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ledgerStore, err := ledger.NewStore(cfg.SheetsDir)
	if err != nil {
		log.Fatalf("Failed to initialize ledger store: %v", err)
	}

	registryStore, err := newRegistryStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize registry store: %v", err)
	}

	dateColumns := ledger.TermDates(cfg.TermStart, cfg.TermEnd, cfg.OffDay)
	reg, err := registry.New(registryStore, ledgerStore, dateColumns)
	if err != nil {
		log.Fatalf("Failed to load registry: %v", err)
	}

	// Seed demo data on a fresh install only.
	if reg.IsEmpty() {
		log.Println("Registry is empty, seeding demo data...")
		if err := reg.Seed(); err != nil {
			log.Fatalf("Failed to seed registry: %v", err)
		}
	} else {
		log.Println("Registry loaded, skipping seed")
	}

	updater := ledger.NewUpdater(ledgerStore)
	reporter := report.NewReporter(reg, ledgerStore)
	apiHandler := handlers.NewAPIHandler(reg, ledgerStore, updater, reporter)

	router := gin.Default()
	router.Use(requestID())

	// Ledger files are downloadable directly.
	router.Static("/sheets", cfg.SheetsDir)

	api := router.Group("/api")
	{
		// Faculty routes
		api.GET("/faculty/list", apiHandler.GetFacultyList)
		api.POST("/faculty/login", apiHandler.FacultyLogin)
		api.GET("/students/:semester", apiHandler.GetStudentsBySemester)

		// Attendance routes
		api.GET("/attendance/load/:facultyId/:date", apiHandler.LoadAttendance)
		api.POST("/attendance/save", apiHandler.SaveAttendance)
		api.GET("/attendance/sheet/:facultyId", apiHandler.GetSheetInfo)
		api.POST("/upload-attendance", apiHandler.UploadAttendance)

		// Report routes
		api.GET("/reports/subject", apiHandler.SubjectReport)
		api.GET("/reports/combined", apiHandler.CombinedReport)

		// Admin routes
		api.POST("/admin/login", apiHandler.AdminLogin)
		api.POST("/admin/subjects", apiHandler.AddSubject)
		api.DELETE("/admin/subjects", apiHandler.DeleteSubject)
		api.POST("/admin/assignments", apiHandler.AddAssignment)
		api.DELETE("/admin/assignments/:facultyId", apiHandler.RemoveAssignment)
		api.POST("/admin/students", apiHandler.AddStudents)

		api.GET("/ping", handlers.PingHandler)
	}

	addr := ":" + cfg.Port
	log.Printf("Starting attendance server on %s (sheets: %s, registry: %s)", addr, cfg.SheetsDir, cfg.RegistryBackend)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// newRegistryStore picks the persistence backend from configuration.
func newRegistryStore(cfg config.Config) (registry.Store, error) {
	if cfg.RegistryBackend == "redis" {
		client, err := registry.InitializeRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return registry.NewRedisStore(client), nil
	}
	return registry.NewFileStore(cfg.RegistryFile), nil
}

// requestID tags every request so log lines can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("reqid", id)
		c.Next()
	}
}

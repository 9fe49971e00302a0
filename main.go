package main

import (
	"net/http"
	"os"

	"docuflow/account"
	"docuflow/activity"
	"docuflow/bizerror"
	"docuflow/client/s3"
	"docuflow/domain"
	"docuflow/infra/tracing"
	"docuflow/notification"
	"docuflow/persistence"
	"docuflow/servehttp"
	"docuflow/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Info("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&account.User{},
		&domain.WorkflowTemplate{},
		&domain.WorkflowInstance{},
		&domain.StepRecord{},
		&domain.Document{},
		&notification.Notification{},
		&activity.ActivityRecord{},
	).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v", err)
	}

	if err := account.EnsureAdminUser(); err != nil {
		logrus.Fatalf("failed to ensure admin user %v", err)
	}
	account.Bootstrap()
	s3.Bootstrap()

	tracingCloser, err := tracing.Bootstrap("docuflow")
	if err != nil {
		logrus.Fatalf("failed to bootstrap tracing %v", err)
	}
	defer tracingCloser.Close()

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "docuflow")
	})

	session.RegisterSessionsHandler(engine)
	servehttp.RegisterWorkflowTemplateHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterWorkflowInstanceHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterDocumentHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterNotificationHandler(engine, session.SimpleAuthFilter())
	servehttp.RegisterActivityHandler(engine, session.SimpleAuthFilter())

	err = engine.Run(":80")
	if err != nil {
		panic(err)
	}
}

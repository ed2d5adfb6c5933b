package main

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chetan123445/VK-WebPortal-sub002/config"
	"github.com/chetan123445/VK-WebPortal-sub002/controllers"
	"github.com/chetan123445/VK-WebPortal-sub002/db/mysqldb"
	"github.com/chetan123445/VK-WebPortal-sub002/routes"
	"github.com/chetan123445/VK-WebPortal-sub002/services"
)

func main() {
	database, err := mysqldb.GetDatabase()
	if err != nil {
		log.Fatal("Received err when attempting to connect to DB", err)
	}
	defer database.Close()

	if err := configureFirebaseCredentials(); err != nil {
		log.Fatal("an error occurred while configuring firebase credentials", err)
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase: %v\n", err)
	}
	authClient, err := app.Auth(context.Background())
	if err != nil {
		log.Fatal("error initializing auth client", err)
	}

	gin.SetMode(config.GinMode())
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  config.FEOrigins(),
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        config.CORSMaxAge(),
	}))

	uploadsBucket, err := services.NewStorageBucket(context.Background(), app, config.StorageBucket())
	if err != nil {
		log.Fatal("An error occurred while connecting to the uploads bucket", err)
	}

	notificationController := controllers.NewNotificationController(database)
	discussionController := controllers.NewDiscussionController(database, notificationController, uploadsBucket)
	reportController := controllers.NewReportController(database)

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddThreadRoutes(&r.RouterGroup, database, discussionController, authClient)
	routes.AddNotificationRoutes(&r.RouterGroup, database, notificationController, authClient)
	routes.AddReportRoutes(&r.RouterGroup, database, reportController, authClient)
	routes.AddUserRoutes(&r.RouterGroup, database, authClient)

	if err := r.Run(":" + config.Port()); err != nil {
		log.Fatal("Error when attempting to run web server", err)
	}
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials() error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		log.Printf("Credentials path detected in env. Expecting credentails to be at %v\n", credentialsPath)
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		log.Println("Credentials JSON string detected in env.")
		err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 400)
		if err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		err = os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile)
		if err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}

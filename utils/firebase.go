// utils/firebase.go
package utils

import (
	"context"
	"log"

	"wsid/config"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// AuthClient verifies identity-provider ID tokens (Google/Apple sign-in).
var AuthClient *fbauth.Client

// FirebaseInit initializes the Firebase App and Auth client.
func FirebaseInit() {
	ctx := context.Background()
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}

	AuthClient = client
}

// GetAuthClient returns the Firebase Auth client, or nil before FirebaseInit.
func GetAuthClient() *fbauth.Client {
	return AuthClient
}

// internal/infra/firebase/client.go
package firebaseinfra

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NewAuthClient initializes the Firebase Auth client used to verify
// storefront ID tokens. An empty credentialsFile falls back to ADC.
func NewAuthClient(ctx context.Context, projectID string, credentialsFile string) (*fbauth.Client, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var (
		app *firebase.App
		err error
	)
	if credentialsFile != "" {
		app, err = firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	} else {
		app, err = firebase.NewApp(ctx, conf)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}

	log.Printf("[firebase] auth client ready (project: %s)", projectID)
	return client, nil
}

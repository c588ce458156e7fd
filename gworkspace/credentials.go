// Package gworkspace talks to Google Sheets and Google Drive with a service
// account.
package gworkspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Scopes requested for the service account
var Scopes = []string{sheets.SpreadsheetsScope, drive.DriveScope}

// LoadCredentials reads a service account key from inline JSON or, when
// that is empty, from a file
func LoadCredentials(ctx context.Context, inlineJSON, file string) (*google.Credentials, error) {
	data := []byte(inlineJSON)
	if len(data) == 0 {
		if file == "" {
			return nil, errors.New("no google credentials configured")
		}
		var err error
		data, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}
	return creds, nil
}

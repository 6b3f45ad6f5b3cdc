package gsuite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
)

// scopes covers every surface the app touches: the tabular store, the
// blob store (photos + plan PDFs) and the competitions calendar.
var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/calendar",
}

type serviceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// credentialsJSON resolves the service account key: the full JSON env
// blob first, then the split env vars, then credentials.json next to the
// binary. Private keys pasted into env vars usually carry literal "\n".
func credentialsJSON(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleServiceAccountJSON != "" {
		raw := strings.ReplaceAll(cfg.GoogleServiceAccountJSON, `\n`, "\n")
		return []byte(raw), nil
	}

	if cfg.GoogleServiceAccountEmail != "" && cfg.GoogleServiceAccountPrivateKey != "" {
		account := serviceAccount{
			Type:         "service_account",
			ProjectID:    cfg.GoogleServiceAccountProjectID,
			PrivateKeyID: cfg.GoogleServiceAccountPrivateKeyID,
			PrivateKey:   strings.ReplaceAll(cfg.GoogleServiceAccountPrivateKey, `\n`, "\n"),
			ClientEmail:  cfg.GoogleServiceAccountEmail,
			ClientID:     cfg.GoogleServiceAccountClientID,
			TokenURI:     "https://oauth2.googleapis.com/token",
		}
		return json.Marshal(account)
	}

	if data, err := os.ReadFile("credentials.json"); err == nil {
		return data, nil
	}

	return nil, errors.New("google service account credentials are missing")
}

// httpClient builds the authenticated HTTP client shared by the sheets,
// drive and calendar services.
func httpClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	data, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}
	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return conf.Client(ctx), nil
}

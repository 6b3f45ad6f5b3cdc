package config

import (
	"os"
	"strconv"
	"strings"
)

// DevSessionSecret is used outside production when SESSION_SECRET is unset.
const DevSessionSecret = "dev-only-session-secret-change-me"

type Config struct {
	Port           string
	Environment    string // ENV: production, development, etc.
	AppBaseURL     string // public base URL used in password reset links
	AllowedOrigins []string

	SessionSecret           string
	SessionTTLHours         int
	PasswordResetTTLMinutes int
	AllowPlaintextPasswords bool
	AdminMigrationToken     string
	MaxUploadMB             int

	RedisURI string // optional; in-memory cache is used when empty

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Google service account credentials: either the full JSON blob or the
	// split fields. credentials.json in the working directory is the last
	// fallback, handled by the gsuite package.
	GoogleServiceAccountJSON         string
	GoogleServiceAccountEmail        string
	GoogleServiceAccountPrivateKey   string
	GoogleServiceAccountProjectID    string
	GoogleServiceAccountClientID     string
	GoogleServiceAccountPrivateKeyID string

	UsersSheetName             string
	QuestionsSheetName         string
	RevisionSheetName          string
	RevisionWorksheetName      string
	RoutineSheetName           string
	RoutineWorksheetName       string
	ExercisesSheetName         string
	AchievementsSpreadsheetID  string
	AchievementsSheetName      string
	AchievementsMarksWorksheet string
	AchievementsGoalsWorksheet string
	DriveRootFolderID          string
	NutritionPlansRootFolderID string
	CompetitionsCalendarID     string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" && env != "production" {
		secret = DevSessionSecret
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		AppBaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: allowedOrigins,

		SessionSecret:           secret,
		SessionTTLHours:         getEnvInt("SESSION_TTL_HOURS", 24),
		PasswordResetTTLMinutes: getEnvInt("PASSWORD_RESET_TTL_MINUTES", 30),
		AllowPlaintextPasswords: getEnv("ALLOW_PLAINTEXT_PASSWORDS", "false") == "true",
		AdminMigrationToken:     getEnv("ADMIN_MIGRATION_TOKEN", ""),
		MaxUploadMB:             getEnvInt("MAX_UPLOAD_MB", 8),

		RedisURI: getEnv("REDIS_URI", ""),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),

		GoogleServiceAccountJSON:         getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountEmail:        getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		GoogleServiceAccountPrivateKey:   getEnv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY", ""),
		GoogleServiceAccountProjectID:    getEnv("GOOGLE_SERVICE_ACCOUNT_PROJECT_ID", ""),
		GoogleServiceAccountClientID:     getEnv("GOOGLE_SERVICE_ACCOUNT_CLIENT_ID", ""),
		GoogleServiceAccountPrivateKeyID: getEnv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY_ID", ""),

		UsersSheetName:             getEnv("GOOGLE_USERS_SHEET_NAME", "Users"),
		QuestionsSheetName:         getEnv("GOOGLE_QUESTIONS_SHEET_NAME", "Preguntas"),
		RevisionSheetName:          getEnv("GOOGLE_REVISION_SHEET_NAME", "Revisiones"),
		RevisionWorksheetName:      getEnv("GOOGLE_REVISION_WORKSHEET_NAME", "Revision"),
		RoutineSheetName:           getEnv("GOOGLE_ROUTINE_SHEET_NAME", "Rutinas"),
		RoutineWorksheetName:       getEnv("GOOGLE_ROUTINE_WORKSHEET_NAME", "Registro"),
		ExercisesSheetName:         getEnv("GOOGLE_EXERCISES_SHEET_NAME", "Ejercicios"),
		AchievementsSpreadsheetID:  getEnv("GOOGLE_ACHIEVEMENTS_SPREADSHEET_ID", ""),
		AchievementsSheetName:      getEnv("GOOGLE_ACHIEVEMENTS_SHEET_NAME", "Marcas y objetivos"),
		AchievementsMarksWorksheet: getEnv("GOOGLE_ACHIEVEMENTS_MARKS_WORKSHEET_NAME", "Marcas"),
		AchievementsGoalsWorksheet: getEnv("GOOGLE_ACHIEVEMENTS_GOALS_WORKSHEET_NAME", "Objetivos"),
		DriveRootFolderID:          getEnv("GOOGLE_DRIVE_ROOT_FOLDER_ID", ""),
		NutritionPlansRootFolderID: getEnv("GOOGLE_NUTRITION_PLANS_ROOT_FOLDER_ID", ""),
		CompetitionsCalendarID:     getEnv("GOOGLE_COMPETITIONS_CALENDAR_ID", ""),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return n
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

// UserService reads the users sheet. The sheet is hand-maintained by the
// coach, so column positions are discovered from the header row rather
// than assumed, and header matching tolerates accents and synonyms
// ("contraseñas", "Usuario", "Telegram", ...).
type UserService struct {
	client *gsuite.Client
	cfg    *config.Config
}

func NewUserService(client *gsuite.Client, cfg *config.Config) *UserService {
	return &UserService{client: client, cfg: cfg}
}

var headerReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
)

func normalizeHeader(value string) string {
	return headerReplacer.Replace(strings.TrimSpace(strings.ToLower(value)))
}

func headerIndex(headers []string, candidates ...string) int {
	for i, h := range headers {
		for _, candidate := range candidates {
			if h == candidate {
				return i
			}
		}
	}
	return -1
}

// ReadUsers returns every user row tagged with its sheet position.
func (s *UserService) ReadUsers(ctx context.Context) ([]models.AppUser, error) {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.cfg.UsersSheetName)
	if err != nil {
		return nil, err
	}
	worksheet, err := s.client.FirstWorksheetTitle(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	values, err := s.client.Values(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1:Z", worksheet), nil)
	if err != nil {
		return nil, err
	}
	return parseUserRows(values)
}

func parseUserRows(values [][]string) ([]models.AppUser, error) {
	if len(values) == 0 {
		return nil, nil
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = normalizeHeader(h)
	}

	usernameCol := headerIndex(headers, "usuario", "username", "telegram", "user")
	passwordCol := headerIndex(headers, "contrasenas", "contrasena", "password")
	nameCol := headerIndex(headers, "nombre", "name")
	emailCol := headerIndex(headers, "email", "correo") // optional

	if usernameCol == -1 || passwordCol == -1 || nameCol == -1 {
		return nil, fmt.Errorf(`users sheet must include "Nombre", "Usuario" and "contraseñas" columns`)
	}

	var users []models.AppUser
	for i, row := range values[1:] {
		username := strings.TrimSpace(gsuite.Cell(row, usernameCol))
		if username == "" {
			continue
		}
		email := ""
		if emailCol != -1 {
			email = strings.TrimSpace(gsuite.Cell(row, emailCol))
		}
		users = append(users, models.AppUser{
			RowNumber:      i + 2, // 1-based, after the header row
			Name:           strings.TrimSpace(gsuite.Cell(row, nameCol)),
			Username:       username,
			Password:       strings.TrimSpace(gsuite.Cell(row, passwordCol)),
			Email:          email,
			PasswordColumn: passwordCol,
		})
	}
	return users, nil
}

// FindByUsername matches case- and @-prefix-insensitively.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.AppUser, error) {
	users, err := s.ReadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if utils.SameUsername(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, nil
}

// UpdatePasswordCell rewrites the single password cell identified by the
// user's stored row position and column.
func (s *UserService) UpdatePasswordCell(ctx context.Context, user *models.AppUser, newPasswordHash string) error {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.cfg.UsersSheetName)
	if err != nil {
		return err
	}
	worksheet, err := s.client.FirstWorksheetTitle(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	col := gsuite.IndexToA1Column(user.PasswordColumn)
	rangeA1 := fmt.Sprintf("'%s'!%s%d", worksheet, col, user.RowNumber)
	return s.client.UpdateRange(ctx, spreadsheetID, rangeA1, "RAW", [][]interface{}{{newPasswordHash}})
}

// Package sheets зеркалирует сохраненные заказы в Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"orderbot/internal/export"
	"orderbot/internal/models"
)

// ErrSpreadsheetNotFound - таблица с таким именем не найдена или не доступна сервисному аккаунту.
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Resolver находит ID таблицы по имени.
type Resolver interface {
	ResolveSpreadsheetID(ctx context.Context, name string) (string, error)
}

// Appender добавляет строки в конец первого листа.
type Appender interface {
	AppendRows(ctx context.Context, spreadsheetID string, rows [][]interface{}) error
}

// Mirror appends one row per persisted order to a spreadsheet.
type Mirror struct {
	resolver Resolver
	appender Appender
	name     string
	logger   *zap.Logger

	mu            sync.Mutex
	spreadsheetID string
}

// NewMirror создает зеркало. Если spreadsheetID пуст, он ищется по name через resolver.
func NewMirror(resolver Resolver, appender Appender, spreadsheetID, name string, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		resolver:      resolver,
		appender:      appender,
		name:          name,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// Name implements commit.Mirror.
func (m *Mirror) Name() string { return "google_sheets" }

// MirrorOrder добавляет строку заказа в таблицу.
func (m *Mirror) MirrorOrder(ctx context.Context, acct models.Account, order models.PersistedOrder) error {
	id, err := m.resolve(ctx)
	if err != nil {
		return err
	}

	row := export.AccountOrderRow(acct, order)
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := m.appender.AppendRows(ctx, id, [][]interface{}{values}); err != nil {
		return fmt.Errorf("append order %d: %w", order.ID, err)
	}
	m.logger.Info("Заказ добавлен в Google Sheets", zap.Int64("order_id", order.ID))
	return nil
}

// resolve кэширует ID таблицы после первого удачного поиска.
func (m *Mirror) resolve(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spreadsheetID != "" {
		return m.spreadsheetID, nil
	}
	if m.name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrSpreadsheetNotFound)
	}
	id, err := m.resolver.ResolveSpreadsheetID(ctx, m.name)
	if err != nil {
		return "", err
	}
	m.spreadsheetID = id
	return id, nil
}

// GoogleClient is the Drive + Sheets backed Resolver and Appender.
type GoogleClient struct {
	drive  *drive.Service
	sheets *sheets.Service
}

// NewGoogleClient создает клиентов Drive и Sheets по JSON-ключу сервисного аккаунта.
func NewGoogleClient(ctx context.Context, credentialsPath string) (*GoogleClient, error) {
	creds := option.WithCredentialsFile(credentialsPath)
	scopes := option.WithScopes(sheets.SpreadsheetsScope, drive.DriveReadonlyScope)

	driveService, err := drive.NewService(ctx, creds, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	sheetsService, err := sheets.NewService(ctx, creds, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleClient{drive: driveService, sheets: sheetsService}, nil
}

// ResolveSpreadsheetID ищет таблицу по точному имени.
func (g *GoogleClient) ResolveSpreadsheetID(ctx context.Context, name string) (string, error) {
	r, err := g.drive.Files.List().
		Q(spreadsheetQuery(name)).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to list files: %w", err)
	}
	if len(r.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, name)
	}
	return r.Files[0].Id, nil
}

// AppendRows appends after the last filled row of the first sheet.
func (g *GoogleClient) AppendRows(ctx context.Context, spreadsheetID string, rows [][]interface{}) error {
	_, err := g.sheets.Spreadsheets.Values.
		Append(spreadsheetID, "A1", &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func spreadsheetQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escaped, spreadsheetMimeType)
}

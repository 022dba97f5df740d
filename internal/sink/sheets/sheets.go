// Package sheets writes the mention table into a Google Sheet, replacing the
// previous contents on every run.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"mention_tracker/internal/domain"
)

// header names the destination columns, in order.
var header = []interface{}{"source", "title", "link", "date", "summary"}

// Config holds Google Sheets sink configuration.
type Config struct {
	// SpreadsheetID points at an existing spreadsheet. When empty, a new
	// spreadsheet named SpreadsheetName is created and shared.
	SpreadsheetID   string
	SpreadsheetName string
	SheetName       string
	CredentialsFile string
}

type Writer struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// New authenticates with a service account and resolves the destination
// spreadsheet, provisioning one when no ID is configured.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Writer, error) {
	opts, err := credentialOptions(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID, err = provision(ctx, cfg, opts, svc, logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("connected to spreadsheet",
		"spreadsheet_id", spreadsheetID,
		"sheet", cfg.SheetName,
	)

	return &Writer{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}, nil
}

// credentialOptions resolves the service account credential. CI injects the
// JSON through the environment; local runs read it from a file.
func credentialOptions(credentialsFile string) ([]option.ClientOption, error) {
	scopes := option.WithScopes(sheetsapi.SpreadsheetsScope, drive.DriveScope)

	if raw := os.Getenv("SERVICE_ACCOUNT_JSON"); raw != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(raw)), scopes}, nil
	}

	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("service account credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile), scopes}, nil
}

// provision opens the spreadsheet named SpreadsheetName, creating and sharing
// it first when no such spreadsheet exists yet. Reusing the existing one keeps
// repeated runs writing to the same destination.
func provision(ctx context.Context, cfg Config, opts []option.ClientOption, svc *sheetsapi.Service, logger *slog.Logger) (string, error) {
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create drive client: %w", err)
	}

	id, err := findSpreadsheet(ctx, driveSvc, cfg.SpreadsheetName)
	if err != nil {
		return "", err
	}
	if id != "" {
		logger.Info("found existing spreadsheet",
			"spreadsheet_id", id,
			"title", cfg.SpreadsheetName,
		)
		return id, nil
	}

	ss, err := svc.Spreadsheets.Create(&sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: cfg.SpreadsheetName},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}

	// Anyone with the link can write, matching how the destination sheet has
	// historically been shared.
	_, err = driveSvc.Permissions.Create(ss.SpreadsheetId, &drive.Permission{
		Type: "anyone",
		Role: "writer",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("share spreadsheet: %w", err)
	}

	logger.Info("created spreadsheet",
		"spreadsheet_id", ss.SpreadsheetId,
		"title", cfg.SpreadsheetName,
	)

	return ss.SpreadsheetId, nil
}

// findSpreadsheet looks the named spreadsheet up in Drive, returning an empty
// ID when none exists.
func findSpreadsheet(ctx context.Context, driveSvc *drive.Service, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`),
	)

	list, err := driveSvc.Files.List().
		Q(query).
		PageSize(1).
		Fields("files(id)").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("look up spreadsheet: %w", err)
	}

	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// Replace clears the sheet and writes the header row plus one row per
// mention, preserving the given order.
func (w *Writer) Replace(ctx context.Context, mentions []domain.Mention) error {
	_, err := w.svc.Spreadsheets.Values.
		Clear(w.spreadsheetID, w.sheetName, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	vr := &sheetsapi.ValueRange{Values: rowsFor(mentions)}
	_, err = w.svc.Spreadsheets.Values.
		Update(w.spreadsheetID, w.sheetName+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}

	w.logger.Info("replaced sheet contents", "rows", len(mentions))
	return nil
}

func rowsFor(mentions []domain.Mention) [][]interface{} {
	rows := make([][]interface{}, 0, len(mentions)+1)
	rows = append(rows, header)
	for _, m := range mentions {
		rows = append(rows, []interface{}{
			m.Source,
			m.Title,
			m.Link,
			formatDate(m.PublishedAt),
			m.Summary,
		})
	}
	return rows
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

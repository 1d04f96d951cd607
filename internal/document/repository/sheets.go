package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swetasamaddar-clear/document-finder/internal/config"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	googleAuthURI  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURI = "https://oauth2.googleapis.com/token"
	googleCertsURL = "https://www.googleapis.com/oauth2/v1/certs"
)

// SheetsRepo appends to and reads from one tab of a Google spreadsheet.
// Row 1 of the tab is expected to hold the column headers.
type SheetsRepo struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	sheetName     string
}

// NewSheetsRepo authenticates with the configured service account. Extra options
// are appended after the credentials (tests pass an endpoint and HTTP client).
func NewSheetsRepo(ctx context.Context, cfg config.SheetsConfig, opts ...option.ClientOption) (*SheetsRepo, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id missing")
	}
	creds, err := ServiceAccountJSON(cfg.Credentials)
	if err != nil {
		return nil, err
	}
	all := append([]option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	}, opts...)
	srv, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("sheets new service: %w", err)
	}
	return NewSheetsRepoFromService(srv, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewSheetsRepoFromService wraps an already constructed Sheets client.
func NewSheetsRepoFromService(srv *sheets.Service, spreadsheetID, sheetName string) *SheetsRepo {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &SheetsRepo{values: srv.Spreadsheets.Values, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func (s *SheetsRepo) AppendRow(ctx context.Context, row []string) error {
	err := s.appendRow(ctx, row)
	metrics.ObserveStore(BackendSheets, OpAppend, err)
	return err
}

func (s *SheetsRepo) appendRow(ctx context.Context, row []string) error {
	if err := validateRow(row); err != nil {
		return err
	}
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err := s.values.Append(s.spreadsheetID, s.sheetName+"!A:D", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	return nil
}

func (s *SheetsRepo) ReadRows(ctx context.Context) ([][]string, error) {
	rows, err := s.readRows(ctx)
	metrics.ObserveStore(BackendSheets, OpRead, err)
	return rows, err
}

func (s *SheetsRepo) readRows(ctx context.Context) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get: %w", err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, len(r))
		for i, cell := range r {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

type serviceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// ServiceAccountJSON renders the credential fields as a service-account key file.
func ServiceAccountJSON(sa config.ServiceAccount) ([]byte, error) {
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("sheets: service account client email and private key are required")
	}
	return json.Marshal(serviceAccountKey{
		Type:                    "service_account",
		ProjectID:               sa.ProjectID,
		PrivateKeyID:            sa.PrivateKeyID,
		PrivateKey:              sa.PrivateKey,
		ClientEmail:             sa.ClientEmail,
		ClientID:                sa.ClientID,
		AuthURI:                 googleAuthURI,
		TokenURI:                googleTokenURI,
		AuthProviderX509CertURL: googleCertsURL,
		ClientX509CertURL:       sa.ClientCertURL,
	})
}

package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/noah-isme/student-agreement-api/pkg/config"
)

const (
	headerRange = "Sheet1!A1:J1"
	appendRange = "Sheet1!A:J"
)

var headers = []interface{}{
	"Student ID",
	"Full Name",
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Course",
	"Date",
	"Signed",
	"Timestamp",
}

// Appender writes one audit row per approved agreement to a Google Sheet.
// Missing credentials leave the appender disabled: Append logs a warning
// and returns nil.
type Appender struct {
	svc     *sheetsapi.Service
	sheetID string
	logger  *zap.Logger
}

// NewAppender builds a sheet client from service-account credentials.
// Incomplete configuration yields a disabled appender, not an error.
func NewAppender(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Appender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ServiceAccountEmail == "" || cfg.PrivateKey == "" || cfg.SheetID == "" {
		logger.Warn("sheets credentials missing, ledger appends will be skipped")
		return &Appender{logger: logger}, nil
	}

	jwtConfig := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Appender{svc: svc, sheetID: cfg.SheetID, logger: logger}, nil
}

// Enabled reports whether a sheet client is configured.
func (a *Appender) Enabled() bool {
	return a != nil && a.svc != nil
}

// Append writes one row for the given form data, bootstrapping the header
// row when the sheet is empty.
func (a *Appender) Append(ctx context.Context, form map[string]string) error {
	if !a.Enabled() {
		a.logger.Warn("ledger append skipped: sheets not configured")
		return nil
	}

	if err := a.ensureHeaders(ctx); err != nil {
		return err
	}

	firstName, lastName := splitName(form["fullName"])
	phone := form["phone"]
	if phone != "" {
		phone = "+1 " + phone
	}

	row := []interface{}{
		form["studentId"],
		form["fullName"],
		firstName,
		lastName,
		form["email"],
		phone,
		form["course"],
		form["date"],
		"Yes",
		time.Now().UTC().Format(time.RFC3339),
	}

	_, err := a.svc.Spreadsheets.Values.Append(a.sheetID, appendRange, &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

// ensureHeaders writes the header row when row 1 is empty or unreadable.
func (a *Appender) ensureHeaders(ctx context.Context) error {
	resp, err := a.svc.Spreadsheets.Values.Get(a.sheetID, headerRange).Context(ctx).Do()
	if err == nil && len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	_, err = a.svc.Spreadsheets.Values.Update(a.sheetID, headerRange, &sheetsapi.ValueRange{
		Values: [][]interface{}{headers},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write ledger headers: %w", err)
	}
	return nil
}

func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleCredentials identifies the service account used to reach the
// spreadsheet. When either field is empty application default credentials
// are used instead.
type GoogleCredentials struct {
	ClientEmail string
	PrivateKey  string
}

// GoogleStore reads and appends through the Google Sheets v4 API.
type GoogleStore struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewGoogleStore builds a Sheets client for the given spreadsheet.
func NewGoogleStore(ctx context.Context, spreadsheetID string, creds GoogleCredentials) (*GoogleStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	var opts []option.ClientOption
	if creds.ClientEmail != "" && creds.PrivateKey != "" {
		conf := &oauthjwt.Config{
			Email:      creds.ClientEmail,
			PrivateKey: []byte(creds.PrivateKey),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		opts = append(opts, option.WithTokenSource(conf.TokenSource(ctx)))
	} else {
		opts = append(opts, option.WithScopes(gsheets.SpreadsheetsScope))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadRange returns the values of a single A1 range.
func (g *GoogleStore) ReadRange(ctx context.Context, rangeName string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, storeErr("get", rangeName, err)
	}
	return stringGrid(resp.Values), nil
}

// BatchReadRanges returns one grid per requested range, in request order.
func (g *GoogleStore) BatchReadRanges(ctx context.Context, rangeNames []string) ([][][]string, error) {
	joined := strings.Join(rangeNames, ",")
	resp, err := g.svc.Spreadsheets.Values.BatchGet(g.spreadsheetID).Ranges(rangeNames...).Context(ctx).Do()
	if err != nil {
		return nil, storeErr("batchGet", joined, err)
	}

	out := make([][][]string, len(rangeNames))
	for i := range rangeNames {
		if i < len(resp.ValueRanges) && resp.ValueRanges[i] != nil {
			out[i] = stringGrid(resp.ValueRanges[i].Values)
		}
	}
	return out, nil
}

// AppendRow appends one row after the last row of the range's table. Values
// are entered as if typed by a user so dates and numbers are parsed.
func (g *GoogleStore) AppendRow(ctx context.Context, rangeName string, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &gsheets.ValueRange{Values: [][]interface{}{cells}}

	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rangeName, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return storeErr("append", rangeName, err)
}

func stringGrid(values [][]interface{}) [][]string {
	if len(values) == 0 {
		return nil
	}
	grid := make([][]string, len(values))
	for r, row := range values {
		cells := make([]string, len(row))
		for c, v := range row {
			if v == nil {
				continue
			}
			cells[c] = fmt.Sprint(v)
		}
		grid[r] = cells
	}
	return grid
}

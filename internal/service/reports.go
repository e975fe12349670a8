package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/report"
	"github.com/BinaryNexusLab/real-estate/internal/utils"
	"github.com/BinaryNexusLab/real-estate/internal/utils/email"
)

// DefaultShareTTL is how long a share link works when no expiry is asked for.
const DefaultShareTTL = 7 * 24 * time.Hour

// MaxShareTTL bounds share link lifetimes.
const MaxShareTTL = 90 * 24 * time.Hour

// SharedReport identifies the analysis a share link opens.
type SharedReport struct {
	ClientID   string    `json:"client_id"`
	PropertyID string    `json:"property_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RenderReport writes a client's analysis of a listing in format f and
// returns the download filename.
func (s *Service) RenderReport(ctx context.Context, clientID, propertyID string, f report.Format, w io.Writer) (string, error) {
	d, err := s.reportData(ctx, clientID, propertyID)
	if err != nil {
		return "", err
	}
	if err := report.Render(w, f, d); err != nil {
		return "", fmt.Errorf("failed to render %s report: %w", f, err)
	}
	return report.Filename(d, f), nil
}

// EmailReport mails the HTML report to the client with the CSV attached.
func (s *Service) EmailReport(ctx context.Context, clientID, propertyID string) error {
	if s.mailer == nil {
		return fmt.Errorf("report email is not configured")
	}
	d, err := s.reportData(ctx, clientID, propertyID)
	if err != nil {
		return err
	}

	var html, csv bytes.Buffer
	if err := report.HTML(&html, d); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	if err := report.CSV(&csv, d); err != nil {
		return fmt.Errorf("failed to render csv report: %w", err)
	}

	err = s.mailer.SendReport(email.Report{
		To:             d.Client.Email,
		ClientName:     d.Client.Name,
		PropertyLabel:  d.Property.Address,
		HTML:           html.Bytes(),
		CSV:            csv.Bytes(),
		AttachmentName: report.Filename(d, report.FormatCSV),
	})
	if err != nil {
		return err
	}

	s.log.Infof("Report for property %s emailed to client %s", propertyID, clientID)
	return nil
}

// ShareToken signs a link to a client's report on one listing. A
// non-positive ttl uses DefaultShareTTL.
func (s *Service) ShareToken(ctx context.Context, clientID, propertyID string, ttl time.Duration) (string, time.Time, error) {
	if _, err := s.ownedClient(ctx, clientID); err != nil {
		return "", time.Time{}, err
	}
	if _, err := s.property(propertyID); err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	if ttl > MaxShareTTL {
		return "", time.Time{}, fmt.Errorf("%w: share links last at most %s", ErrValidation, MaxShareTTL)
	}

	expiresAt := s.now().Add(ttl).Truncate(time.Second).UTC()
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	payload := strings.Join([]string{clientID, propertyID, exp}, "|")
	token := base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + utils.Sign(s.config.HMACSecret, clientID, propertyID, exp)

	s.log.Infof("Share link for client %s property %s issued until %s", clientID, propertyID, expiresAt.Format(time.RFC3339))
	return token, expiresAt, nil
}

// VerifyShareToken checks the signature and expiry of a share link.
func (s *Service) VerifyShareToken(token string) (SharedReport, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return SharedReport{}, ErrInvalidShareToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SharedReport{}, ErrInvalidShareToken
	}

	payload := string(raw)
	first, last := strings.Index(payload, "|"), strings.LastIndex(payload, "|")
	if first < 0 || first == last {
		return SharedReport{}, ErrInvalidShareToken
	}
	clientID, propertyID, exp := payload[:first], payload[first+1:last], payload[last+1:]
	if !utils.VerifySignature(sig, s.config.HMACSecret, clientID, propertyID, exp) {
		return SharedReport{}, ErrInvalidShareToken
	}

	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return SharedReport{}, ErrInvalidShareToken
	}
	expiresAt := time.Unix(unix, 0).UTC()
	if !s.now().Before(expiresAt) {
		return SharedReport{}, fmt.Errorf("%w: expired", ErrInvalidShareToken)
	}
	return SharedReport{ClientID: clientID, PropertyID: propertyID, ExpiresAt: expiresAt}, nil
}

// RenderShared writes the HTML report a share link points at.
func (s *Service) RenderShared(ctx context.Context, token string, w io.Writer) error {
	shared, err := s.VerifyShareToken(token)
	if err != nil {
		return err
	}
	c, err := s.store.GetClient(ctx, shared.ClientID)
	if err != nil {
		return err
	}
	ctx = WithAgentID(ctx, c.AgentID)
	_, err = s.RenderReport(ctx, shared.ClientID, shared.PropertyID, report.FormatHTML, w)
	return err
}

func (s *Service) reportData(ctx context.Context, clientID, propertyID string) (report.Data, error) {
	ca, err := s.AnalyzeForClient(ctx, clientID, propertyID)
	if err != nil {
		return report.Data{}, err
	}
	return report.Data{
		Client:      ca.Client,
		Property:    ca.Property,
		Analysis:    ca.Analysis,
		Projection:  analysis.Project(ca.Analysis, horizon(ca.Client)),
		GeneratedAt: s.now().UTC(),
	}, nil
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/courtside/rosterd/internal/config"
	"github.com/courtside/rosterd/internal/identity/domain"
	"github.com/courtside/rosterd/internal/providers/email"
	dbpkg "github.com/courtside/rosterd/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const minPasswordLength = 6

const actionTokenTTL = 24 * time.Hour

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Email email.Provider
}

type Provider struct {
	db              *gorm.DB
	log             *zap.Logger
	externalURL     string
	defaultRedirect string
	email           email.Provider
}

func New(p Params) domain.Gateway {
	return &Provider{
		db:              p.DB,
		log:             p.Log.Named("identity.provider"),
		externalURL:     p.Cfg.ExternalURL,
		defaultRedirect: p.Cfg.InviteDefaultRedirect,
		email:           p.Email,
	}
}

func (p *Provider) FindByEmail(ctx context.Context, rawEmail string) (*domain.Identity, error) {
	var identity domain.Identity
	err := p.db.WithContext(ctx).
		First(&identity, "email = ?", normalizeEmail(rawEmail)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (p *Provider) Create(ctx context.Context, req domain.CreateRequest) (*domain.Identity, error) {
	var hash *string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		value := string(hashed)
		hash = &value
	}

	metadata := datatypes.JSONMap{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	now := time.Now().UTC()
	identity := domain.Identity{
		ID:           uuid.New(),
		Email:        normalizeEmail(req.Email),
		Confirmed:    req.Confirmed,
		PasswordHash: hash,
		Metadata:     metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.db.WithContext(ctx).Create(&identity).Error; err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, err
	}

	return &identity, nil
}

func (p *Provider) UpdateCredential(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrInvalidCredential
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx := p.db.WithContext(ctx).
		Model(&domain.Identity{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": string(hashed),
			"confirmed":     true,
			"updated_at":    time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Provider) Remove(ctx context.Context, id uuid.UUID) error {
	tx := p.db.WithContext(ctx).Delete(&domain.Identity{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Provider) IssueActionLink(ctx context.Context, req domain.ActionLinkRequest) (*domain.ActionLinkResult, error) {
	address := normalizeEmail(req.Email)
	redirect := strings.TrimSpace(req.RedirectTo)
	if redirect == "" {
		redirect = p.defaultRedirect
	}

	token := domain.ActionToken{
		Token:      uuid.NewString(),
		Email:      address,
		Kind:       string(req.Kind),
		RedirectTo: redirect,
		ExpiresAt:  time.Now().UTC().Add(actionTokenTTL),
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s&type=%s&redirect_to=%s",
		p.externalURL, token.Token, url.QueryEscape(string(req.Kind)), url.QueryEscape(redirect))
	link = p.rewritePlaceholderRedirect(link)

	if !req.SendEmail {
		return &domain.ActionLinkResult{Link: link}, nil
	}

	subject, body := composeActionEmail(req.Kind, link)
	if err := p.email.Send(ctx, []string{address}, subject, body); err != nil {
		return nil, err
	}

	message := "Email sent successfully to " + address
	if req.Kind == domain.LinkKindRecovery {
		message = "Password reset email sent successfully to " + address
	}
	return &domain.ActionLinkResult{Message: message, EmailSent: true}, nil
}

// rewritePlaceholderRedirect replaces development redirect hosts embedded
// in a generated link with the configured safe default.
func (p *Provider) rewritePlaceholderRedirect(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		p.log.Warn("failed to parse action link", zap.Error(err))
		return link
	}

	redirect := parsed.Query().Get("redirect_to")
	if redirect == "" || !isPlaceholderRedirect(redirect) {
		return link
	}

	query := parsed.Query()
	query.Set("redirect_to", p.defaultRedirect)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func isPlaceholderRedirect(redirect string) bool {
	return strings.Contains(redirect, "localhost") || strings.Contains(redirect, "127.0.0.1")
}

func composeActionEmail(kind domain.LinkKind, link string) (string, string) {
	if kind == domain.LinkKindRecovery {
		return "Reset your password",
			fmt.Sprintf(`<p>A password reset was requested for your account.</p><p><a href="%s">Reset password</a></p>`, link)
	}
	return "You have been invited",
		fmt.Sprintf(`<p>You have been invited to join your team on Courtside.</p><p><a href="%s">Accept invitation</a></p>`, link)
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/BinaryNexusLab/real-estate/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a login token stays valid.
const TokenTTL = 24 * time.Hour

const minPasswordLength = 6

// Register creates a new agent with a hashed password
func (s *Service) Register(ctx context.Context, name, emailAddr, password string) (*models.Agent, error) {
	emailAddr = normalizeEmail(emailAddr)
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return nil, fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = emailAddr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	agent := &models.Agent{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateAgent(ctx, agent); err != nil {
		return nil, err
	}

	s.log.Infof("Agent registered: %s", agent.Email)
	return agent, nil
}

// Login authenticates an agent and returns a JWT token. In demo mode an
// unknown address is provisioned on the spot with the demo client book.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (string, error) {
	emailAddr = normalizeEmail(emailAddr)
	agent, err := s.store.FindAgentByEmail(ctx, emailAddr)
	switch {
	case errors.Is(err, repository.ErrNotFound) && s.config.DemoLogin:
		if agent, err = s.provisionDemoAgent(ctx, emailAddr, password); err != nil {
			return "", err
		}
	case errors.Is(err, repository.ErrNotFound):
		return "", ErrInvalidCredentials
	case err != nil:
		return "", err
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   agent.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Agent logged in: %s", agent.Email)
	return tokenString, nil
}

func (s *Service) provisionDemoAgent(ctx context.Context, emailAddr, password string) (*models.Agent, error) {
	agent, err := s.Register(ctx, "", emailAddr, password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	seed, err := repository.SeedClients()
	if err != nil {
		return nil, err
	}
	for i := range seed {
		c := seed[i]
		c.AgentID = agent.ID
		if err := s.putClient(ctx, &c); err != nil {
			return nil, fmt.Errorf("failed to seed demo clients: %w", err)
		}
	}

	s.log.Infof("Demo agent %s provisioned with %d clients", agent.Email, len(seed))
	return agent, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	viewerKey = "viewer"
	claimsKey = "claims"
)

// Claims of a viewer session token.
type Claims struct {
	ViewerID string `json:"viewer_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and checks viewer session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue генерує JWT для глядача; jti потрібен для відкликання при виході
func (t *TokenIssuer) Issue(viewerID string) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		ViewerID: viewerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    config.TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("handler: sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse перевіряє підпис, видавця та термін дії
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.TokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.ViewerID == "" {
		return nil, errors.New("token without viewer")
	}
	return claims, nil
}

// bearerToken бере токен з заголовка Authorization або з ?token= (браузерний WebSocket не вміє заголовки)
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return c.Query("token")
}

// Authenticate resolves the viewer of the request from its session token.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		claims, err := h.Tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		revoked, err := h.Storage.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session ended"})
			return
		}

		viewer, err := h.Storage.GetProfile(c.Request.Context(), claims.ViewerID)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown viewer"})
				return
			}
			h.respondError(c, err)
			return
		}

		c.Set(viewerKey, viewer)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly must run after Authenticate.
func (h *Handler) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := currentViewer(c)
		if viewer == nil || !viewer.IsAdmin {
			h.respondError(c, models.ErrAccessDenied)
			return
		}
		c.Next()
	}
}

func currentViewer(c *gin.Context) *models.Profile {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*models.Profile)
	return viewer
}

// GetAnonID створює профіль глядача та повертає JWT
func (h *Handler) GetAnonID(c *gin.Context) {
	profile := &models.Profile{FullName: strings.TrimSpace(c.Query("name"))}
	if err := h.Storage.CreateProfile(c.Request.Context(), profile); err != nil {
		h.respondError(c, err)
		return
	}

	token, claims, err := h.Tokens.Issue(profile.ID)
	if err != nil {
		h.log.Error("failed to create token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"viewer":     profile,
		"expires_at": claims.ExpiresAt.Time,
	})
}

// SignOut відкликає поточний токен до кінця його терміну дії
func (h *Handler) SignOut(c *gin.Context) {
	v, _ := c.Get(claimsKey)
	claims, ok := v.(*Claims)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.Storage.RevokeToken(c.Request.Context(), claims.ID, ttl); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentViewer(c))
}

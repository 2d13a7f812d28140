package auth

import (
	"strings"
	"time"

	"flightbooking/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxUserID   = "auth.userID"
	ctxUsername = "auth.username"
	ctxRole     = "auth.role"
)

type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewManager(secret string, tokenTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), tokenTTL: tokenTTL}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (m *Manager) IssueToken(user *domain.User, now time.Time) (string, error) {
	claims := Claims{
		Username: user.Username,
		UserID:   user.ID,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			Subject:   user.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, domain.E(domain.KindForbidden, "invalid token")
	}
	return claims, nil
}

// Authenticate resolves the bearer token and stores the caller's identity
// on the gin context. Requests without a valid token are rejected.
func (m *Manager) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Missing token"})
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid token format"})
			return
		}

		claims, err := m.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		SetIdentity(c, claims.UserID, claims.Username, domain.Role(claims.Role))
		c.Next()
	}
}

// RequireAdmin gates admin-only endpoints. Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(403, gin.H{"success": false, "message": "Access denied"})
			return
		}
		c.Next()
	}
}

// SetIdentity stores the caller's identity on the gin context.
func SetIdentity(c *gin.Context, userID, username string, role domain.Role) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUsername, username)
	c.Set(ctxRole, string(role))
}

func UserIDFrom(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func RoleFrom(c *gin.Context) domain.Role {
	return domain.Role(c.GetString(ctxRole))
}

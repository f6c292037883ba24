package handlers

import (
	"net/http"
	"strings"
	"time"

	"citysafe/internal/models"
	"citysafe/pkg/logger"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

const ctxUserKey = "auth_user"

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister 注册账号并直接签发令牌
func (h *Handlers) handleRegister(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{
			{"msg": "email and password are required"},
		}})
		return
	}

	existing, err := models.FindUserByEmail(h.db, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email already registered"})
		return
	}

	u, err := models.CreateUserAccount(h.db, req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		logger.Error("create account failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not create account"})
		return
	}

	token, err := h.issueToken(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Doc()})
}

// handleLogin 校验密码并签发令牌
func (h *Handlers) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	u, err := models.FindUserByEmail(h.db, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}
	if u == nil || !u.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect email or password"})
		return
	}
	if err := u.TouchLogin(h.db); err != nil {
		logger.Warn("stamp last login failed", zap.Error(err))
	}

	token, err := h.issueToken(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Doc()})
}

// handleLogout acknowledges the request. Tokens are stateless JWTs, so there
// is nothing to revoke server-side; clients drop their copy.
func (h *Handlers) handleLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handlers) handleMe(c *gin.Context) {
	u := c.MustGet(ctxUserKey).(*models.UserAccount)
	c.JSON(http.StatusOK, u.Doc())
}

func (h *Handlers) issueToken(userID string) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}

// authRequired 校验 Bearer 令牌并加载当前用户
func (h *Handlers) authRequired(c *gin.Context) {
	raw := c.GetHeader("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
		return
	}
	tokenStr := strings.TrimPrefix(raw, "Bearer ")

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or expired token"})
		return
	}

	u, err := models.FindUserByID(h.db, claims.Subject)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}
	if u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "user no longer exists"})
		return
	}
	c.Set(ctxUserKey, u)
	c.Next()
}

// currentUser returns the authenticated account when a valid token was sent,
// nil otherwise. Report routes accept both.
func (h *Handlers) currentUser(c *gin.Context) *models.UserAccount {
	raw := c.GetHeader("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		return nil
	}
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(raw, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	u, err := models.FindUserByID(h.db, claims.Subject)
	if err != nil {
		return nil
	}
	return u
}

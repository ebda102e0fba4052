package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/database"
)

const (
	sessionCookieName = "session_token"
	sessionTTL        = 15 * time.Minute
	minCredentialLen  = 3
	bcryptCost        = 10

	ctxUserID = "user_id"
)

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func validCredential(s string) bool {
	return isASCII(s) && len(s) >= minCredentialLen
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No data provided"})
		return
	}
	if !validCredential(req.Username) || !validCredential(req.Password) ||
		!isASCII(req.FirstName) || !isASCII(req.LastName) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Parameters are not entered correctly, please try again."})
		return
	}

	passwordBytes := []byte(req.Password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, bcryptCost)
	if err != nil {
		h.log.Errorf("hash password failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred during registration"})
		return
	}

	username := strings.ToLower(req.Username)
	_, err = h.store.CreateUser(c.Request.Context(), username, string(hash),
		strings.ToLower(req.FirstName), strings.ToLower(req.LastName))
	if errors.Is(err, database.ErrUsernameTaken) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Username already exists, please try again."})
		return
	}
	if err != nil {
		h.log.Errorf("create user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred during registration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully registered. Please login."})
}

func (h *Handler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No data provided"})
		return
	}
	if !validCredential(req.Username) || !validCredential(req.Password) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Parameters are not entered correctly, please try again."})
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), strings.ToLower(req.Username))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Username or password are wrong or user doesn't exist"})
		return
	}
	if err != nil {
		h.log.Errorf("get user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred during login"})
		return
	}

	passwordBytes := []byte(req.Password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Username or password are wrong or user doesn't exist"})
		return
	}

	token, err := h.store.CreateSession(c.Request.Context(), user.UserID, sessionTTL)
	if err != nil {
		h.log.Errorf("create session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred during login"})
		return
	}
	if err := h.store.TouchLogin(c.Request.Context(), user.UserID); err != nil {
		h.log.Warnf("touch last login failed: %v", err)
	}

	c.SetCookie(sessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successful login"})
}

func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil {
		if err := h.store.DeleteSession(c.Request.Context(), token); err != nil {
			h.log.Warnf("delete session failed: %v", err)
		}
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// RequireSession resolves the session cookie to a user and aborts with 401
// when the session is missing or expired. Each authenticated request slides
// the expiry forward by the full TTL.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login and try again"})
			return
		}
		sess, err := h.store.GetSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login and try again"})
			return
		}
		if err := h.store.ExtendSession(c.Request.Context(), token, sessionTTL); err != nil {
			h.log.Warnf("extend session failed: %v", err)
		}
		c.Set(ctxUserID, sess.UserID)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

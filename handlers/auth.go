package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"street-bites-go/models"
	"street-bites-go/utils"
)

// UserClaimsKey is the gin context key holding the authenticated caller's claims.
const UserClaimsKey = "user_claims"

// RegisterRequest struct to bind registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates a new admin account and returns a signed token.
func RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if a user with the email or username already exists
	var existingUser models.User
	queryResult := DB.Where("email = ? OR username = ?", email, req.Username).First(&existingUser)
	if queryResult.Error == nil {
		respondError(c, http.StatusBadRequest, "User with this email or username already exists")
		return
	}
	if queryResult.Error != gorm.ErrRecordNotFound {
		respondServerError(c, "Registration failed", queryResult.Error)
		return
	}

	user := models.User{Username: req.Username, Email: email}
	if err := user.HashPassword(req.Password, Cfg.BcryptCost); err != nil {
		respondServerError(c, "Failed to hash password", err)
		return
	}

	if err := DB.Create(&user).Error; err != nil {
		respondServerError(c, "Failed to create user", err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondServerError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// LoginHandler verifies credentials and returns a signed token.
func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := user.CheckPassword(req.Password); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondServerError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// AuthMiddleware validates the Bearer token and injects the caller identity
// into the request context. Handlers behind it never touch ambient auth state.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access denied. No token provided."})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		// The account may have been removed since the token was issued.
		var user models.User
		if err := DB.First(&user, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token. User not found."})
			return
		}

		c.Set(UserClaimsKey, claims)
		c.Next()
	}
}

// ProfileHandler returns the authenticated caller's account details.
func ProfileHandler(c *gin.Context) {
	claimsValue, exists := c.Get(UserClaimsKey)
	if !exists {
		respondServerError(c, "Profile lookup failed", gorm.ErrRecordNotFound)
		return
	}
	claims := claimsValue.(*utils.Claims)

	var user models.User
	if err := DB.First(&user, claims.UserID).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

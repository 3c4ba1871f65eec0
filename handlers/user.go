package handlers

import (
	"net/http"

	"repertoire/auth"
	"repertoire/db"
	"repertoire/models"
	"repertoire/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type CredentialsRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Password string `json:"password" binding:"required"`
}

type ProfileRequest struct {
	Username        string `json:"username" binding:"max=80"`
	NewPassword     string `json:"newPassword"`
	CurrentPassword string `json:"currentPassword"`
}

type MeResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
	AdminMode     bool      `json:"admin_mode"`
}

func NewUserInfo(u *models.User) *UserInfo {
	return &UserInfo{ID: u.ID, Username: u.Username}
}

func UserSignup(c *gin.Context) {
	r := CredentialsRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	user, err := models.UserCreate(db.Instance, utils.CleanText(r.Username), r.Password)
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	if err = auth.LoadSession(c).LoginUser(&user); err != nil {
		zap.L().Error("cannot save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{"Session error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registered successfully", "user": NewUserInfo(&user)})
}

func UserLogin(c *gin.Context) {
	r := CredentialsRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	user, ok := models.UserLogin(db.Instance, r.Username, r.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{"Invalid credentials"})
		return
	}
	if err := auth.LoadSession(c).LoginUser(&user); err != nil {
		zap.L().Error("cannot save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{"Session error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "user": NewUserInfo(&user)})
}

func UserLogout(c *gin.Context, user *models.User) {
	if err := auth.LoadSession(c).LogoutUser(); err != nil {
		zap.L().Error("cannot save session", zap.Error(err))
	}
	c.JSON(http.StatusOK, MessageResponse{"Logged out"})
}

// UserMe reports the session state, for guests too
func UserMe(c *gin.Context) {
	session := auth.LoadSession(c)
	result := MeResponse{AdminMode: session.IsAdminMode()}
	if user := session.User(); user.ID != 0 {
		result.Authenticated = true
		result.User = NewUserInfo(&user)
	}
	c.JSON(http.StatusOK, result)
}

func UserProfile(c *gin.Context, user *models.User) {
	r := ProfileRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	err := user.UpdateProfile(db.Instance, models.ProfileUpdate{
		Username:        utils.CleanText(r.Username),
		NewPassword:     r.NewPassword,
		CurrentPassword: r.CurrentPassword,
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": NewUserInfo(user)})
}

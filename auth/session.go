package auth

import (
	"repertoire/db"
	"repertoire/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	userIdKey    = "id"
	adminModeKey = "is_admin_mode"
)

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(user *models.User) error {
	s.Set(userIdKey, user.ID)
	return s.Save()
}

func (s *Session) LogoutUser() error {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// SetAdminMode grants (or drops) the guest admin capability for the rest of the session
func (s *Session) SetAdminMode(enabled bool) error {
	if enabled {
		s.Set(adminModeKey, true)
	} else {
		s.Delete(adminModeKey)
	}
	return s.Save()
}

func (s *Session) IsAdminMode() bool {
	enabled, _ := s.Get(adminModeKey).(bool)
	return enabled
}

// User returns the logged in user, or a zero User (ID == 0) for guests
func (s *Session) User() (user models.User) {
	id, ok := s.Get(userIdKey).(uint64)
	if !ok || id == 0 {
		return
	}
	user, err := models.UserLoad(db.Instance, id)
	if err != nil {
		return models.User{}
	}
	return
}

// Identity resolves who is asking; a logged in user always wins over the admin flag
func (s *Session) Identity() models.Identity {
	if user := s.User(); user.ID != 0 {
		return models.Authenticated(user.ID)
	}
	return models.Guest(s.IsAdminMode())
}

package httpapi

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/services"
)

func (s *Server) handleSignup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "fields are empty"})
		return
	}

	user, token, err := s.authService.Register(req.FullName, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields required"})
		return
	}

	user, token, err := s.authService.Login(req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleLogout(c *gin.Context) {
	// Expiring the cookie is all a logout means here; the token itself
	// simply ages out.
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

func (s *Server) handleCheckAuth(c *gin.Context) {
	user, err := s.authService.CheckAuth(auth.UserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	fileHeader, err := c.FormFile("profilePic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "profile image not provided"})
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		s.respondError(c, err)
		return
	}

	user, err := s.authService.UpdateProfilePic(auth.UserID(c), data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleContacts(c *gin.Context) {
	contacts, err := s.chatService.ListContacts(auth.UserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sidebarUsers": contacts})
}

func (s *Server) handleGetConversation(c *gin.Context) {
	counterpart := domain.Identity(c.Param("id"))
	messages, err := s.chatService.GetConversation(auth.UserID(c), counterpart)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// handleSendMessage accepts multipart form data: an optional "text" field
// and an optional "image" file, at least one of the two.
func (s *Server) handleSendMessage(c *gin.Context) {
	cmd := services.SendMessageCommand{
		Receiver: domain.Identity(c.Param("id")),
		Text:     c.PostForm("text"),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		data, err := readUpload(fileHeader)
		if err != nil {
			s.respondError(c, err)
			return
		}
		cmd.Image = data
	}

	message, err := s.chatService.SendMessage(c.Request.Context(), auth.UserID(c), cmd)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newMessage": message})
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(auth.SessionCookie, token, int(s.tokens.TTL().Seconds()), "/", "", false, true)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

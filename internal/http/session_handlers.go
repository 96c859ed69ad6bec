package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user"`
}

// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} sessionView
// @Router /session [get]
func (s *Server) getSession(c *gin.Context) {
	u := s.session.Session().CurrentUser()
	c.JSON(http.StatusOK, sessionView{Authenticated: u != nil, User: u})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Login
// @Tags session
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /session/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.session.Login(c, req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// @Summary Register customer
// @Tags session
// @Accept json
// @Produce json
// @Param input body registerReq true "Account"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /session/register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.session.Register(c, backend.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Logout
// @Tags session
// @Success 204
// @Router /session/logout [post]
func (s *Server) logout(c *gin.Context) {
	s.session.Logout(c)
	c.Status(http.StatusNoContent)
}

// @Summary Update profile
// @Tags session
// @Accept json
// @Produce json
// @Param input body backend.ProfileUpdate true "Profile"
// @Success 200 {object} domain.User
// @Failure 401 {object} map[string]string
// @Router /session/profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req backend.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.session.UpdateProfile(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type roleRequestReq struct {
	Role domain.Role `json:"requestedRole" binding:"required"`
}

// @Summary Request pharmacy_owner or delivery_person role
// @Tags session
// @Accept json
// @Param input body roleRequestReq true "Role"
// @Success 202
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /session/role-requests [post]
func (s *Server) requestRole(c *gin.Context) {
	var req roleRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	if err := s.session.RequestRoleChange(c, req.Role); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}


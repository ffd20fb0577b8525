// Package auth handles owner registration and JWT login for the platform
// account. TrendScope is single-owner: the first registration claims the
// instance.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/trendscope/core/internal/middleware"
	"github.com/trendscope/core/internal/models"
	jwtpkg "github.com/trendscope/core/internal/pkg/jwt"
	"github.com/trendscope/core/internal/pkg/response"
)

const tokenTTL = 30 * 24 * time.Hour

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func toResponse(u *models.UserModel) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Name: u.Name}
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) IsRegistered() bool {
	var count int64
	s.db.Model(&models.UserModel{}).Count(&count)
	return count > 0
}

func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	if s.IsRegistered() {
		return nil, fmt.Errorf("owner already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{Username: dto.Username, Password: string(hash), Name: name}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Login(username, password string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("user not found")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("wrong password")
	}
	token, err := jwtpkg.Sign(u.ID, tokenTTL)
	return token, &u, err
}

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.GET("/registered", h.registered)
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
	a.POST("/refresh", h.refresh)
}

// GET /auth/registered
func (h *Handler) registered(c *gin.Context) {
	response.OK(c, gin.H{"registered": h.svc.IsRegistered()})
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, toResponse(u))
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Username, dto.Password)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, gin.H{"token": token, "user": toResponse(u)})
}

// GET /auth/me
func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(u))
}

// POST /auth/refresh
func (h *Handler) refresh(c *gin.Context) {
	token, err := jwtpkg.Sign(middleware.CurrentUserID(c), tokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token})
}

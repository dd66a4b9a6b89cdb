package handlers

import (
	"errors"
	"net/http"
	"time"

	"truckbot/models"
	"truckbot/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler backs the operator dashboard API. Login is a single
// configured account checked against a bcrypt hash; everything else is JWT
// protected in the routes.
type AdminHandler struct {
	players     *services.PlayerService
	companies   *services.CompanyService
	driving     *services.DrivingService
	jobs        *services.JobService
	leaderboard *services.LeaderboardService

	adminUser    string
	adminPwdHash string
	jwtSecret    string
}

func NewAdminHandler(
	players *services.PlayerService,
	companies *services.CompanyService,
	driving *services.DrivingService,
	jobs *services.JobService,
	leaderboard *services.LeaderboardService,
	adminUser, adminPwdHash, jwtSecret string,
) *AdminHandler {
	return &AdminHandler{
		players:      players,
		companies:    companies,
		driving:      driving,
		jobs:         jobs,
		leaderboard:  leaderboard,
		adminUser:    adminUser,
		adminPwdHash: adminPwdHash,
		jwtSecret:    jwtSecret,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.adminPwdHash == "" || req.Username != h.adminUser ||
		bcrypt.CompareHashAndPassword([]byte(h.adminPwdHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.Username,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

func (h *AdminHandler) GetPlayer(c *gin.Context) {
	player, err := h.players.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrPlayerNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	job, _ := h.jobs.GetByPlayer(player.ID)
	session, _ := h.driving.GetSession(player.ID)
	c.JSON(http.StatusOK, gin.H{
		"player":  player,
		"job":     job,
		"driving": session != nil,
	})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	playerCount, _ := h.players.Count()
	companyCount, _ := h.companies.Count()
	sessions, _ := h.driving.ActiveSessions()
	jobs, _ := h.jobs.ActiveJobs()

	c.JSON(http.StatusOK, gin.H{
		"players":          playerCount,
		"companies":        companyCount,
		"driving_sessions": sessions,
		"active_jobs":      jobs,
	})
}

func (h *AdminHandler) GetTop(c *gin.Context) {
	key := c.Param("key")
	if key != "money" && key != "miles" && key != "level" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown leaderboard key"})
		return
	}

	if entries, ok := h.leaderboard.Top(key, 25); ok {
		c.JSON(http.StatusOK, gin.H{"key": key, "entries": entries, "source": "redis"})
		return
	}

	players, err := h.players.TopPlayers(key, 25)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "entries": players, "source": "sql"})
}

func (h *AdminHandler) GetCompanies(c *gin.Context) {
	companies, err := h.companies.Companies()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, companies)
}

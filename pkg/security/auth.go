package security

import (
	"fmt"
	"time"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/repository"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

// SetSecret installs the signing key. Called once from main after config
// validation; token operations panic-free only after this.
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role", "active").
		From("users").
		Where(goqu.Ex{"username": username, "active": true})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("user %q not found", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string, fullname string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"fullname": fullname,
		"exp":      time.Now().Add(time.Hour * 12).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func GetUserIDFromToken(c *gin.Context) (string, error) {
	return stringClaim(c, "userID")
}

// GetDisplayNameFromContext returns the fullname claim, falling back to the
// username when the token predates the fullname claim.
func GetDisplayNameFromContext(c *gin.Context) (string, error) {
	if name, err := stringClaim(c, "fullname"); err == nil && name != "" {
		return name, nil
	}
	return stringClaim(c, "username")
}

func stringClaim(c *gin.Context, claim string) (string, error) {
	value, exists := c.Get(claim)
	if !exists {
		return "", fmt.Errorf("claim %s missing from context", claim)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("claim %s is not a string", claim)
	}
	return str, nil
}

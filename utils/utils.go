package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(c *gin.Context, message string, code int) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func SuccessResponse(c *gin.Context, message string, code int) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// Role is the closed set of portal roles. Anything outside the set
// normalizes to RoleCustomer rather than erroring, so stale records from
// older imports keep working.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleRSM         Role = "rsm"
	RoleDistributor Role = "distributor"
	RoleCustomer    Role = "customer"
)

// NormalizeRole maps free-form role strings, including legacy aliases from
// earlier imports, onto the closed role set.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator", "superadmin":
		return RoleAdmin
	case "rsm", "regional sales manager", "sales manager":
		return RoleRSM
	case "distributor", "dist", "partner":
		return RoleDistributor
	default:
		return RoleCustomer
	}
}

// CanManageContracts reports whether a role may create or import contracts.
func CanManageContracts(r Role) bool {
	return r == RoleAdmin || r == RoleRSM
}

const secretKey = "blueinvent" // Make sure this is accessible and secured

// DownloadTokenTTL bounds how long a signed asset link stays redeemable.
const DownloadTokenTTL = 15 * time.Minute

// DownloadClaims is the payload of a signed asset download link.
type DownloadClaims struct {
	TokenID   string `json:"tid"`
	AssetType string `json:"asset_type"`
	AssetID   uint   `json:"asset_id"`
	jwt.RegisteredClaims
}

// GenerateDownloadToken signs an expiring link token for one asset and
// returns the token string, its unique id and the expiry time.
func GenerateDownloadToken(assetType string, assetID uint, userID int) (string, string, time.Time, error) {
	tokenID := uuid.New().String()
	expiresAt := time.Now().Add(DownloadTokenTTL)

	claims := DownloadClaims{
		TokenID:   tokenID,
		AssetType: assetType,
		AssetID:   assetID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("error signing download token: %w", err)
	}
	return signed, tokenID, expiresAt, nil
}

// ValidateDownloadToken parses and verifies a signed download link token.
func ValidateDownloadToken(tokenStr string) (*DownloadClaims, error) {
	claims := &DownloadClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

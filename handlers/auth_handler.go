package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/wordpace/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DeviceTokenTTL is how long a paired UI shell stays authorized.
const DeviceTokenTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid device token")

// DeviceAuth pairs UI shells. SecretHash is the bcrypt hash of the pairing
// secret; JWTSecret signs the issued device tokens.
type DeviceAuth struct {
	SecretHash []byte
	JWTSecret  string
}

// NewDeviceAuth accepts either a plain pairing secret or an existing bcrypt
// hash of one.
func NewDeviceAuth(deviceSecret, jwtSecret string) (DeviceAuth, error) {
	if strings.HasPrefix(deviceSecret, "$2") {
		return DeviceAuth{SecretHash: []byte(deviceSecret), JWTSecret: jwtSecret}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(deviceSecret), bcrypt.DefaultCost)
	if err != nil {
		return DeviceAuth{}, err
	}
	return DeviceAuth{SecretHash: hash, JWTSecret: jwtSecret}, nil
}

func (a DeviceAuth) issue(deviceName string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"device_id":   uuid.NewString(),
		"device_name": deviceName,
		"exp":         now.Add(DeviceTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}

// Parse validates a device token outside the middleware chain.
func (a DeviceAuth) Parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(a.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type PairDeviceRequest struct {
	DeviceName string `json:"device_name" validate:"required,max=64"`
	Secret     string `json:"secret" validate:"required"`
}

func (h *Handler) PairDevice(c *fiber.Ctx) error {
	var req PairDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword(h.Auth.SecretHash, []byte(req.Secret)); err != nil {
		h.Log.Warn("device pairing rejected", zap.String("device", req.DeviceName))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid pairing secret"})
	}

	t, err := h.Auth.issue(req.DeviceName, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	h.Log.Info("device paired", zap.String("device", req.DeviceName))
	return c.JSON(fiber.Map{"token": t})
}

// CurrentDevice reports which paired device the request's token belongs to.
func (h *Handler) CurrentDevice(c *fiber.Ctx) error {
	id := middleware.DeviceID(c)
	if id == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token carries no device id"})
	}
	return c.JSON(fiber.Map{"device_id": id})
}

package middleware

import (
  "os"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/requestdata"
)

// IdentityMiddleware attaches an optional caller identity to the request
// context. A missing or invalid token never blocks the request; the session
// resolver falls back to the default user in that case.
type IdentityMiddleware struct {
  log         *logger.Logger
  secret      []byte
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
  middlewareLogger := log.With("Middleware", "IdentityMiddleware")
  secret := os.Getenv("JWT_SECRET_KEY")
  if secret == "" {
    middlewareLogger.Warn("JWT_SECRET_KEY not set; all requests resolve to the default user")
  }
  return &IdentityMiddleware{log: middlewareLogger, secret: []byte(secret)}
}

func (im *IdentityMiddleware) Identify() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" || len(im.secret) == 0 {
      c.Next()
      return
    }
    userID, err := im.parseUserID(tokenString)
    if err != nil {
      im.log.Debug("ignoring invalid token", "error", err)
      c.Next()
      return
    }
    rd := &requestdata.RequestData{TokenString: tokenString, UserID: userID}
    ctx := requestdata.WithRequestData(c.Request.Context(), rd)
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

func (im *IdentityMiddleware) parseUserID(tokenString string) (uuid.UUID, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, jwt.ErrSignatureInvalid
    }
    return im.secret, nil
  })
  if err != nil {
    return uuid.Nil, err
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok || !token.Valid {
    return uuid.Nil, jwt.ErrTokenInvalidClaims
  }
  sub, _ := claims["sub"].(string)
  return uuid.Parse(sub)
}

func extractToken(c *gin.Context) string {
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}

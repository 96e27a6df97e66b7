// privacy.go - privacy-conscious client identification and request logging
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func generateSalt() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate hashing salt: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address so logs and submission limits never see the raw address.
// The salt lives only in memory, so hashes do not survive a restart.
func hashIP(salt, ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (s *server) clientKey(c *gin.Context) string {
	return hashIP(s.salt, c.ClientIP())
}

// Paths that are never logged.
var untrackedPrefixes = []string{"/static/", "/healthz"}

// Request logging middleware. Requests carrying Do Not Track are served but
// not logged.
func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", s.clientKey(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		s.logger.Info("request", fields...)
	}
}

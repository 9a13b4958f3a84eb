package config

import (
	"log"
	"os"
)

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// WarnInsecureDefaults logs every security-sensitive variable that is missing
// and therefore running on an insecure fallback. Missing values are a
// deployment error, not a supported mode.
func WarnInsecureDefaults() {
	sensitive := []string{
		"JWT_SECRET",
		"SMTP_HOST",
		"SMTP_PORT",
		"SMTP_USER",
		"SMTP_PASSWORD",
		"CLOUDINARY_CLOUD_NAME",
		"CLOUDINARY_API_KEY",
		"CLOUDINARY_API_SECRET",
	}
	for _, key := range sensitive {
		if os.Getenv(key) == "" {
			log.Printf("WARNING: %s is not set, falling back to an insecure default", key)
		}
	}
}

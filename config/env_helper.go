package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		log.Warnf("Invalid bool for config %s=%q, keeping %v", key, v, *dst)
		return
	}
	*dst = b
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warnf("Invalid duration for config %s=%q, keeping %s", key, v, *dst)
		return
	}
	*dst = d
}

func setInt64(dst *int64, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Warnf("Invalid integer for config %s=%q, keeping %d", key, v, *dst)
		return
	}
	*dst = n
}

func setInt(dst *int, key string) {
	n := int64(*dst)
	setInt64(&n, key)
	*dst = int(n)
}

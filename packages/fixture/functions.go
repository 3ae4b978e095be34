package fixture

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lowercase    = "abcdefghijklmnopqrstuvwxyz"
)

func fnUUID(_ []string) (string, error) {
	return uuid.New().String(), nil
}

func fnNow(_ []string) (string, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func fnTimestamp(_ []string) (string, error) {
	return strconv.FormatInt(time.Now().Unix(), 10), nil
}

func fnTimestampMs(_ []string) (string, error) {
	return strconv.FormatInt(time.Now().UnixMilli(), 10), nil
}

// fnDate formats the current UTC date. The first argument overrides the
// layout, the second shifts by whole days: date('2006-01-02', -1) is
// yesterday.
func fnDate(args []string) (string, error) {
	layout := "2006-01-02"
	if len(args) >= 1 && args[0] != "" {
		layout = args[0]
	}
	now := time.Now().UTC()
	if len(args) >= 2 {
		days, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("fixture: date offset %q is not an integer", args[1])
		}
		now = now.AddDate(0, 0, days)
	}
	return now.Format(layout), nil
}

func fnRandomInt(args []string) (string, error) {
	lo, hi := 0, 100
	if len(args) >= 2 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("fixture: randomInt min %q is not an integer", args[0])
		}
		lo = v
		v, err = strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("fixture: randomInt max %q is not an integer", args[1])
		}
		hi = v
	}
	if hi < lo {
		return "", fmt.Errorf("fixture: randomInt range %d..%d is empty", lo, hi)
	}
	return strconv.Itoa(rand.Intn(hi-lo+1) + lo), nil
}

func fnRandomString(args []string) (string, error) {
	return randomFromCharset(args, 16, alphanumeric, "randomString")
}

func fnRandomAlphanumeric(args []string) (string, error) {
	return randomFromCharset(args, 8, alphanumeric, "randomAlphanumeric")
}

func fnRandomEmail(_ []string) (string, error) {
	user := randomString(8, lowercase)
	domain := randomString(6, lowercase)
	return fmt.Sprintf("%s@%s.com", user, domain), nil
}

func randomFromCharset(args []string, defaultLen int, charset, name string) (string, error) {
	length := defaultLen
	if len(args) >= 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("fixture: %s length %q is not an integer", name, args[0])
		}
		if v < 0 {
			return "", fmt.Errorf("fixture: %s length must not be negative", name)
		}
		length = v
	}
	return randomString(length, charset), nil
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

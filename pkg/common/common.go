package common

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	rand.Seed(time.Now().UnixNano())
	var err error
	snowflakeNode, err = snowflake.NewNode(rand.Int63n(1023))
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake int64 ID.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUIDBase36 returns a snowflake ID encoded in base36, used for
// human-readable deal codes.
func UUIDBase36() string {
	return strings.ToUpper(snowflakeNode.Generate().Base36())
}

func Sha256Hash(src string) string {
	h := sha256.New()
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}

func Sha256HashWithSalt(src string, salt string) string {
	return Sha256Hash(src + salt)
}

// GetSecretSalt reads the password salt from the environment with a
// built-in default for development setups.
func GetSecretSalt() string {
	if salt := os.Getenv("JAM3A_SECRET_SALT"); salt != "" {
		return salt
	}
	return "jam3a-secret-salt"
}

func IsEmptyOrNA(val string) bool {
	v := strings.TrimSpace(val)
	return v == "" || v == NA
}

// InSlice reports whether v is present in vals.
func InSlice(v string, vals []string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}

package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

// NewUser builds a user-shaped fixture. Unless the caller supplies one,
// EncryptedPassword is a real bcrypt hash of "demo123" so authentication
// paths work against factory data.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if len(customData) > 0 {
		hasEncryptedPassword := false

		for _, data := range customData {
			if _, exists := data["EncryptedPassword"]; exists {
				hasEncryptedPassword = true
				break
			}
		}

		if !hasEncryptedPassword {
			encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)

			// fabricator's Build only applies the first overrides map, so the
			// hash must go into it rather than an appended map.
			customData[0]["EncryptedPassword"] = string(encryptedPassword)
		}
	}

	return instance.Build(customData...)
}

package main

import (
	"fmt"
	"time"

	"evalgo.org/servium/internal/auth"
)

func main() {
	// Matches the default jwt_secret in config.yaml, dev use only
	secret := "change-me-in-production"
	subject := "dev@localhost"
	roles := []string{auth.RoleRead, auth.RoleWrite}
	expiration := 24 * time.Hour

	token, err := auth.GenerateToken(secret, subject, "", roles, expiration)
	if err != nil {
		panic(err)
	}

	fmt.Println(token)
}

// admin-token prints a short-lived admin JWT for the /admin endpoints.
// The signing secret comes from ADMIN_JWT_SECRET, matching the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cmbs_reminder/internal/http/middleware"

	"github.com/joho/godotenv"
)

func main() {
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := middleware.GenerateAdminJWT([]byte(secret), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"evalgo.org/servium/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage authentication tokens",
	Long:  `Generate and manage bearer tokens for API access`,
}

var generateUserTokenCmd = &cobra.Command{
	Use:   "user [subject]",
	Short: "Generate a user authentication token",
	Long: `Generate a JWT bearer token for a user.

The token is signed with the jwt_secret from the configuration file and
carries the subject, organization, and role claims. Tokens without the
write role can only read the catalog.

Examples:
  # Read-only token
  servium token user alice@example.com

  # Token allowed to create and delete services
  servium token user alice@example.com --roles read,write

  # Custom expiration (in hours) and explicit secret
  servium token user ci-bot --roles write --expiration 8760 --secret "my-secret"`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerateUserToken,
}

var (
	tokenExpiration   int64
	tokenSecret       string
	tokenRoles        string
	tokenOrganization string
)

func init() {
	generateUserTokenCmd.Flags().Int64Var(&tokenExpiration, "expiration", 24, "Token expiration in hours")
	generateUserTokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "JWT signing secret (default: from config file)")
	generateUserTokenCmd.Flags().StringVar(&tokenRoles, "roles", auth.RoleRead, "Comma separated roles to embed in the token")
	generateUserTokenCmd.Flags().StringVar(&tokenOrganization, "organization", "", "Organization UUID claim")

	tokenCmd.AddCommand(generateUserTokenCmd)
}

func runGenerateUserToken(cmd *cobra.Command, args []string) error {
	subject := args[0]

	// Get secret from flag or config
	secret := tokenSecret
	if secret == "" && cfg != nil {
		secret = cfg.Security.JWTSecret
	}
	if secret == "" {
		return fmt.Errorf(`jwt_secret not found in config file and --secret not provided

Please either:
  1. Add to your config.yaml:
     security:
       jwt_secret: your-secret-here

  2. Or use the --secret flag:
     servium token user %s --secret "your-secret-here"`, subject)
	}

	var roles []string
	for _, role := range strings.Split(tokenRoles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}

	expiration := time.Duration(tokenExpiration) * time.Hour

	token, err := auth.GenerateToken(secret, subject, tokenOrganization, roles, expiration)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Printf("User Token Generated Successfully\n")
	fmt.Printf("=================================\n\n")
	fmt.Printf("Subject:    %s\n", subject)
	fmt.Printf("Roles:      %s\n", strings.Join(roles, ", "))
	fmt.Printf("Expiration: %s (%d hours)\n", expiration, tokenExpiration)
	fmt.Printf("\nToken:\n%s\n\n", token)
	fmt.Printf("Use it as a bearer credential:\n")
	fmt.Printf("  curl -H \"Authorization: Bearer %s\" http://localhost:%d/services\n", token, serverPort())

	return nil
}

func serverPort() int {
	if cfg != nil {
		return cfg.Server.Port
	}
	return 8090
}

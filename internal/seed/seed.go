package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/moodmate-org/moodmate-backend/internal/services"
)

// SeedAll ensures the default fallback user exists before the first request
// arrives. The resolver would create it lazily anyway; seeding just keeps the
// first chat turn fast and surfaces DB problems at boot.
func SeedAll(db *gorm.DB, resolver services.SessionResolver) error {
	fmt.Println("Running SeedAll... ensuring default user")

	if _, err := resolver.DefaultUser(context.Background(), db); err != nil {
		return fmt.Errorf("failed to ensure default user: %w", err)
	}

	fmt.Println("SeedAll Complete!")
	return nil
}
